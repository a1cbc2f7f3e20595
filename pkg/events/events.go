package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nomavia/guestlink/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	QueueSubscribe(subject, queue string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
		})
	})
	return err
}

func (n *NATSEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
		})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// Event subjects
const (
	MessageCreated      = "conversation.message.created"
	AlertRaised         = "conversation.alert.raised"
	AssistanceRequested = "assistance.requested"
	AssistanceResponded = "assistance.responded"
)

// Event payloads
type MessageCreatedEvent struct {
	MessageID int64     `json:"message_id"`
	Code      string    `json:"code"`
	Author    string    `json:"author"`
	Alert     bool      `json:"alert"`
	CreatedAt time.Time `json:"created_at"`
}

type AlertRaisedEvent struct {
	MessageID int64     `json:"message_id"`
	Code      string    `json:"code"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type AssistanceRequestedEvent struct {
	RequestID int64     `json:"request_id"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

type AssistanceRespondedEvent struct {
	ResponseID int64     `json:"response_id"`
	RequestID  int64     `json:"request_id"`
	CreatedAt  time.Time `json:"created_at"`
}
