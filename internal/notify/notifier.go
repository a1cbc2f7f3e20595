// Package notify emails the operations inbox when a stored message raises
// an alert.
package notify

import (
	"encoding/json"
	"fmt"

	"github.com/nomavia/guestlink/internal/platform/mailer"
	"github.com/nomavia/guestlink/pkg/events"
	"github.com/nomavia/guestlink/pkg/logger"
)

type Notifier struct {
	bus     events.Subscriber
	mailer  mailer.Service
	queue   string
	alertTo string
}

func New(bus events.Subscriber, m mailer.Service, queue, alertTo string) *Notifier {
	return &Notifier{
		bus:     bus,
		mailer:  m,
		queue:   queue,
		alertTo: alertTo,
	}
}

// Start subscribes to alert events. Mail failures are logged and dropped;
// the triggering write already committed and must not be affected.
func (n *Notifier) Start() error {
	if n.alertTo == "" {
		logger.Warn("alert notifications disabled (ALERT_NOTIFY_EMAIL not set)")
		return nil
	}

	err := n.bus.QueueSubscribe(events.AlertRaised, n.queue, func(msg *events.Message) {
		var event events.AlertRaisedEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			logger.Error("failed to decode alert event", "error", err)
			return
		}

		if err := n.mailer.SendAlert(n.alertTo, event.Code, event.Author, event.Text); err != nil {
			logger.Error("failed to send alert notification",
				"error", err, "code", event.Code, "message_id", event.MessageID)
			return
		}

		logger.Info("alert notification sent", "code", event.Code, "message_id", event.MessageID)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to alert events: %w", err)
	}
	return nil
}
