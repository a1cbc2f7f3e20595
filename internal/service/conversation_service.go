package service

import (
	"context"
	"fmt"

	"github.com/nomavia/guestlink/internal/alert"
	"github.com/nomavia/guestlink/internal/domain"
	"github.com/nomavia/guestlink/internal/hub"
	"github.com/nomavia/guestlink/internal/platform/translate"
	"github.com/nomavia/guestlink/internal/repo/postgres"
	"github.com/nomavia/guestlink/pkg/events"
	"github.com/nomavia/guestlink/pkg/logger"
)

// Broadcaster is the slice of the hub the services need.
type Broadcaster interface {
	Broadcast(eventType string, data any)
}

// ConversationService is the append-only conversation ledger for a code.
type ConversationService interface {
	Append(ctx context.Context, req *domain.ConversationPostReq) (*domain.ConversationMessage, error)
	List(ctx context.Context, code string) ([]domain.ConversationMessage, error)
}

type conversationService struct {
	conversationRepo postgres.ConversationRepository
	lodgingRepo      postgres.LodgingRepository
	detector         alert.Detector
	translator       translate.Translator
	broadcaster      Broadcaster
	eventBus         events.Publisher
}

func NewConversationService(
	conversationRepo postgres.ConversationRepository,
	lodgingRepo postgres.LodgingRepository,
	detector alert.Detector,
	translator translate.Translator,
	broadcaster Broadcaster,
	eventBus events.Publisher,
) ConversationService {
	return &conversationService{
		conversationRepo: conversationRepo,
		lodgingRepo:      lodgingRepo,
		detector:         detector,
		translator:       translator,
		broadcaster:      broadcaster,
		eventBus:         eventBus,
	}
}

// Append stores a message, computing its alert flag once at creation. The
// broadcast and event publish only happen after a successful insert.
func (s *conversationService) Append(ctx context.Context, req *domain.ConversationPostReq) (*domain.ConversationMessage, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	text := req.Text
	if req.Author == string(domain.RoleGuest) {
		text = s.translateForLodging(ctx, req.Code, text)
	}

	isAlert := s.detector.Scan(text)

	msg, err := s.conversationRepo.Insert(ctx, req.Code, req.Author, text, isAlert)
	if err != nil {
		return nil, fmt.Errorf("failed to append conversation message: %w", err)
	}

	s.broadcaster.Broadcast(hub.EventNewMessage, msg)

	event := events.MessageCreatedEvent{
		MessageID: msg.ID,
		Code:      msg.Code,
		Author:    msg.Author,
		Alert:     msg.Alert,
		CreatedAt: msg.CreatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.MessageCreated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish message created event", "error", err, "message_id", msg.ID)
	}

	if msg.Alert {
		alertEvent := events.AlertRaisedEvent{
			MessageID: msg.ID,
			Code:      msg.Code,
			Author:    msg.Author,
			Text:      msg.Text,
			CreatedAt: msg.CreatedAt,
		}
		if err := s.eventBus.Publish(ctx, events.AlertRaised, alertEvent); err != nil {
			logger.ErrorContext(ctx, "Failed to publish alert event", "error", err, "message_id", msg.ID)
		}
	}

	return msg, nil
}

// List returns all messages for a code in creation order. An unknown code
// yields an empty list; code existence is the resolver's concern, not the
// ledger's.
func (s *conversationService) List(ctx context.Context, code string) ([]domain.ConversationMessage, error) {
	messages, err := s.conversationRepo.ListByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversation messages: %w", err)
	}
	return messages, nil
}

// translateForLodging routes guest text through the translation proxy
// toward the lodging's configured language. Any failure keeps the
// original text.
func (s *conversationService) translateForLodging(ctx context.Context, code, text string) string {
	lodging, err := s.lodgingRepo.GetByCode(ctx, code)
	if err != nil {
		logger.WarnContext(ctx, "Failed to load lodging for translation", "error", err, "code", code)
		return text
	}
	if lodging == nil || lodging.Language == "" {
		return text
	}
	return s.translator.Translate(ctx, text, lodging.Language)
}
