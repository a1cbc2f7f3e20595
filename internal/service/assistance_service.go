package service

import (
	"context"
	"fmt"

	"github.com/nomavia/guestlink/internal/domain"
	"github.com/nomavia/guestlink/internal/hub"
	"github.com/nomavia/guestlink/internal/repo/postgres"
	"github.com/nomavia/guestlink/pkg/events"
	"github.com/nomavia/guestlink/pkg/logger"
)

// AssistanceService is the request/response channel next to the main
// conversation ledger.
type AssistanceService interface {
	Submit(ctx context.Context, req *domain.AssistancePostReq) (*domain.AssistanceRequest, error)
	ListAll(ctx context.Context) ([]domain.AssistanceWithResponse, error)
	ListByCode(ctx context.Context, code string) ([]domain.AssistanceWithResponse, error)
	MarkRead(ctx context.Context, code string, role domain.Role) error
	CountUnread(ctx context.Context, code string, role domain.Role) (int, error)
	Respond(ctx context.Context, requestID int64, text string) (*domain.AssistanceResponse, error)
	RespondLatest(ctx context.Context, code, text string) (*domain.AssistanceResponse, error)
}

type assistanceService struct {
	assistanceRepo postgres.AssistanceRepository
	broadcaster    Broadcaster
	eventBus       events.Publisher
}

func NewAssistanceService(
	assistanceRepo postgres.AssistanceRepository,
	broadcaster Broadcaster,
	eventBus events.Publisher,
) AssistanceService {
	return &assistanceService{
		assistanceRepo: assistanceRepo,
		broadcaster:    broadcaster,
		eventBus:       eventBus,
	}
}

func (s *assistanceService) Submit(ctx context.Context, req *domain.AssistancePostReq) (*domain.AssistanceRequest, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	request, err := s.assistanceRepo.Create(ctx, req.Code, req.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to create assistance request: %w", err)
	}

	s.broadcaster.Broadcast(hub.EventNewAssistance, request)

	event := events.AssistanceRequestedEvent{
		RequestID: request.ID,
		Code:      request.Code,
		CreatedAt: request.CreatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.AssistanceRequested, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish assistance requested event", "error", err, "request_id", request.ID)
	}

	return request, nil
}

// ListAll serves the triage inbox: newest request first, each joined with
// at most its latest response.
func (s *assistanceService) ListAll(ctx context.Context) ([]domain.AssistanceWithResponse, error) {
	items, err := s.assistanceRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assistance requests: %w", err)
	}
	return items, nil
}

func (s *assistanceService) ListByCode(ctx context.Context, code string) ([]domain.AssistanceWithResponse, error) {
	items, err := s.assistanceRepo.ListByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to list assistance requests for code: %w", err)
	}
	return items, nil
}

// MarkRead flips the role's read flag on every request for the code.
// Flags only ever move false to true, so repeating the call changes
// nothing.
func (s *assistanceService) MarkRead(ctx context.Context, code string, role domain.Role) error {
	if err := s.assistanceRepo.MarkRead(ctx, code, role.AdminLike()); err != nil {
		return fmt.Errorf("failed to mark assistance requests read: %w", err)
	}
	return nil
}

func (s *assistanceService) CountUnread(ctx context.Context, code string, role domain.Role) (int, error) {
	n, err := s.assistanceRepo.CountUnread(ctx, code, role.AdminLike())
	if err != nil {
		return 0, fmt.Errorf("failed to count unread assistance requests: %w", err)
	}
	return n, nil
}

// Respond attaches a response to an existing request. Read flags are left
// alone.
func (s *assistanceService) Respond(ctx context.Context, requestID int64, text string) (*domain.AssistanceResponse, error) {
	request, err := s.assistanceRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assistance request: %w", err)
	}
	if request == nil {
		return nil, domain.ErrNotFound
	}

	response, err := s.assistanceRepo.InsertResponse(ctx, requestID, text)
	if err != nil {
		return nil, fmt.Errorf("failed to store assistance response: %w", err)
	}

	s.broadcaster.Broadcast(hub.EventAssistanceResponse, response)

	event := events.AssistanceRespondedEvent{
		ResponseID: response.ID,
		RequestID:  response.RequestID,
		CreatedAt:  response.CreatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.AssistanceResponded, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish assistance responded event", "error", err, "response_id", response.ID)
	}

	return response, nil
}

// RespondLatest is the real-time admin reply path: the response lands on
// the most recent request filed under the code.
func (s *assistanceService) RespondLatest(ctx context.Context, code, text string) (*domain.AssistanceResponse, error) {
	request, err := s.assistanceRepo.GetLatestByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest assistance request: %w", err)
	}
	if request == nil {
		return nil, domain.ErrNotFound
	}
	return s.Respond(ctx, request.ID, text)
}
