package service_test

import (
	"context"
	"sort"
	"time"

	"github.com/nomavia/guestlink/internal/domain"
)

// ---------- Mocks ----------

type mockLodgingRepo struct {
	lodgings map[string]*domain.Lodging
	err      error
}

func newMockLodgingRepo() *mockLodgingRepo {
	return &mockLodgingRepo{lodgings: make(map[string]*domain.Lodging)}
}

func (m *mockLodgingRepo) GetByCode(_ context.Context, code string) (*domain.Lodging, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.lodgings[code], nil
}

type mockOperatorRepo struct {
	operators map[string]*domain.Operator
	err       error
}

func newMockOperatorRepo() *mockOperatorRepo {
	return &mockOperatorRepo{operators: make(map[string]*domain.Operator)}
}

func (m *mockOperatorRepo) GetByCode(_ context.Context, code string) (*domain.Operator, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.operators[code], nil
}

type mockConversationRepo struct {
	nextID    int64
	messages  []domain.ConversationMessage
	insertErr error
}

func newMockConversationRepo() *mockConversationRepo {
	return &mockConversationRepo{nextID: 1}
}

func (m *mockConversationRepo) Insert(_ context.Context, code, author, text string, alert bool) (*domain.ConversationMessage, error) {
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	msg := domain.ConversationMessage{
		ID:        m.nextID,
		Code:      code,
		Author:    author,
		Text:      text,
		Alert:     alert,
		CreatedAt: time.Now(),
	}
	m.nextID++
	m.messages = append(m.messages, msg)
	return &msg, nil
}

func (m *mockConversationRepo) ListByCode(_ context.Context, code string) ([]domain.ConversationMessage, error) {
	var out []domain.ConversationMessage
	for _, msg := range m.messages {
		if msg.Code == code {
			out = append(out, msg)
		}
	}
	return out, nil
}

type mockAssistanceRepo struct {
	nextID     int64
	nextRespID int64
	requests   map[int64]*domain.AssistanceRequest
	responses  map[int64][]domain.AssistanceResponse
	createErr  error
	respondErr error
}

func newMockAssistanceRepo() *mockAssistanceRepo {
	return &mockAssistanceRepo{
		nextID:     1,
		nextRespID: 1,
		requests:   make(map[int64]*domain.AssistanceRequest),
		responses:  make(map[int64][]domain.AssistanceResponse),
	}
}

func (m *mockAssistanceRepo) Create(_ context.Context, code, text string) (*domain.AssistanceRequest, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	req := &domain.AssistanceRequest{
		ID:        m.nextID,
		Code:      code,
		Text:      text,
		CreatedAt: time.Now(),
	}
	m.nextID++
	m.requests[req.ID] = req
	return req, nil
}

func (m *mockAssistanceRepo) GetByID(_ context.Context, id int64) (*domain.AssistanceRequest, error) {
	return m.requests[id], nil
}

func (m *mockAssistanceRepo) GetLatestByCode(_ context.Context, code string) (*domain.AssistanceRequest, error) {
	var latest *domain.AssistanceRequest
	for _, req := range m.requests {
		if req.Code != code {
			continue
		}
		if latest == nil || req.ID > latest.ID {
			latest = req
		}
	}
	return latest, nil
}

func (m *mockAssistanceRepo) join(req *domain.AssistanceRequest) domain.AssistanceWithResponse {
	item := domain.AssistanceWithResponse{AssistanceRequest: *req}
	if responses := m.responses[req.ID]; len(responses) > 0 {
		last := responses[len(responses)-1]
		item.Response = &last
	}
	return item
}

func (m *mockAssistanceRepo) ListAll(_ context.Context) ([]domain.AssistanceWithResponse, error) {
	var out []domain.AssistanceWithResponse
	for _, req := range m.requests {
		out = append(out, m.join(req))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *mockAssistanceRepo) ListByCode(_ context.Context, code string) ([]domain.AssistanceWithResponse, error) {
	var out []domain.AssistanceWithResponse
	for _, req := range m.requests {
		if req.Code == code {
			out = append(out, m.join(req))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockAssistanceRepo) MarkRead(_ context.Context, code string, admin bool) error {
	for _, req := range m.requests {
		if req.Code != code {
			continue
		}
		if admin {
			req.ReadByAdmin = true
		} else {
			req.ReadByGuest = true
		}
	}
	return nil
}

func (m *mockAssistanceRepo) CountUnread(_ context.Context, code string, admin bool) (int, error) {
	n := 0
	for _, req := range m.requests {
		if req.Code != code {
			continue
		}
		if admin && !req.ReadByAdmin {
			n++
		}
		if !admin && !req.ReadByGuest {
			n++
		}
	}
	return n, nil
}

func (m *mockAssistanceRepo) InsertResponse(_ context.Context, requestID int64, text string) (*domain.AssistanceResponse, error) {
	if m.respondErr != nil {
		return nil, m.respondErr
	}
	resp := domain.AssistanceResponse{
		ID:        m.nextRespID,
		RequestID: requestID,
		Text:      text,
		CreatedAt: time.Now(),
	}
	m.nextRespID++
	m.responses[requestID] = append(m.responses[requestID], resp)
	return &resp, nil
}

type broadcastCall struct {
	eventType string
	data      any
}

type mockBroadcaster struct {
	calls []broadcastCall
}

func (m *mockBroadcaster) Broadcast(eventType string, data any) {
	m.calls = append(m.calls, broadcastCall{eventType: eventType, data: data})
}

type publishCall struct {
	subject string
	data    any
}

type mockPublisher struct {
	calls  []publishCall
	pubErr error
}

func (m *mockPublisher) Publish(_ context.Context, subject string, data interface{}) error {
	if m.pubErr != nil {
		return m.pubErr
	}
	m.calls = append(m.calls, publishCall{subject: subject, data: data})
	return nil
}

func (m *mockPublisher) Close() error { return nil }
