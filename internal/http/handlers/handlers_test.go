package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nomavia/guestlink/internal/domain"
	"github.com/nomavia/guestlink/internal/http/handlers"
	"github.com/nomavia/guestlink/pkg/logger"
)

// ---------- Mocks ----------

type mockAccessService struct {
	resolved map[string]*domain.Resolved
}

func (m *mockAccessService) Resolve(_ context.Context, code string) (*domain.Resolved, error) {
	if r, ok := m.resolved[code]; ok {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

type mockConversationService struct {
	nextID   int64
	messages []domain.ConversationMessage
	lastCtx  context.Context
}

func (m *mockConversationService) Append(ctx context.Context, req *domain.ConversationPostReq) (*domain.ConversationMessage, error) {
	m.lastCtx = ctx
	if err := req.Validate(); err != nil {
		return nil, err
	}
	m.nextID++
	msg := domain.ConversationMessage{
		ID:        m.nextID,
		Code:      req.Code,
		Author:    req.Author,
		Text:      req.Text,
		Alert:     req.Text == "the wifi is down",
		CreatedAt: time.Now(),
	}
	m.messages = append(m.messages, msg)
	return &msg, nil
}

func (m *mockConversationService) List(ctx context.Context, code string) ([]domain.ConversationMessage, error) {
	m.lastCtx = ctx
	var out []domain.ConversationMessage
	for _, msg := range m.messages {
		if msg.Code == code {
			out = append(out, msg)
		}
	}
	return out, nil
}

type mockAssistanceService struct {
	nextID   int64
	requests map[int64]*domain.AssistanceRequest
	marked   []string // "code/role" calls, for assertions
}

func newMockAssistanceService() *mockAssistanceService {
	return &mockAssistanceService{requests: make(map[int64]*domain.AssistanceRequest)}
}

func (m *mockAssistanceService) Submit(_ context.Context, req *domain.AssistancePostReq) (*domain.AssistanceRequest, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	m.nextID++
	request := &domain.AssistanceRequest{ID: m.nextID, Code: req.Code, Text: req.Text, CreatedAt: time.Now()}
	m.requests[request.ID] = request
	return request, nil
}

func (m *mockAssistanceService) ListAll(_ context.Context) ([]domain.AssistanceWithResponse, error) {
	var out []domain.AssistanceWithResponse
	for id := m.nextID; id >= 1; id-- {
		if req, ok := m.requests[id]; ok {
			out = append(out, domain.AssistanceWithResponse{AssistanceRequest: *req})
		}
	}
	return out, nil
}

func (m *mockAssistanceService) ListByCode(_ context.Context, code string) ([]domain.AssistanceWithResponse, error) {
	var out []domain.AssistanceWithResponse
	for id := int64(1); id <= m.nextID; id++ {
		if req, ok := m.requests[id]; ok && req.Code == code {
			out = append(out, domain.AssistanceWithResponse{AssistanceRequest: *req})
		}
	}
	return out, nil
}

func (m *mockAssistanceService) MarkRead(_ context.Context, code string, role domain.Role) error {
	m.marked = append(m.marked, code+"/"+string(role))
	return nil
}

func (m *mockAssistanceService) CountUnread(_ context.Context, code string, role domain.Role) (int, error) {
	n := 0
	for _, req := range m.requests {
		if req.Code == code {
			n++
		}
	}
	return n, nil
}

func (m *mockAssistanceService) Respond(_ context.Context, requestID int64, text string) (*domain.AssistanceResponse, error) {
	if _, ok := m.requests[requestID]; !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.AssistanceResponse{ID: 1, RequestID: requestID, Text: text, CreatedAt: time.Now()}, nil
}

func (m *mockAssistanceService) RespondLatest(_ context.Context, code, text string) (*domain.AssistanceResponse, error) {
	for id := m.nextID; id >= 1; id-- {
		if req, ok := m.requests[id]; ok && req.Code == code {
			return m.Respond(context.Background(), req.ID, text)
		}
	}
	return nil, domain.ErrNotFound
}

// ---------- Helpers ----------

func newRouter(access *mockAccessService, conversations *mockConversationService, assistance *mockAssistanceService) chi.Router {
	h := handlers.New(access, conversations, assistance)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/check-code/{code}", h.CheckCode)
		r.Route("/conversations", func(r chi.Router) {
			r.Post("/", h.PostConversation)
			r.Get("/{code}", h.ListConversation)
		})
		r.Route("/assistance", func(r chi.Router) {
			r.Get("/", h.ListAssistance)
			r.Post("/", h.PostAssistance)
			r.Post("/reponse", h.PostAssistanceResponse)
			r.Patch("/lu", h.MarkAssistanceRead)
			r.Get("/non-lus/{code}/{role}", h.CountUnreadAssistance)
			r.Get("/{code}", h.ListAssistanceByCode)
		})
	})
	return r
}

func doJSON(t *testing.T, r chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// ---------- Tests ----------

func TestCheckCode(t *testing.T) {
	access := &mockAccessService{resolved: map[string]*domain.Resolved{
		"guest-1": {Role: domain.RoleGuest, Lodging: &domain.Lodging{Code: "guest-1", HostName: "DemoHost"}},
		"host-1":  {Role: domain.RoleHost, Operator: &domain.Operator{Name: "DemoHost", Code: "host-1"}},
	}}
	r := newRouter(access, &mockConversationService{}, newMockAssistanceService())

	rec := doJSON(t, r, http.MethodGet, "/api/check-code/guest-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Type    string          `json:"type"`
		Lodging *domain.Lodging `json:"logement"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Type != "voyageur" || body.Lodging == nil || body.Lodging.HostName != "DemoHost" {
		t.Errorf("unexpected body: %+v", body)
	}

	rec = doJSON(t, r, http.MethodGet, "/api/check-code/host-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	rec = doJSON(t, r, http.MethodGet, "/api/check-code/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown code status = %d, want 404", rec.Code)
	}
}

func TestPostConversation(t *testing.T) {
	conversations := &mockConversationService{}
	r := newRouter(&mockAccessService{}, conversations, newMockAssistanceService())

	rec := doJSON(t, r, http.MethodPost, "/api/conversations", map[string]string{
		"code": "A1", "auteur": "voyageur", "message": "the wifi is down",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body=%s", rec.Code, rec.Body.String())
	}
	var body struct {
		Alerte bool `json:"alerte"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Alerte {
		t.Error("expected alerte=true")
	}

	// Missing fields are rejected before anything is stored.
	rec = doJSON(t, r, http.MethodPost, "/api/conversations", map[string]string{"code": "A1"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing fields status = %d, want 400", rec.Code)
	}
	if len(conversations.messages) != 1 {
		t.Errorf("stored %d messages, want 1", len(conversations.messages))
	}
}

func TestListConversation(t *testing.T) {
	conversations := &mockConversationService{}
	r := newRouter(&mockAccessService{}, conversations, newMockAssistanceService())

	doJSON(t, r, http.MethodPost, "/api/conversations", map[string]string{
		"code": "A1", "auteur": "voyageur", "message": "hello",
	})
	doJSON(t, r, http.MethodPost, "/api/conversations", map[string]string{
		"code": "A1", "auteur": "hote", "message": "welcome",
	})

	rec := doJSON(t, r, http.MethodGet, "/api/conversations/A1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var messages []domain.ConversationMessage
	if err := json.NewDecoder(rec.Body).Decode(&messages); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(messages) != 2 || messages[0].Text != "hello" || messages[1].Text != "welcome" {
		t.Errorf("unexpected messages: %+v", messages)
	}

	rec = doJSON(t, r, http.MethodGet, "/api/conversations/unknown", nil)
	if rec.Code != http.StatusOK || rec.Body.String() == "null\n" {
		t.Errorf("unknown code should yield empty list, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestAssistanceLifecycle(t *testing.T) {
	assistance := newMockAssistanceService()
	r := newRouter(&mockAccessService{}, &mockConversationService{}, assistance)

	rec := doJSON(t, r, http.MethodPost, "/api/assistance", map[string]string{
		"code": "A1", "message": "need towels",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit status = %d, want 201", rec.Code)
	}

	rec = doJSON(t, r, http.MethodPost, "/api/assistance/reponse", map[string]any{
		"id_assistance": 1, "reponse": "bringing now",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("respond status = %d, want 201; body=%s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, r, http.MethodPost, "/api/assistance/reponse", map[string]any{
		"id_assistance": 99, "reponse": "hello?",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown request status = %d, want 404", rec.Code)
	}

	rec = doJSON(t, r, http.MethodPost, "/api/assistance/reponse", map[string]any{
		"id_assistance": 1,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing reponse status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, r, http.MethodPatch, "/api/assistance/lu", map[string]string{
		"code": "A1", "lu_par": "admin",
	})
	if rec.Code != http.StatusNoContent {
		t.Errorf("mark read status = %d, want 204", rec.Code)
	}
	if len(assistance.marked) != 1 || assistance.marked[0] != "A1/admin" {
		t.Errorf("mark read calls = %v", assistance.marked)
	}

	rec = doJSON(t, r, http.MethodPatch, "/api/assistance/lu", map[string]string{
		"code": "A1", "lu_par": "someone",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid role status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, r, http.MethodGet, "/api/assistance/non-lus/A1/admin", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("count status = %d, want 200", rec.Code)
	}
	var count struct {
		NonLus int `json:"nonLus"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&count); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if count.NonLus != 1 {
		t.Errorf("nonLus = %d, want 1", count.NonLus)
	}

	rec = doJSON(t, r, http.MethodGet, "/api/assistance", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}
	var all []domain.AssistanceWithResponse
	if err := json.NewDecoder(rec.Body).Decode(&all); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(all) != 1 || all[0].Code != "A1" {
		t.Errorf("unexpected inbox: %+v", all)
	}
}

func TestRequestContextCarriesCode(t *testing.T) {
	conversations := &mockConversationService{}
	r := newRouter(&mockAccessService{}, conversations, newMockAssistanceService())

	doJSON(t, r, http.MethodGet, "/api/conversations/A1", nil)
	if got := conversations.lastCtx.Value(logger.CodeKey); got != "A1" {
		t.Errorf("list context code = %v, want A1", got)
	}

	doJSON(t, r, http.MethodPost, "/api/conversations", map[string]string{
		"code": "B2", "auteur": "voyageur", "message": "hello",
	})
	if got := conversations.lastCtx.Value(logger.CodeKey); got != "B2" {
		t.Errorf("append context code = %v, want B2", got)
	}
}
