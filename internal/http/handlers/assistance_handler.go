package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nomavia/guestlink/internal/domain"
	"github.com/nomavia/guestlink/internal/http/response"
)

// ListAssistance serves the triage inbox: all requests joined with their
// latest response, newest first.
func (h *Handlers) ListAssistance(w http.ResponseWriter, r *http.Request) {
	items, err := h.assistanceService.ListAll(r.Context())
	if err != nil {
		response.InternalError(w, "failed to list assistance requests")
		return
	}
	if items == nil {
		items = []domain.AssistanceWithResponse{}
	}

	writeJSON(w, http.StatusOK, items)
}

// ListAssistanceByCode lists a code's requests in creation order.
func (h *Handlers) ListAssistanceByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		response.BadRequest(w, "code is required")
		return
	}

	items, err := h.assistanceService.ListByCode(codeContext(r, code), code)
	if err != nil {
		response.InternalError(w, "failed to list assistance requests")
		return
	}
	if items == nil {
		items = []domain.AssistanceWithResponse{}
	}

	writeJSON(w, http.StatusOK, items)
}

// PostAssistance files a new assistance request.
func (h *Handlers) PostAssistance(w http.ResponseWriter, r *http.Request) {
	var req domain.AssistancePostReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON format")
		return
	}

	request, err := h.assistanceService.Submit(codeContext(r, req.Code), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"message": request})
}

// PostAssistanceResponse attaches an admin response to an existing
// request.
func (h *Handlers) PostAssistanceResponse(w http.ResponseWriter, r *http.Request) {
	var req domain.AssistanceResponseReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON format")
		return
	}
	if err := req.Validate(); err != nil {
		writeServiceError(w, err)
		return
	}

	resp, err := h.assistanceService.Respond(r.Context(), req.RequestID, req.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"message": resp})
}

// MarkAssistanceRead flips the caller role's read flag for every request
// under the code.
func (h *Handlers) MarkAssistanceRead(w http.ResponseWriter, r *http.Request) {
	var req domain.AssistanceMarkReadReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON format")
		return
	}
	if err := req.Validate(); err != nil {
		writeServiceError(w, err)
		return
	}

	role, _ := domain.ParseRole(req.Role)
	if err := h.assistanceService.MarkRead(codeContext(r, req.Code), req.Code, role); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CountUnreadAssistance returns how many requests for the code the role
// has not read yet.
func (h *Handlers) CountUnreadAssistance(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	roleParam := chi.URLParam(r, "role")

	role, ok := domain.ParseRole(roleParam)
	if !ok {
		response.BadRequest(w, "invalid role")
		return
	}

	n, err := h.assistanceService.CountUnread(codeContext(r, code), code, role)
	if err != nil {
		response.InternalError(w, "failed to count unread requests")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"nonLus": n})
}
