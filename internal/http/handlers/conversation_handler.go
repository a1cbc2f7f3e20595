package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nomavia/guestlink/internal/domain"
	"github.com/nomavia/guestlink/internal/http/response"
)

// ListConversation returns all messages for a code in creation order.
func (h *Handlers) ListConversation(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		response.BadRequest(w, "code is required")
		return
	}

	messages, err := h.conversationService.List(codeContext(r, code), code)
	if err != nil {
		response.InternalError(w, "failed to list conversation")
		return
	}
	if messages == nil {
		messages = []domain.ConversationMessage{}
	}

	writeJSON(w, http.StatusOK, messages)
}

// PostConversation appends a message to the ledger and returns the stored
// row together with its alert flag.
func (h *Handlers) PostConversation(w http.ResponseWriter, r *http.Request) {
	var req domain.ConversationPostReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON format")
		return
	}

	msg, err := h.conversationService.Append(codeContext(r, req.Code), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": msg,
		"alerte":  msg.Alert,
	})
}
