package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nomavia/guestlink/internal/http/response"
	"github.com/nomavia/guestlink/internal/report"
	"github.com/nomavia/guestlink/pkg/logger"
)

// ExportConversationPDF streams the conversation transcript for a code as
// a PDF attachment.
func (h *Handlers) ExportConversationPDF(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		response.BadRequest(w, "code is required")
		return
	}

	ctx := codeContext(r, code)
	messages, err := h.conversationService.List(ctx, code)
	if err != nil {
		response.InternalError(w, "failed to load conversation")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=conversation-%s.pdf", code))

	if err := report.RenderConversation(w, code, messages); err != nil {
		// Headers are already out; all we can do is log.
		logger.ErrorContext(ctx, "Failed to render conversation PDF", "code", code, "error", err)
	}
}
