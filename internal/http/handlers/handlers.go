package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nomavia/guestlink/internal/domain"
	"github.com/nomavia/guestlink/internal/http/response"
	"github.com/nomavia/guestlink/internal/service"
	"github.com/nomavia/guestlink/pkg/logger"
)

type Handlers struct {
	accessService       service.AccessService
	conversationService service.ConversationService
	assistanceService   service.AssistanceService
}

func New(
	accessService service.AccessService,
	conversationService service.ConversationService,
	assistanceService service.AssistanceService,
) *Handlers {
	return &Handlers{
		accessService:       accessService,
		conversationService: conversationService,
		assistanceService:   assistanceService,
	}
}

// codeContext tags the request context so downstream logs carry the
// access code.
func codeContext(r *http.Request, code string) context.Context {
	return context.WithValue(r.Context(), logger.CodeKey, code)
}

// Helper for common response patterns
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeServiceError maps the domain error kinds onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		response.BadRequest(w, ve.Error())
	case errors.Is(err, domain.ErrNotFound):
		response.NotFound(w, "not found")
	default:
		response.InternalError(w, "operation failed")
	}
}
