package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nomavia/guestlink/internal/domain"
	"github.com/nomavia/guestlink/internal/http/response"
)

// checkCodeResponse carries the resolved role plus the matching record:
// logement for guests, hote for operators.
type checkCodeResponse struct {
	Type     domain.Role      `json:"type"`
	Lodging  *domain.Lodging  `json:"logement,omitempty"`
	Operator *domain.Operator `json:"hote,omitempty"`
}

// CheckCode resolves an access code to its role and record.
func (h *Handlers) CheckCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		response.BadRequest(w, "code is required")
		return
	}

	resolved, err := h.accessService.Resolve(codeContext(r, code), code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "unknown code")
			return
		}
		response.InternalError(w, "failed to resolve code")
		return
	}

	writeJSON(w, http.StatusOK, checkCodeResponse{
		Type:     resolved.Role,
		Lodging:  resolved.Lodging,
		Operator: resolved.Operator,
	})
}
