package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/datalyn/internal/common"
	"github.com/dmitrijs2005/datalyn/internal/netx"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	netx.WriteJSON(w, status, payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	netx.WriteError(w, status, code, message)
}

// writeServiceError maps service errors onto the error envelope. Only
// unexpected failures are logged; expected ones are part of the contract.
func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrDuplicateEmail):
		writeError(w, http.StatusBadRequest, "duplicate_email", "Email already registered")
	case errors.Is(err, common.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrorNotFound):
		// the authenticated user disappeared while the request ran
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
	case errors.Is(err, common.ErrorValidation):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, common.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", "service temporarily unavailable")
	case errors.Is(err, common.ErrAIService):
		writeError(w, http.StatusInternalServerError, "ai_error", "AI service error")
	default:
		h.Logger.Error(ctx, "unhandled service error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
