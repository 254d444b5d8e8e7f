package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
)

// healthTimeout bounds the database ping behind /healthz.
const healthTimeout = 2 * time.Second

type toggleResponse struct {
	Message   string `json:"message"`
	Connected bool   `json:"connected"`
}

type healthResponse struct {
	Status string `json:"status"`
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, h.Dashboard.Metrics())
}

func (h *Handler) handleIntegrations(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, h.Integrations.List())
}

func (h *Handler) handleToggleIntegration(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	connected := h.Integrations.Toggle(id)

	writeJSON(w, http.StatusOK, toggleResponse{
		Message:   fmt.Sprintf("Integration %s toggled", id),
		Connected: connected,
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if h.Health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := h.Health.PingContext(ctx); err != nil {
			h.Logger.Warn(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
			return
		}
	}

	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
