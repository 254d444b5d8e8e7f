package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/datalyn/internal/netx"
	"github.com/dmitrijs2005/datalyn/internal/server/gate"
	"github.com/dmitrijs2005/datalyn/internal/server/models"
	"github.com/julienschmidt/httprouter"
)

type settingsResponse struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	EmailNotifications bool   `json:"email_notifications"`
	ReportSchedule     string `json:"report_schedule"`
}

type settingsRequest struct {
	Name               *string `json:"name"`
	EmailNotifications *bool   `json:"email_notifications"`
	ReportSchedule     *string `json:"report_schedule"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, _ := gate.UserFromContext(r.Context())

	user, err := h.Users.Settings(r.Context(), caller.ID)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, settingsResponse{
		Name:               user.Name,
		Email:              user.Email,
		EmailNotifications: user.EmailNotifications,
		ReportSchedule:     user.ReportSchedule,
	})
}

func (h *Handler) handleUpdateSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, _ := gate.UserFromContext(r.Context())

	var req settingsRequest
	if err := netx.DecodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON payload")
		return
	}
	if err := validateSettings(&req); err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}

	err := h.Users.UpdateSettings(r.Context(), caller.ID, models.UserUpdate{
		Name:               req.Name,
		EmailNotifications: req.EmailNotifications,
		ReportSchedule:     req.ReportSchedule,
	})
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Settings updated successfully"})
}

func (h *Handler) handleDeleteAccount(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, _ := gate.UserFromContext(r.Context())

	if err := h.Users.DeleteAccount(r.Context(), caller.ID); err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
