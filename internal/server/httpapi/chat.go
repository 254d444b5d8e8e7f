package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/datalyn/internal/netx"
	"github.com/dmitrijs2005/datalyn/internal/server/gate"
	"github.com/dmitrijs2005/datalyn/internal/server/models"
	"github.com/dmitrijs2005/datalyn/internal/server/services"
	"github.com/julienschmidt/httprouter"
)

type chatMessageRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type chatMessageResponse struct {
	SessionID string      `json:"session_id"`
	Message   chatMessage `json:"message"`
}

type chatMessage struct {
	ID             string                 `json:"id"`
	Role           string                 `json:"role"`
	Content        string                 `json:"content"`
	ReasoningSteps []models.ReasoningStep `json:"reasoning_steps"`
	CreatedAt      string                 `json:"created_at"`
}

type chatHistoryResponse struct {
	Messages []models.ChatMessage `json:"messages"`
}

type chatSessionsResponse struct {
	Sessions []services.SessionSummary `json:"sessions"`
}

func (h *Handler) handleChatMessage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, _ := gate.UserFromContext(r.Context())

	var req chatMessageRequest
	if err := netx.DecodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "message is required")
		return
	}

	reply, err := h.Chat.SendMessage(r.Context(), caller.ID, strings.TrimSpace(req.SessionID), req.Message)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatMessageResponse{
		SessionID: reply.SessionID,
		Message: chatMessage{
			ID:             reply.Message.ID,
			Role:           reply.Message.Role,
			Content:        reply.Message.Content,
			ReasoningSteps: reply.Message.ReasoningSteps,
			CreatedAt:      reply.Message.CreatedAt.Format(time.RFC3339Nano),
		},
	})
}

func (h *Handler) handleChatHistory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, _ := gate.UserFromContext(r.Context())

	msgs, err := h.Chat.History(r.Context(), caller.ID, ps.ByName("session_id"))
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	if msgs == nil {
		msgs = []models.ChatMessage{}
	}

	writeJSON(w, http.StatusOK, chatHistoryResponse{Messages: msgs})
}

func (h *Handler) handleChatSessions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, _ := gate.UserFromContext(r.Context())

	sessions, err := h.Chat.Sessions(r.Context(), caller.ID)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	if sessions == nil {
		sessions = []services.SessionSummary{}
	}

	writeJSON(w, http.StatusOK, chatSessionsResponse{Sessions: sessions})
}
