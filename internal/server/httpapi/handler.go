// Package httpapi exposes the JSON API under /api.
package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/datalyn/internal/logging"
	"github.com/dmitrijs2005/datalyn/internal/server/models"
	"github.com/dmitrijs2005/datalyn/internal/server/services"
	"github.com/julienschmidt/httprouter"
)

type UserService interface {
	Signup(ctx context.Context, email, password, name string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Settings(ctx context.Context, userID string) (*models.UserProjection, error)
	UpdateSettings(ctx context.Context, userID string, upd models.UserUpdate) error
	DeleteAccount(ctx context.Context, userID string) error
}

type ChatService interface {
	SendMessage(ctx context.Context, userID, sessionID, message string) (*services.ChatReply, error)
	History(ctx context.Context, userID, sessionID string) ([]models.ChatMessage, error)
	Sessions(ctx context.Context, userID string) ([]services.SessionSummary, error)
}

type DashboardService interface {
	Metrics() models.DashboardMetrics
}

type IntegrationService interface {
	List() []models.Integration
	Toggle(id string) bool
}

// Authenticator guards protected routes and puts the caller into the
// request context (see gate.UserFromContext).
type Authenticator interface {
	Require(next httprouter.Handle) httprouter.Handle
}

// Pinger reports database reachability; *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the collaborators of Handler. Limiter may be nil to disable
// rate limiting.
type Deps struct {
	Users        UserService
	Chat         ChatService
	Dashboard    DashboardService
	Integrations IntegrationService
	Gate         Authenticator
	Health       Pinger
	Limiter      *RateLimiter
	CORSOrigins  []string
	Logger       logging.Logger
}

type Handler struct {
	Deps
}

func NewHandler(d Deps) *Handler {
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}
	return &Handler{Deps: d}
}

// Routes builds the router wrapped in recovery, request logging and CORS.
func (h *Handler) Routes() http.Handler {
	r := httprouter.New()

	limit := func(next httprouter.Handle) httprouter.Handle {
		if h.Limiter == nil {
			return next
		}
		return h.Limiter.Limit(next)
	}
	auth := h.Gate.Require

	r.POST("/api/auth/signup", limit(h.handleSignup))
	r.POST("/api/auth/login", limit(h.handleLogin))
	r.GET("/api/auth/me", auth(h.handleMe))

	r.GET("/api/dashboard/metrics", auth(h.handleMetrics))

	r.POST("/api/chat/message", auth(h.handleChatMessage))
	r.GET("/api/chat/history/:session_id", auth(h.handleChatHistory))
	r.GET("/api/chat/sessions", auth(h.handleChatSessions))

	r.GET("/api/settings", auth(h.handleGetSettings))
	r.PUT("/api/settings", auth(h.handleUpdateSettings))

	r.GET("/api/integrations", auth(h.handleIntegrations))
	r.POST("/api/integrations/:id/toggle", auth(h.handleToggleIntegration))

	r.DELETE("/api/account", auth(h.handleDeleteAccount))

	r.GET("/healthz", h.handleHealth)

	r.NotFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "not found")
	})
	r.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	return RecoverMiddleware(LoggingMiddleware(CORSMiddleware(r, h.CORSOrigins), h.Logger), h.Logger)
}
