package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/datalyn/internal/common"
	"github.com/dmitrijs2005/datalyn/internal/cryptox"
	"github.com/dmitrijs2005/datalyn/internal/dbx"
	"github.com/dmitrijs2005/datalyn/internal/logging"
	"github.com/dmitrijs2005/datalyn/internal/server/auth"
	"github.com/dmitrijs2005/datalyn/internal/server/gate"
	"github.com/dmitrijs2005/datalyn/internal/server/models"
	"github.com/dmitrijs2005/datalyn/internal/server/repositories/chatmessages"
	"github.com/dmitrijs2005/datalyn/internal/server/repositories/users"
	"github.com/dmitrijs2005/datalyn/internal/server/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// memUsers is an in-memory credential store with a unique email index.
type memUsers struct {
	mu      sync.Mutex
	byID    map[string]models.User
	err     error
	lookups int
}

func (m *memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, e := range m.byID {
		if e.Email == u.Email {
			return nil, common.ErrDuplicateEmail
		}
	}
	m.byID[u.ID] = *u
	return u, nil
}

func (m *memUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.byID {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) GetUserByID(ctx context.Context, id string) (*models.UserProjection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u.Projection(), nil
}

func (m *memUsers) Update(ctx context.Context, id string, upd models.UserUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.EmailNotifications != nil {
		u.EmailNotifications = *upd.EmailNotifications
	}
	if upd.ReportSchedule != nil {
		u.ReportSchedule = *upd.ReportSchedule
	}
	m.byID[id] = u
	return nil
}

func (m *memUsers) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(m.byID, id)
	return nil
}

type memRepoManager struct {
	users *memUsers
}

func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error     { return nil }
func (m *memRepoManager) Users(db dbx.DBTX) users.Repository               { return m.users }
func (m *memRepoManager) ChatMessages(db dbx.DBTX) chatmessages.Repository { return nil }

type stubChat struct {
	reply    *services.ChatReply
	err      error
	history  []models.ChatMessage
	sessions []services.SessionSummary

	gotUser    string
	gotSession string
}

func (s *stubChat) SendMessage(ctx context.Context, userID, sessionID, message string) (*services.ChatReply, error) {
	s.gotUser, s.gotSession = userID, sessionID
	return s.reply, s.err
}

func (s *stubChat) History(ctx context.Context, userID, sessionID string) ([]models.ChatMessage, error) {
	s.gotUser, s.gotSession = userID, sessionID
	return s.history, s.err
}

func (s *stubChat) Sessions(ctx context.Context, userID string) ([]services.SessionSummary, error) {
	s.gotUser = userID
	return s.sessions, s.err
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

type testEnv struct {
	handler http.Handler
	users   *memUsers
	tokens  *auth.TokenManager
	chat    *stubChat
	pinger  *stubPinger
}

func newTestEnv(t *testing.T, limiter *RateLimiter) *testEnv {
	t.Helper()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logging.Discard()
	store := &memUsers{byID: map[string]models.User{}}
	tm := auth.NewTokenManager([]byte("test-secret"), time.Hour)
	userSvc := services.NewUserService(db, &memRepoManager{users: store}, cryptox.NewBcryptHasher(bcrypt.MinCost), tm, log, time.Second)
	chat := &stubChat{}
	pinger := &stubPinger{}

	h := NewHandler(Deps{
		Users:        userSvc,
		Chat:         chat,
		Dashboard:    services.NewDashboardService(),
		Integrations: services.NewIntegrationService(),
		Gate:         gate.New(tm, store, log, time.Second),
		Health:       pinger,
		Limiter:      limiter,
		CORSOrigins:  []string{"https://app.example"},
		Logger:       log,
	})

	return &testEnv{handler: h.Routes(), users: store, tokens: tm, chat: chat, pinger: pinger}
}

// do sends a JSON request and decodes the JSON response into out when
// out is not nil.
func (e *testEnv) do(t *testing.T, method, path, token string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec
}

func (e *testEnv) signup(t *testing.T, email, password, name string) authResponse {
	t.Helper()
	var res authResponse
	rec := e.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": email, "password": password, "name": name,
	}, &res)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return res
}
