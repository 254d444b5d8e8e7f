package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/datalyn/internal/common"
	"github.com/dmitrijs2005/datalyn/internal/dbx"
	"github.com/dmitrijs2005/datalyn/internal/server/models"
	"github.com/dmitrijs2005/datalyn/internal/server/repositories/chatmessages"
	"github.com/dmitrijs2005/datalyn/internal/server/repositories/users"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// fakeUsersRepo keeps users in memory keyed by id, with a unique email
// index like the real table.
type fakeUsersRepo struct {
	mu    sync.Mutex
	byID  map[string]*models.User
	err   error
	calls int
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return nil, common.ErrDuplicateEmail
		}
	}
	cp := *u
	f.byID[u.ID] = &cp
	return u, nil
}

func (f *fakeUsersRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetUserByID(ctx context.Context, id string) (*models.UserProjection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u.Projection(), nil
}

func (f *fakeUsersRepo) Update(ctx context.Context, id string, upd models.UserUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	u, ok := f.byID[id]
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
	return nil
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeChatRepo struct {
	created   []models.ChatMessage
	createErr error
	failAfter int

	history  []models.ChatMessage
	sessions []models.ChatSession
	listErr  error

	gotLimit int
}

func (f *fakeChatRepo) Create(ctx context.Context, msg *models.ChatMessage) error {
	if f.createErr != nil && len(f.created) >= f.failAfter {
		return f.createErr
	}
	f.created = append(f.created, *msg)
	return nil
}

func (f *fakeChatRepo) ListBySession(ctx context.Context, userID, sessionID string) ([]models.ChatMessage, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.ChatMessage
	for _, m := range f.history {
		if m.UserID == userID && m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeChatRepo) ListSessions(ctx context.Context, userID string, limit int) ([]models.ChatSession, error) {
	f.gotLimit = limit
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.sessions, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	c *fakeChatRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error     { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository               { return m.u }
func (m *fakeRepoManager) ChatMessages(db dbx.DBTX) chatmessages.Repository { return m.c }
