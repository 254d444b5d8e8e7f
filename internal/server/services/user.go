// Package services contains server-side business logic. This file implements
// UserService, which handles signup, login, profile lookups, settings and
// account removal.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/datalyn/internal/common"
	"github.com/dmitrijs2005/datalyn/internal/cryptox"
	"github.com/dmitrijs2005/datalyn/internal/logging"
	"github.com/dmitrijs2005/datalyn/internal/server/models"
	"github.com/dmitrijs2005/datalyn/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// TokenIssuer mints session tokens for a user id.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// AuthResult is returned by Signup and Login.
type AuthResult struct {
	Token string
	User  *models.UserProjection
}

// UserService provides identity operations:
// - Signup: create a user and hand out a session token
// - Login: verify credentials and hand out a session token
// - Me / Settings / UpdateSettings / DeleteAccount for the signed-in user
type UserService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	hasher       cryptox.PasswordHasher
	tokens       TokenIssuer
	logger       logging.Logger
	storeTimeout time.Duration
	now          func() time.Time

	// compared against on unknown emails so login time does not reveal
	// whether an account exists
	dummyHash string
}

// NewUserService constructs a UserService. storeTimeout bounds every
// credential store call.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher cryptox.PasswordHasher,
	tokens TokenIssuer, logger logging.Logger, storeTimeout time.Duration) *UserService {

	s := &UserService{
		db:           db,
		repomanager:  m,
		hasher:       hasher,
		tokens:       tokens,
		logger:       logger,
		storeTimeout: storeTimeout,
		now:          time.Now,
	}
	if h, err := hasher.Hash(uuid.NewString()); err == nil {
		s.dummyHash = h
	}
	return s
}

// Signup creates the user and returns a session token for it. A second
// signup with the same email fails with common.ErrDuplicateEmail.
func (s *UserService) Signup(ctx context.Context, email, password, name string) (*AuthResult, error) {
	hash, err := s.hasher.Hash(password)
	if errors.Is(err, cryptox.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: %w", common.ErrorValidation, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %w", common.ErrorInternal, err)
	}

	user := &models.User{
		ID:                 uuid.NewString(),
		Email:              email,
		Name:               name,
		PasswordHash:       hash,
		CreatedAt:          s.now().UTC(),
		EmailNotifications: models.DefaultEmailNotifications,
		ReportSchedule:     models.DefaultReportSchedule,
	}

	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	created, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, s.storeError(ctx, "create user", err)
	}

	return s.issue(created.Projection())
}

// Login checks email and password. Unknown email and wrong password fail
// identically with common.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return nil, common.ErrInvalidCredentials
		}
		return nil, s.storeError(ctx, "find user by email", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	return s.issue(user.Projection())
}

// Me returns the stored user without credential material.
func (s *UserService) Me(ctx context.Context, userID string) (*models.UserProjection, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, s.storeError(ctx, "find user by id", err)
	}
	return user, nil
}

// Settings is Me under the settings vocabulary.
func (s *UserService) Settings(ctx context.Context, userID string) (*models.UserProjection, error) {
	return s.Me(ctx, userID)
}

// UpdateSettings applies the non-nil fields of upd. An empty update is a
// no-op.
func (s *UserService) UpdateSettings(ctx context.Context, userID string, upd models.UserUpdate) error {
	if upd.Empty() {
		return nil
	}

	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	if err := s.repomanager.Users(s.db).Update(ctx, userID, upd); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return s.storeError(ctx, "update user", err)
	}
	return nil
}

// DeleteAccount removes the user together with its chat history. Tokens
// issued earlier stop working because the gate no longer finds the user.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	if err := s.repomanager.Users(s.db).Delete(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return s.storeError(ctx, "delete user", err)
	}
	return nil
}

// --- helpers below ---

func (s *UserService) issue(u *models.UserProjection) (*AuthResult, error) {
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: issue token: %w", common.ErrorInternal, err)
	}
	return &AuthResult{Token: token, User: u}, nil
}

func (s *UserService) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return storeContext(ctx, s.storeTimeout)
}

func (s *UserService) storeError(ctx context.Context, op string, err error) error {
	s.logger.Error(ctx, "credential store failure", "op", op, "error", err)
	return fmt.Errorf("%w: %s: %w", common.ErrStoreUnavailable, op, err)
}
