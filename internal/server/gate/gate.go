// Package gate turns a presented bearer credential into the authenticated
// user for protected endpoints.
package gate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/datalyn/internal/common"
	"github.com/dmitrijs2005/datalyn/internal/logging"
	"github.com/dmitrijs2005/datalyn/internal/netx"
	"github.com/dmitrijs2005/datalyn/internal/server/models"
)

// TokenVerifier turns a session token into the user id it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// UserFinder loads a user without credential material.
type UserFinder interface {
	GetUserByID(ctx context.Context, id string) (*models.UserProjection, error)
}

// Gate authenticates requests for protected endpoints.
type Gate struct {
	tokens  TokenVerifier
	users   UserFinder
	logger  logging.Logger
	timeout time.Duration
}

// New builds a Gate. storeTimeout bounds the user lookup; zero means the
// request context alone applies.
func New(tokens TokenVerifier, users UserFinder, logger logging.Logger, storeTimeout time.Duration) *Gate {
	return &Gate{tokens: tokens, users: users, logger: logger, timeout: storeTimeout}
}

// Authenticate resolves an Authorization header value to a user.
//
// Failures other than store outages match common.ErrorUnauthorized; the
// wrapped sentinel tells the cause apart (missing credential, invalid or
// expired token, deleted user). Store outages match
// common.ErrStoreUnavailable.
func (g *Gate) Authenticate(ctx context.Context, authorization string) (*models.UserProjection, error) {
	token, err := netx.BearerToken(authorization)
	if err != nil {
		return nil, err
	}

	userID, err := g.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	user, err := g.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err)
	}

	return user, nil
}

type ctxKey struct{}

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, u *models.UserProjection) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFromContext returns the user stored by WithUser.
func UserFromContext(ctx context.Context) (*models.UserProjection, bool) {
	u, ok := ctx.Value(ctxKey{}).(*models.UserProjection)
	return u, ok && u != nil
}
