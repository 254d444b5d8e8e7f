// Package auth mints and verifies the signed, time-bounded session tokens
// handed out on signup and login.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/datalyn/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenValidity is the lifetime of a session token.
const DefaultTokenValidity = 7 * 24 * time.Hour

// Claims are the registered claims plus the user identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// TokenManager issues and verifies HS256 session tokens. It holds no
// mutable state and is safe for concurrent use.
type TokenManager struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

// NewTokenManager builds a TokenManager. A non-positive validity falls back
// to DefaultTokenValidity.
func NewTokenManager(secret []byte, validity time.Duration) *TokenManager {
	if validity <= 0 {
		validity = DefaultTokenValidity
	}
	return &TokenManager{secret: secret, validity: validity, now: time.Now}
}

// WithClock returns a copy of m that reads time from now.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	c := *m
	c.now = now
	return &c
}

// Issue returns a signed token carrying userID that expires after the
// configured validity. Every call yields a distinct token.
func (m *TokenManager) Issue(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(m.now().Add(m.validity)),
			IssuedAt:  jwt.NewNumericDate(m.now()),
			ID:        uuid.NewString(),
		},
		UserID: userID,
	})

	return token.SignedString(m.secret)
}

// Verify checks signature and expiry and returns the embedded user id.
// It fails with common.ErrTokenExpired once the clock reaches the expiry and
// with common.ErrInvalidToken for anything else that is wrong with the token.
func (m *TokenManager) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}
