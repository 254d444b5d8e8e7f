// Package common defines shared constants and sentinel errors used across
// client and server layers of Datalyn. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound     = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")

	// Service-level errors (generic/internal flow control).
	ErrorInternal       = errors.New("internal error")
	ErrorUnauthorized   = errors.New("unauthorized")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrorValidation     = errors.New("validation error")

	// Credential errors. Unknown email and wrong password both map here.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Gate errors. Each of them is reported to the caller as ErrorUnauthorized.
	ErrMissingCredential = fmt.Errorf("%w: missing credential", ErrorUnauthorized)
	ErrInvalidToken      = fmt.Errorf("%w: invalid token", ErrorUnauthorized)
	ErrTokenExpired      = fmt.Errorf("%w: token expired", ErrorUnauthorized)
	ErrUserNotFound      = fmt.Errorf("%w: user not found", ErrorUnauthorized)

	// Collaborator errors.
	ErrAIService = errors.New("ai service error")
)
