package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGateErrors_AreUnauthorized(t *testing.T) {
	for _, err := range []error{ErrMissingCredential, ErrInvalidToken, ErrTokenExpired, ErrUserNotFound} {
		assert.True(t, errors.Is(err, ErrorUnauthorized), "%v must wrap ErrorUnauthorized", err)
	}
}

func TestGateErrors_AreDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrTokenExpired, ErrInvalidToken))
	assert.False(t, errors.Is(ErrInvalidToken, ErrTokenExpired))
	assert.False(t, errors.Is(ErrUserNotFound, ErrorNotFound))
	assert.False(t, errors.Is(ErrInvalidCredentials, ErrorUnauthorized))
	assert.False(t, errors.Is(ErrStoreUnavailable, ErrorUnauthorized))
}
