// Package users declares the credential store contract.
package users

import (
	"context"

	"github.com/dmitrijs2005/datalyn/internal/server/models"
)

// Repository persists user identity records.
type Repository interface {
	// Create inserts user atomically. A second user with the same email
	// fails with common.ErrDuplicateEmail.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetUserByEmail returns the full record including the password hash,
	// or common.ErrorNotFound. Emails match exactly.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns the user without credential material, or
	// common.ErrorNotFound.
	GetUserByID(ctx context.Context, id string) (*models.UserProjection, error)

	// Update merges the non-nil fields of upd into the record.
	Update(ctx context.Context, id string, upd models.UserUpdate) error

	// Delete removes the user and everything owned by it.
	Delete(ctx context.Context, id string) error
}
