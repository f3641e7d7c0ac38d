// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/and161185/assetdesk/internal/model"
)

// UserRepository provides access to user accounts.
type UserRepository interface {
	// Create inserts a new user and assigns its ID.
	Create(ctx context.Context, u *model.User) error
	// GetByID loads a user by ID.
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// GetByEmail loads a user by email (case-insensitive).
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// List returns every user ordered by ID.
	List(ctx context.Context) ([]model.User, error)
}
