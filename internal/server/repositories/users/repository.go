// Package users is the identity source consulted when a refresh token is
// exchanged. It provides PostgreSQL, Redis and in-memory implementations.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophsession/internal/server/models"
)

type Repository interface {
	// Create stores user and returns it with ID and CreatedAt filled in.
	// A duplicate email yields common.ErrConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetByID returns common.ErrorNotFound for unknown ids.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
