package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophsession/internal/common"
	"github.com/dmitrijs2005/gophsession/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Register(t *testing.T) {
	s := NewUserService(repomanager.NewMemoryRepositoryManager())
	ctx := context.Background()

	u, err := s.Register(ctx, "  alice@example.com ", "Alice", "")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, DefaultRole, u.Role)

	got, err := s.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)

	_, err = s.Register(ctx, "alice@example.com", "Again", "admin")
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestUserService_RegisterRequiresEmail(t *testing.T) {
	s := NewUserService(repomanager.NewMemoryRepositoryManager())

	_, err := s.Register(context.Background(), " ", "Nobody", "user")
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestUserService_GetUnknown(t *testing.T) {
	s := NewUserService(repomanager.NewMemoryRepositoryManager())

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
