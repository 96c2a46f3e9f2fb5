package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophsession/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophsession/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps everything in process memory.
type MemoryRepositoryManager struct {
	users         *users.MemoryRepository
	refreshTokens *refreshtokens.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:         users.NewMemoryRepository(),
		refreshTokens: refreshtokens.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *MemoryRepositoryManager) RefreshTokens() refreshtokens.Repository {
	return m.refreshTokens
}

// MemoryUsers exposes the concrete users store for test setup.
func (m *MemoryRepositoryManager) MemoryUsers() *users.MemoryRepository {
	return m.users
}

// MemoryRefreshTokens exposes the concrete refresh token store for test setup.
func (m *MemoryRepositoryManager) MemoryRefreshTokens() *refreshtokens.MemoryRepository {
	return m.refreshTokens
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

// WithinTx runs fn directly; writes are not rolled back on error.
func (m *MemoryRepositoryManager) WithinTx(ctx context.Context, fn TxFunc) error {
	return fn(ctx, m)
}

func (m *MemoryRepositoryManager) Close() error {
	return nil
}
