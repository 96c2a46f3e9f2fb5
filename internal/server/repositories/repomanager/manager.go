// Package repomanager wires the repositories for the configured store
// backend and provides the transaction boundary used by token rotation.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophsession/internal/server/config"
	"github.com/dmitrijs2005/gophsession/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophsession/internal/server/repositories/users"
)

// Repositories vends the repositories bound to one connection or
// transaction.
type Repositories interface {
	Users() users.Repository
	RefreshTokens() refreshtokens.Repository
}

// TxFunc runs inside WithinTx. It must only use the repositories it is
// given.
type TxFunc func(ctx context.Context, repos Repositories) error

type RepositoryManager interface {
	Repositories

	// RunMigrations brings the backing schema up to date. Backends without a
	// schema treat it as a no-op.
	RunMigrations(ctx context.Context) error

	// WithinTx runs fn so that its writes commit together where the backend
	// supports transactions. An error from fn rolls them back.
	WithinTx(ctx context.Context, fn TxFunc) error

	Close() error
}

// New connects to the backend selected by cfg.StoreBackend.
func New(ctx context.Context, cfg *config.Config) (RepositoryManager, error) {
	switch cfg.StoreBackend {
	case config.StorePostgres:
		return OpenPostgres(ctx, cfg.DatabaseDSN)
	case config.StoreRedis:
		return OpenRedis(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
	case config.StoreMemory:
		return NewMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
