package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophsession/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophsession/internal/server/repositories/users"
	"github.com/redis/go-redis/v9"
)

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// RedisRepositoryManager keeps users and refresh tokens in Redis.
type RedisRepositoryManager struct {
	rdb           *redis.Client
	users         *users.RedisRepository
	refreshTokens *refreshtokens.RedisRepository
}

func NewRedisRepositoryManager(rdb *redis.Client, prefix string) *RedisRepositoryManager {
	return &RedisRepositoryManager{
		rdb:           rdb,
		users:         users.NewRedisRepository(rdb, prefix),
		refreshTokens: refreshtokens.NewRedisRepository(rdb, prefix),
	}
}

// OpenRedis connects to Redis and checks connectivity.
func OpenRedis(ctx context.Context, opts RedisOptions) (*RedisRepositoryManager, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping error: %w", err)
	}
	return NewRedisRepositoryManager(rdb, opts.Prefix), nil
}

func (m *RedisRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *RedisRepositoryManager) RefreshTokens() refreshtokens.Repository {
	return m.refreshTokens
}

func (m *RedisRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

// WithinTx runs fn directly. Every repository call is atomic on its own, so
// a failing fn leaves earlier writes in place.
func (m *RedisRepositoryManager) WithinTx(ctx context.Context, fn TxFunc) error {
	return fn(ctx, m)
}

func (m *RedisRepositoryManager) Close() error {
	return m.rdb.Close()
}
