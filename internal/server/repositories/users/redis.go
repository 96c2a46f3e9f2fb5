package users

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophsession/internal/common"
	"github.com/dmitrijs2005/gophsession/internal/server/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const DefaultRedisPrefix = "gophsession"

// Users are hashes under <prefix>:user:<id>; <prefix>:user_email:<email>
// reserves the email.
const createScript = `
if redis.call("EXISTS", KEYS[1]) == 1 or redis.call("EXISTS", KEYS[2]) == 1 then
  return 0
end
redis.call("SET", KEYS[2], ARGV[1])
redis.call("HSET", KEYS[1], "id", ARGV[1], "email", ARGV[2], "role", ARGV[3], "name", ARGV[4], "created_at", ARGV[5])
return 1
`

var createLua = redis.NewScript(createScript)

type RedisRepository struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisRepository(rdb *redis.Client, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisRepository{rdb: rdb, prefix: prefix}
}

func (r *RedisRepository) userKey(id string) string {
	return r.prefix + ":user:" + id
}

func (r *RedisRepository) emailKey(email string) string {
	return r.prefix + ":user_email:" + email
}

func (r *RedisRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	n, err := createLua.Run(ctx, r.rdb,
		[]string{r.userKey(user.ID), r.emailKey(user.Email)},
		user.ID, user.Email, user.Role, user.Name, user.CreatedAt.Format(time.RFC3339Nano),
	).Int()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: user %s already exists", common.ErrConflict, user.Email)
	}
	return user, nil
}

func (r *RedisRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	fields, err := r.rdb.HGetAll(ctx, r.userKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}
	if len(fields) == 0 {
		return nil, common.ErrorNotFound
	}

	user := &models.User{
		ID:    fields["id"],
		Email: fields["email"],
		Role:  fields["role"],
		Name:  fields["name"],
	}
	if v := fields["created_at"]; v != "" {
		if user.CreatedAt, err = time.Parse(time.RFC3339Nano, v); err != nil {
			return nil, fmt.Errorf("corrupt user record: created_at: %w", err)
		}
	}
	return user, nil
}
