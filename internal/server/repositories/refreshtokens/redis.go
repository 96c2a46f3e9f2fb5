package refreshtokens

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophsession/internal/common"
	"github.com/dmitrijs2005/gophsession/internal/server/models"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces every key written by RedisRepository.
const DefaultRedisPrefix = "gophsession"

// Each record is a hash under <prefix>:rt:<token>; <prefix>:rtid:<id> maps
// the record id back to its token value.
const insertScript = `
if redis.call("EXISTS", KEYS[1]) == 1 or redis.call("EXISTS", KEYS[2]) == 1 then
  return 0
end
redis.call("HSET", KEYS[1], "id", ARGV[1], "user_id", ARGV[2], "issued_at", ARGV[3], "expires_at", ARGV[4])
redis.call("SET", KEYS[2], ARGV[5])
return 1
`

// revokeScript receives both keys; the id key must still point at the
// token key's value, and the record must not be revoked yet.
const revokeScript = `
if redis.call("GET", KEYS[1]) ~= ARGV[1] or redis.call("EXISTS", KEYS[2]) == 0 then
  return 0
end
if redis.call("HEXISTS", KEYS[2], "revoked_at") == 1 then
  return 0
end
redis.call("HSET", KEYS[2], "revoked_at", ARGV[2])
return 1
`

var (
	insertLua = redis.NewScript(insertScript)
	revokeLua = redis.NewScript(revokeScript)
)

// RedisRepository implements Repository on Redis. Insert and MarkRevoked
// run as Lua scripts so each is atomic on the server. The scripts touch
// two keys that hash to different slots, so a single-node client is
// required.
type RedisRepository struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisRepository binds a repository to rdb. An empty prefix means
// DefaultRedisPrefix.
func NewRedisRepository(rdb *redis.Client, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisRepository{rdb: rdb, prefix: prefix}
}

func (r *RedisRepository) tokenKey(token string) string {
	return r.prefix + ":rt:" + token
}

func (r *RedisRepository) idKey(id string) string {
	return r.prefix + ":rtid:" + id
}

func (r *RedisRepository) Insert(ctx context.Context, t *models.RefreshToken) error {
	keys := []string{r.tokenKey(t.Token), r.idKey(t.ID)}
	n, err := insertLua.Run(ctx, r.rdb, keys,
		t.ID,
		t.UserID,
		formatTime(t.IssuedAt),
		formatTime(t.ExpiresAt),
		t.Token,
	).Int()
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: refresh token already exists", common.ErrConflict)
	}
	return nil
}

func (r *RedisRepository) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	fields, err := r.rdb.HGetAll(ctx, r.tokenKey(token)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}
	if len(fields) == 0 {
		return nil, common.ErrorNotFound
	}

	rt := &models.RefreshToken{
		ID:     fields["id"],
		Token:  token,
		UserID: fields["user_id"],
	}
	if rt.IssuedAt, err = parseTime(fields["issued_at"]); err != nil {
		return nil, fmt.Errorf("corrupt refresh token record: issued_at: %w", err)
	}
	if rt.ExpiresAt, err = parseTime(fields["expires_at"]); err != nil {
		return nil, fmt.Errorf("corrupt refresh token record: expires_at: %w", err)
	}
	if v, ok := fields["revoked_at"]; ok {
		revokedAt, err := parseTime(v)
		if err != nil {
			return nil, fmt.Errorf("corrupt refresh token record: revoked_at: %w", err)
		}
		rt.RevokedAt = &revokedAt
	}
	return rt, nil
}

func (r *RedisRepository) MarkRevoked(ctx context.Context, id string, when time.Time) (bool, error) {
	// The id -> token mapping is written once by Insert and never changes,
	// so reading it ahead of the script is safe; the script checks it again.
	token, err := r.rdb.Get(ctx, r.idKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis error: %w", err)
	}

	keys := []string{r.idKey(id), r.tokenKey(token)}
	n, err := revokeLua.Run(ctx, r.rdb, keys, token, formatTime(when)).Int()
	if err != nil {
		return false, fmt.Errorf("redis error: %w", err)
	}
	return n == 1, nil
}

func formatTime(t time.Time) string {
	return strconv.FormatInt(t.UnixNano(), 10)
}

func parseTime(s string) (time.Time, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(0, n).UTC(), nil
}
