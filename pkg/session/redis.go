package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/justcom/justcom-admin/pkg/domain"
)

// updateAccessScript sets the access token only when all three keys exist.
// A positive ttl is reapplied to all three keys so they expire together.
// KEYS: access, refresh, user. ARGV: token, ttl in milliseconds (0 = none).
const updateAccessScript = `
if redis.call("EXISTS", KEYS[1]) == 0 or redis.call("EXISTS", KEYS[2]) == 0 or redis.call("EXISTS", KEYS[3]) == 0 then
  return 0
end
local ttl = tonumber(ARGV[2])
if ttl > 0 then
  redis.call("SET", KEYS[1], ARGV[1], "PX", ttl)
  redis.call("PEXPIRE", KEYS[2], ttl)
  redis.call("PEXPIRE", KEYS[3], ttl)
else
  redis.call("SET", KEYS[1], ARGV[1])
end
return 1
`

var updateAccessLua = redis.NewScript(updateAccessScript)

// RedisStore keeps the session triple as three string keys in Redis, which
// lets several dashboard processes on one workstation share a login.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore returns a store using client. Keys are prefix + the fixed key
// names. A positive ttl is applied to every write.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

var _ Store = (*RedisStore)(nil)

func (s *RedisStore) keys() []string {
	return []string{s.prefix + KeyAccessToken, s.prefix + KeyRefreshToken, s.prefix + KeyUser}
}

func (s *RedisStore) Read(ctx context.Context) (*Session, error) {
	vals, err := s.client.MGet(ctx, s.keys()...).Result()
	if err != nil {
		return nil, fmt.Errorf("session.RedisStore.Read: %w", err)
	}
	// MGET yields nil for missing keys.
	str := func(v any) string {
		val, _ := v.(string)
		return val
	}
	access, refresh := str(vals[0]), str(vals[1])
	user := decodeUser(str(vals[2]))
	if !complete(access, refresh, user) {
		return nil, nil
	}
	return &Session{AccessToken: access, RefreshToken: refresh, User: *user}, nil
}

func (s *RedisStore) Write(ctx context.Context, accessToken, refreshToken string, user domain.User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session.RedisStore.Write: marshal user: %w", err)
	}
	k := s.keys()
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, k[0], accessToken, s.ttl)
		pipe.Set(ctx, k[1], refreshToken, s.ttl)
		pipe.Set(ctx, k[2], string(userJSON), s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("session.RedisStore.Write: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.keys()...).Err(); err != nil {
		return fmt.Errorf("session.RedisStore.Clear: %w", err)
	}
	return nil
}

func (s *RedisStore) UpdateAccessToken(ctx context.Context, accessToken string) error {
	res, err := updateAccessLua.Run(ctx, s.client, s.keys(), accessToken, s.ttl.Milliseconds()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("session.RedisStore.UpdateAccessToken: %w", err)
	}
	if res == 0 {
		return ErrNoSession
	}
	return nil
}
