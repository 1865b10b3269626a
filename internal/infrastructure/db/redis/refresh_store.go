package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopworks/auth-system/internal/core/domain"
)

const refreshKeyPrefix = "refresh:"

// rotateScript consumes the old token and stores the replacement in a single
// atomic step: two concurrent rotations of one token cannot both succeed.
// KEYS[1] = old token key, KEYS[2] = new token key,
// ARGV[1] = owning user ID, ARGV[2] = TTL in seconds.
var rotateScript = redis.NewScript(`
local owner = redis.call("GET", KEYS[1])
if not owner or owner ~= ARGV[1] then
  return 0
end
redis.call("DEL", KEYS[1])
redis.call("SET", KEYS[2], ARGV[1], "EX", ARGV[2])
return 1
`)

// RefreshTokenStore keeps refresh tokens in Redis, keyed token → user ID,
// expiring with the configured TTL.
type RefreshTokenStore struct {
	client *redis.Client
}

func NewRefreshTokenStore(client *redis.Client) *RefreshTokenStore {
	return &RefreshTokenStore{client: client}
}

// Save stores a freshly issued token. SET NX enforces token uniqueness
// defensively; a collision of two 64-byte random tokens is not expected.
func (s *RefreshTokenStore) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	ok, err := s.client.SetNX(ctx, s.key(token), userID, ttl).Result()
	if err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	if !ok {
		return errors.New("save refresh token: token already exists")
	}
	return nil
}

// Rotate atomically exchanges oldToken for newToken on behalf of userID.
func (s *RefreshTokenStore) Rotate(ctx context.Context, oldToken, newToken, userID string, ttl time.Duration) error {
	seconds := int(ttl / time.Second)
	if seconds <= 0 {
		seconds = 1
	}

	n, err := rotateScript.Run(ctx, s.client, []string{s.key(oldToken), s.key(newToken)}, userID, seconds).Int()
	if err != nil {
		return fmt.Errorf("rotate refresh token: %w", err)
	}
	if n == 0 {
		return domain.ErrRefreshTokenInvalid
	}
	return nil
}

func (s *RefreshTokenStore) key(token string) string {
	return refreshKeyPrefix + token
}
