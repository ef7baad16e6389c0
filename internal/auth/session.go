// internal/auth/session.go
package auth

import (
	"context"
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// SessionResolver maps a session token to a user id. Returns 0, nil when
// the token is unknown or expired; session issuance lives outside this
// service.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (int, error)
}

// RedisSessionResolver reads session:<token> keys written by the auth
// service.
type RedisSessionResolver struct {
	client *redis.Client
}

func NewRedisSessionResolver() *RedisSessionResolver {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	return &RedisSessionResolver{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func (r *RedisSessionResolver) Resolve(ctx context.Context, token string) (int, error) {
	val, err := r.client.Get(ctx, "session:"+token).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	userID, err := strconv.Atoi(val)
	if err != nil {
		return 0, nil // corrupt session value reads as unauthenticated
	}
	return userID, nil
}

func (r *RedisSessionResolver) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

var _ SessionResolver = (*RedisSessionResolver)(nil)
