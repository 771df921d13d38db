package redis

import (
	"context"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/streakmap/domain"
	"github.com/fastygo/streakmap/repository"
)

type stateRepository struct {
	client *redislib.Client
	ttl    time.Duration
}

// NewStateRepository stores OAuth state values with a short expiry.
func NewStateRepository(client *redislib.Client, ttl time.Duration) repository.StateRepository {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &stateRepository{client: client, ttl: ttl}
}

func (r *stateRepository) Save(ctx context.Context, state string) error {
	if state == "" {
		return domain.ErrInvalidPayload
	}
	return r.client.Set(ctx, "oauth_state:"+state, 1, r.ttl).Err()
}

func (r *stateRepository) Consume(ctx context.Context, state string) error {
	if state == "" {
		return domain.ErrStateNotFound
	}
	removed, err := r.client.Del(ctx, "oauth_state:"+state).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return domain.ErrStateNotFound
	}
	return nil
}
