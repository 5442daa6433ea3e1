package lock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	applog "github.com/renantorres0/smartcommerce/internal/log"
)

// releaseScript deletes the key only if we still own it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a Locker shared by every process talking to the same Redis.
type Redis struct {
	client  redis.UniversalClient
	TTL     time.Duration
	Retries int
	Backoff time.Duration
}

func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client, TTL: 5 * time.Second, Retries: 3, Backoff: 100 * time.Millisecond}
}

func (r *Redis) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	for i := 0; i < r.Retries; i++ {
		ok, err := r.client.SetNX(ctx, key, token, r.TTL).Result()
		if err != nil {
			applog.L().Sugar().Errorw("lock.redis_error", "key", key, "error", err)
		}
		if ok {
			return func() {
				// The caller's ctx may already be done by the time it releases.
				if err := releaseScript.Run(context.Background(), r.client, []string{key}, token).Err(); err != nil {
					applog.L().Sugar().Errorw("lock.release_failed", "key", key, "error", err)
				}
			}, nil
		}
		if i == r.Retries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, busy(key, ctx.Err())
		case <-time.After(r.Backoff):
		}
	}
	return nil, busy(key, ErrBusy)
}
