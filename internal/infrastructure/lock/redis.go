package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"git.appkode.ru/pub/go/failure"
	"github.com/redis/go-redis/v9"
	"github.com/rs/xid"

	"smartdeals/pkg/errcodes"
	"smartdeals/pkg/logx"
)

const (
	defaultTTL   = 2 * time.Minute
	defaultWait  = 30 * time.Second
	retryBackoff = 50 * time.Millisecond
	keyPrefix    = "smartdeals:lock:"
)

// unlockScript снимает блокировку, только если она всё ещё наша.
//
//nolint:gochecknoglobals
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis - блокировка SET NX PX. TTL ограничивает время жизни блокировки,
// если процесс упал, не сняв её.
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
	wait   time.Duration
}

func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{
		client: client,
		ttl:    defaultTTL,
		wait:   defaultWait,
	}
}

func (r *Redis) WithTTL(ttl, wait time.Duration) *Redis {
	r.ttl = ttl
	r.wait = wait

	return r
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	token := xid.New().String()
	redisKey := keyPrefix + key

	ctx, cancel := context.WithTimeout(ctx, r.wait)
	defer cancel()

	for {
		ok, err := r.client.SetNX(ctx, redisKey, token, r.ttl).Result()
		if err != nil && ctx.Err() == nil {
			return nil, fmt.Errorf("redis.SetNX: %w", err)
		}

		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, failure.NewConflictError(
				fmt.Sprintf("lock %s is busy", key),
				failure.WithCode(errcodes.DealLocked),
				failure.WithDescription("Deal is being processed, try again later"),
			)
		case <-time.After(retryBackoff):
		}
	}

	var once sync.Once

	return func() {
		once.Do(func() {
			// контекст вызова к этому моменту может быть уже отменён
			unlockCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			if err := unlockScript.Run(unlockCtx, r.client, []string{redisKey}, token).Err(); err != nil {
				logger(ctx).Warn("failed to release lock", "key", redisKey, logx.Error(err))
			}
		})
	}, nil
}
