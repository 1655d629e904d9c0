package lock_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"git.appkode.ru/pub/go/failure"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"smartdeals/internal/infrastructure/lock"
	"smartdeals/pkg/errcodes"
)

type locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// assertMutualExclusion гоняет конкурентные инкременты под одним ключом и
// проверяет, что внутри секции никогда не больше одного владельца.
func assertMutualExclusion(t *testing.T, l locker) {
	t.Helper()

	rq := require.New(t)

	var (
		wg      sync.WaitGroup
		inside  atomic.Int32
		maxSeen atomic.Int32
		total   atomic.Int32
	)

	for range 20 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			unlock, err := l.Lock(context.Background(), "deal:1")
			if err != nil {
				t.Errorf("Lock: %v", err)
				return
			}
			defer unlock()

			if n := inside.Add(1); n > 1 {
				maxSeen.Store(n)
			} else {
				maxSeen.CompareAndSwap(0, n)
			}

			total.Add(1)

			time.Sleep(time.Millisecond)
			inside.Add(-1)
		}()
	}

	wg.Wait()

	rq.Equal(int32(1), maxSeen.Load())
	rq.Equal(int32(20), total.Load())
}

func TestLocal(t *testing.T) {
	rq := require.New(t)

	l := lock.NewLocal()

	assertMutualExclusion(t, l)

	unlock, err := l.Lock(context.Background(), "deal:1")
	rq.NoError(err)

	// другой ключ не ждёт
	unlockOther, err := l.Lock(context.Background(), "deal:2")
	rq.NoError(err)
	unlockOther()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = l.Lock(ctx, "deal:1")
	rq.ErrorIs(err, context.DeadlineExceeded)

	unlock()
	unlock()

	unlock, err = l.Lock(context.Background(), "deal:1")
	rq.NoError(err)
	unlock()
}

func TestRedis(t *testing.T) {
	if testing.Short() {
		t.Skip("redis container tests are skipped in short mode")
	}

	rq := require.New(t)
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	rq.NoError(err)

	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	endpoint, err := container.Endpoint(ctx, "")
	rq.NoError(err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() {
		_ = client.Close()
	})

	l := lock.NewRedis(client).WithTTL(5*time.Second, 5*time.Second)

	assertMutualExclusion(t, l)

	unlock, err := l.Lock(ctx, "deal:7")
	rq.NoError(err)

	busy := lock.NewRedis(client).WithTTL(5*time.Second, 100*time.Millisecond)

	_, err = busy.Lock(ctx, "deal:7")
	rq.True(failure.IsConflictError(err))
	rq.Equal(errcodes.DealLocked, failure.Code(err))

	unlock()

	unlock, err = busy.Lock(ctx, "deal:7")
	rq.NoError(err)
	unlock()
}
