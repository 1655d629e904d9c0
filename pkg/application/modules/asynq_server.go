package modules

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"smartdeals/pkg/logx"
)

type AsynqQueues map[string]int

type AsynqHandler struct {
	Pattern string
	Handle  func(context.Context, *asynq.Task) error
}

// AsynqPeriodicTask is registered on the scheduler with a cron spec
// ("@every 20m" works too).
type AsynqPeriodicTask struct {
	Cronspec string
	Task     *asynq.Task
	Options  []asynq.Option
}

type AsynqServer struct {
	RedisUsername string
	RedisPassword string
	RedisAddress  string
	RedisDB       int
	Concurrency   int
}

func (s AsynqServer) redisConnection() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     s.RedisAddress,
		Username: s.RedisUsername,
		Password: s.RedisPassword,
		DB:       s.RedisDB,
	}
}

func (s AsynqServer) Run(
	ctx context.Context,
	g *errgroup.Group,
	queues AsynqQueues,
	handlers ...AsynqHandler,
) {
	g.Go(func() error {
		worker := asynq.NewServer(s.redisConnection(), asynq.Config{
			BaseContext: func() context.Context { return ctx },
			Queues:      queues,
			Concurrency: s.Concurrency,
		})

		mux := asynq.NewServeMux()

		for _, h := range handlers {
			mux.HandleFunc(h.Pattern, h.Handle)
		}

		if err := worker.Start(mux); err != nil {
			return fmt.Errorf("asynqServer.Start: %w", err)
		}

		logger(ctx).Info("asynq server started", slog.String("redis-address", s.RedisAddress), slog.Int("redis-db", s.RedisDB))

		<-ctx.Done()

		worker.Shutdown()

		logger(ctx).Info("asynq server stopped", slog.String("redis-address", s.RedisAddress), slog.Int("redis-db", s.RedisDB))

		return nil
	})
}

// RunScheduler enqueues the periodic tasks until ctx is cancelled.
func (s AsynqServer) RunScheduler(
	ctx context.Context,
	g *errgroup.Group,
	tasks ...AsynqPeriodicTask,
) {
	g.Go(func() error {
		scheduler := asynq.NewScheduler(s.redisConnection(), &asynq.SchedulerOpts{
			PostEnqueueFunc: func(_ *asynq.TaskInfo, err error) {
				switch {
				case err == nil:
				case errors.Is(err, asynq.ErrDuplicateTask):
					logger(ctx).Debug("asynq periodic task is still queued", logx.Error(err))
				default:
					logger(ctx).Warn("asynq periodic enqueue", logx.Error(err))
				}
			},
		})

		for _, t := range tasks {
			if _, err := scheduler.Register(t.Cronspec, t.Task, t.Options...); err != nil {
				return fmt.Errorf("scheduler.Register(%s): %w", t.Task.Type(), err)
			}
		}

		if err := scheduler.Start(); err != nil {
			return fmt.Errorf("scheduler.Start: %w", err)
		}

		logger(ctx).Info("asynq scheduler started", slog.Int("tasks", len(tasks)))

		<-ctx.Done()

		scheduler.Shutdown()

		logger(ctx).Info("asynq scheduler stopped")

		return nil
	})
}
