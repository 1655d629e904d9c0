// Package application собирает сервис из конфигурации: хранилище, источники,
// каналы публикации, сканер и внешние интерфейсы.
package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"smartdeals/internal/config"
	"smartdeals/internal/domain/service/deal"
	"smartdeals/internal/domain/service/publication"
	"smartdeals/internal/domain/service/scoring"
	"smartdeals/internal/domain/service/settings"
	"smartdeals/internal/infrastructure/auth"
	"smartdeals/internal/infrastructure/lock"
	"smartdeals/internal/infrastructure/notifier"
	"smartdeals/internal/infrastructure/source/amazon"
	"smartdeals/internal/infrastructure/source/mercadolivre"
	"smartdeals/internal/server"
	"smartdeals/internal/transport/bot"
	"smartdeals/internal/transport/bot/handler"
	"smartdeals/internal/worker"
	"smartdeals/pkg/application/connectors"
	"smartdeals/pkg/application/modules"
	"smartdeals/pkg/httpx"
	"smartdeals/pkg/logx"
	"smartdeals/pkg/probe"
	"smartdeals/pkg/tracing"
)

const (
	httpReadHeaderTimeout = 5 * time.Second
	botClientTimeout      = 90 * time.Second
)

// Container - собранные сервисы. Общий для serve и разовых команд CLI.
type Container struct {
	Config   config.Config
	Registry *prometheus.Registry
	Storage  *Storage
	Settings *settings.Service
	Deals    *deal.Manager
	Scanner  *worker.Scanner
	Auth     *auth.Issuer

	redis *connectors.Redis
}

// NewContainer подключает хранилище и собирает конвейер. Закрывать через
// Close.
func NewContainer(ctx context.Context, cfg config.Config) (*Container, error) {
	storage, err := OpenStorage(ctx, cfg.Database, cfg.Database.AutoMigrate)
	if err != nil {
		return nil, fmt.Errorf("OpenStorage: %w", err)
	}

	c := &Container{
		Config:   cfg,
		Registry: prometheus.NewRegistry(),
		Storage:  storage,
		Settings: settings.NewService(storage.Settings),
	}

	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var locker deal.Locker = lock.NewLocal()

	if cfg.Redis.Enabled() {
		c.redis = &connectors.Redis{
			Username:       cfg.Redis.Username,
			Password:       cfg.Redis.Password,
			Address:        cfg.Redis.Address,
			DatabaseNumber: cfg.Redis.DB,
			PoolSize:       cfg.Redis.PoolSize,
		}

		locker = lock.NewRedis(c.redis.Client(ctx))
	}

	coordinator := publication.NewCoordinator(
		storage.Posts,
		notifier.NewTelegram(cfg.Scan.PublishTimeout),
		notifier.NewWhatsApp(cfg.Scan.PublishTimeout),
	).WithMetrics(c.Registry)

	c.Deals = deal.NewManager(storage.Deals, scoring.New(), coordinator, locker)

	transport := httpx.NewLoggingTransport(nil)

	c.Scanner = worker.NewScanner(
		storage.Deals,
		storage.Prices,
		storage.Runs,
		c.Settings,
		c.Deals,
		mercadolivre.New(cfg.Scan.RequestTimeout,
			mercadolivre.WithTransport(transport),
			mercadolivre.WithTokenStore(c.Settings),
		),
		amazon.New(cfg.Scan.RequestTimeout, transport),
	).
		WithInterval(cfg.Scan.Interval).
		WithMetrics(c.Registry)

	c.Auth = auth.NewIssuer(cfg.Auth.AdminUsername, cfg.Auth.AdminPassword, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	return c, nil
}

func (c *Container) Close(ctx context.Context) {
	c.Scanner.Stop()
	c.Storage.Close(ctx)

	if c.redis != nil {
		c.redis.Close(ctx)
	}
}

// Run - режим serve: admin API, probe, метрики, триггер сканирования и бот
// оператора до отмены ctx.
func Run(ctx context.Context, cfg config.Config) error {
	shutdownTracing, err := tracing.Init(tracing.Config{
		Endpoint:    cfg.Tracing.JaegerEndpoint,
		ServiceName: cfg.App.Name,
		Version:     cfg.App.Version,
		Environment: cfg.App.Environment,
	})
	if err != nil {
		return fmt.Errorf("tracing.Init: %w", err)
	}

	defer func() {
		if err := shutdownTracing(context.WithoutCancel(ctx)); err != nil {
			logger(ctx).Warn("tracing shutdown", logx.Error(err))
		}
	}()

	c, err := NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Close(context.WithoutCancel(ctx))

	g, ctx := errgroup.WithContext(ctx)

	srv := server.NewServer(c.Deals, c.Settings, c.Scanner, c.Storage.Posts, c.Storage.Runs, c.Auth)

	modules.HTTPServer{
		ListenAddress:     cfg.HTTP.ListenAddress,
		ReadHeaderTimeout: httpReadHeaderTimeout,
		ShutdownTimeout:   cfg.HTTP.ShutdownTimeout,
	}.Run(ctx, g, srv.Handler(cfg.App.Name, cfg.HTTP.CORSOrigins))

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.Ops.ProbeListenAddress,
	}.Run(ctx, g, c.readinessChecks())

	modules.MetricServer{ListenAddress: cfg.Ops.MetricListenAddress}.Run(ctx, g, c.Registry)

	if err = c.runScanTrigger(ctx, g); err != nil {
		return err
	}

	if cfg.Bot.Enabled() {
		if err = c.runBot(ctx, g); err != nil {
			return err
		}
	} else {
		logger(ctx).Info("operator bot disabled, BOT_TOKEN is empty")
	}

	if err = g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("errgroup.Wait: %w", err)
	}

	return nil
}

// runScanTrigger запускает периодическое сканирование: внутренним тикером
// или через планировщик asynq.
func (c *Container) runScanTrigger(ctx context.Context, g *errgroup.Group) error {
	cfg := c.Config

	if !cfg.Scan.AutoStart {
		logger(ctx).Info("periodic scanning disabled")
		return nil
	}

	if cfg.Scan.Trigger == config.TriggerTicker {
		if err := c.Scanner.Start(ctx); err != nil {
			return fmt.Errorf("scanner.Start: %w", err)
		}

		return nil
	}

	asynqServer := modules.AsynqServer{
		RedisUsername: cfg.Redis.Username,
		RedisPassword: cfg.Redis.Password,
		RedisAddress:  cfg.Redis.Address,
		RedisDB:       cfg.Redis.DB,
		Concurrency:   cfg.Scan.AsynqConcurrency,
	}

	task, opts := worker.NewScanTask(cfg.Scan.Interval)

	asynqServer.Run(ctx, g, modules.AsynqQueues{worker.ScanQueue: 1}, modules.AsynqHandler{
		Pattern: worker.TaskTypeScan,
		Handle:  c.Scanner.HandleScanTask,
	})

	asynqServer.RunScheduler(ctx, g, modules.AsynqPeriodicTask{
		Cronspec: "@every " + cfg.Scan.Interval.String(),
		Task:     task,
		Options:  opts,
	})

	return nil
}

func (c *Container) runBot(ctx context.Context, g *errgroup.Group) error {
	h := handler.New(ctx, c.Deals, c.Settings, c.Scanner)

	b, err := bot.New(c.Config.Bot, h, &http.Client{Timeout: botClientTimeout})
	if err != nil {
		return fmt.Errorf("bot.New: %w", err)
	}

	g.Go(func() error {
		return b.Run(ctx)
	})

	return nil
}

func (c *Container) readinessChecks() map[string]probe.ReadinessCheck {
	checks := c.Storage.ReadinessChecks()

	if c.redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return c.redis.Client(ctx).Ping(ctx).Err() //nolint:wrapcheck
		}
	}

	return checks
}
