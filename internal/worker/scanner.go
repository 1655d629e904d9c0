// Package worker - конвейер сканирования: сбор кандидатов из источников,
// дедупликация, сохранение, скоринг и публикация в режиме AUTO.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"git.appkode.ru/pub/go/failure"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"smartdeals/internal/domain/entity"
	"smartdeals/pkg/contextx"
	"smartdeals/pkg/errcodes"
	"smartdeals/pkg/logx"
)

const (
	DefaultInterval = 20 * time.Minute

	avgWindow    = 30 * 24 * time.Hour
	seenTTL      = 24 * time.Hour
	seenCleanup  = time.Hour
	tracerName   = "smartdeals/worker"
	failedReason = "tick interrupted"
)

type Source interface {
	Name() string
	Fetch(ctx context.Context, s entity.Settings) ([]entity.Candidate, error)
}

type DealRepository interface {
	Create(ctx context.Context, d *entity.Deal) error
	ExistsByProduct(ctx context.Context, source, productID string) (bool, error)
	ExistsBySimilarityKey(ctx context.Context, key string) (bool, error)
	ListPublishable(ctx context.Context, limit int) ([]entity.Deal, error)
}

type PriceHistory interface {
	Append(ctx context.Context, p *entity.PricePoint) error
	Average(ctx context.Context, source, productID string, since time.Time) (*float64, error)
}

type ScanRunRepository interface {
	Create(ctx context.Context, run *entity.ScanRun) error
	Finish(ctx context.Context, run *entity.ScanRun) error
}

type SettingsProvider interface {
	Get(ctx context.Context) (entity.Settings, error)
}

type DealManager interface {
	Score(ctx context.Context, d *entity.Deal, s entity.Settings, avg30d *float64) error
	PublishApproved(ctx context.Context, id int64, s entity.Settings) (bool, error)
}

type Scanner struct {
	sources  []Source
	disabled map[string]bool

	deals    DealRepository
	prices   PriceHistory
	runs     ScanRunRepository
	settings SettingsProvider
	manager  DealManager

	// seen - ключи, уже встреченные в хранилище. Только ускоряет проверку,
	// уникальные индексы хранилища остаются последней защитой.
	seen *cache.Cache

	interval time.Duration
	now      func() time.Time
	tracer   trace.Tracer
	metrics  *scanMetrics

	// tickMu не даёт тикам пересекаться.
	tickMu sync.Mutex

	// Управление фоновым циклом
	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup
}

func NewScanner(
	deals DealRepository,
	prices PriceHistory,
	runs ScanRunRepository,
	settings SettingsProvider,
	manager DealManager,
	sources ...Source,
) *Scanner {
	return &Scanner{
		sources:  sources,
		disabled: make(map[string]bool),
		deals:    deals,
		prices:   prices,
		runs:     runs,
		settings: settings,
		manager:  manager,
		seen:     cache.New(seenTTL, seenCleanup),
		interval: DefaultInterval,
		now:      time.Now,
		tracer:   otel.Tracer(tracerName),
	}
}

func (w *Scanner) WithInterval(interval time.Duration) *Scanner {
	if interval > 0 {
		w.interval = interval
	}

	return w
}

func (w *Scanner) WithClock(now func() time.Time) *Scanner {
	w.now = now
	return w
}

func (w *Scanner) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return errors.New("scanner is already running")
	}

	scanCtx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel
	w.isRunning = true

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			w.isRunning = false
			w.cancelFunc = nil
			w.mu.Unlock()
		}()

		if err := w.Run(scanCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger(ctx).Error("scanner stopped", logx.Error(err))
		}
	}()

	return nil
}

func (w *Scanner) Stop() {
	w.mu.Lock()

	if !w.isRunning {
		w.mu.Unlock()
		return
	}

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *Scanner) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.isRunning
}

// Run выполняет тик сразу и затем каждые interval, пока жив ctx.
func (w *Scanner) Run(ctx context.Context) error {
	logger(ctx).Info("scanner started", "interval", w.interval.String())

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if _, err := w.Tick(ctx); err != nil && !errors.Is(err, context.Canceled) {
			if failure.IsConflictError(err) {
				logger(ctx).Warn("scan tick skipped", logx.Error(err))
			} else {
				logger(ctx).Error("scan tick failed", logx.Error(err))
			}
		}

		select {
		case <-ctx.Done():
			logger(ctx).Info("scanner stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Tick - один проход конвейера. Второй одновременный вызов получает
// ScanAlreadyRunning.
func (w *Scanner) Tick(ctx context.Context) (entity.ScanRun, error) {
	if !w.tickMu.TryLock() {
		return entity.ScanRun{}, failure.NewConflictError(
			"scan tick is already running",
			failure.WithCode(errcodes.ScanAlreadyRunning),
			failure.WithDescription("A scan is already in progress"),
		)
	}
	defer w.tickMu.Unlock()

	ctx, span := w.tracer.Start(ctx, "scanner.Tick")
	defer span.End()

	started := w.now().UTC()

	run := entity.ScanRun{
		StartedAt: started,
		Status:    entity.ScanRunStatusRunning,
	}

	if err := w.runs.Create(ctx, &run); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return entity.ScanRun{}, fmt.Errorf("runs.Create: %w", err)
	}

	ctx = contextx.WithLogger(ctx, logger(ctx).With(logx.FieldScanRunID, run.ID))

	err := w.tick(ctx, &run)

	finished := w.now().UTC()
	run.FinishedAt = &finished
	run.Status = entity.ScanRunStatusFinished

	if err != nil {
		run.Status = entity.ScanRunStatusFailed
		run.Message = err.Error()

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	// отменённый ctx не должен помешать записать итог
	if finishErr := w.runs.Finish(context.WithoutCancel(ctx), &run); finishErr != nil {
		logger(ctx).Error("failed to finish scan run", logx.Error(finishErr))
	}

	span.SetAttributes(
		attribute.Int("scan.fetched", run.Stats.Fetched),
		attribute.Int("scan.new", run.Stats.New),
		attribute.Int("scan.published", run.Stats.Published),
	)

	w.metrics.observeRun(run, finished.Sub(started))

	logger(ctx).Info("scan tick completed",
		logx.FieldStatus, run.Status,
		"stats", run.Stats,
		logx.FieldDurationMs, finished.Sub(started).Milliseconds(),
	)

	return run, err
}

func (w *Scanner) tick(ctx context.Context, run *entity.ScanRun) error {
	settings, err := w.settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("settings.Get: %w", err)
	}

	candidates := w.fetchAll(ctx, settings, &run.Stats)

	// отменённые запросы выглядят как ошибки источников, тик при этом прерван
	if err = ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", failedReason, err)
	}

	for _, c := range candidates {
		if err = ctx.Err(); err != nil {
			return fmt.Errorf("%s: %w", failedReason, err)
		}

		outcome, ingestErr := w.ingest(ctx, c, settings)
		if ingestErr != nil {
			logger(ctx).Error("failed to ingest candidate",
				logx.FieldSource, c.Source,
				logx.FieldProductID, c.ProductID,
				logx.Error(ingestErr),
			)
		}

		outcome.count(&run.Stats)
		w.metrics.observeCandidate(outcome)
	}

	if settings.Mode != entity.ModeAuto {
		return nil
	}

	return w.publishApproved(ctx, settings, &run.Stats)
}

func (w *Scanner) publishApproved(ctx context.Context, settings entity.Settings, stats *entity.ScanStats) error {
	if settings.DailyPostLimit <= 0 {
		return nil
	}

	deals, err := w.deals.ListPublishable(ctx, settings.DailyPostLimit)
	if err != nil {
		return fmt.Errorf("deals.ListPublishable: %w", err)
	}

	for _, d := range deals {
		if err = ctx.Err(); err != nil {
			return fmt.Errorf("%s: %w", failedReason, err)
		}

		published, publishErr := w.manager.PublishApproved(ctx, d.ID, settings)
		if publishErr != nil {
			logger(ctx).Error("failed to publish deal", logx.FieldDealID, d.ID, logx.Error(publishErr))
			continue
		}

		if published {
			stats.Published++
		}
	}

	return nil
}
