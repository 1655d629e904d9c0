package worker

import (
	"context"
	"fmt"
	"time"

	"git.appkode.ru/pub/go/failure"
	"github.com/hibiken/asynq"
)

const (
	TaskTypeScan = "scan:tick"
	ScanQueue    = "scan"
)

// NewScanTask - задача тика для планировщика asynq. Unique не даёт
// поставить в очередь второй тик, пока первый не обработан.
func NewScanTask(interval time.Duration) (*asynq.Task, []asynq.Option) {
	return asynq.NewTask(TaskTypeScan, nil), []asynq.Option{
		asynq.Queue(ScanQueue),
		asynq.MaxRetry(0),
		asynq.Unique(interval),
	}
}

// HandleScanTask выполняет тик из воркера asynq. Пересечение с уже идущим
// тиком не считается ошибкой задачи.
func (w *Scanner) HandleScanTask(ctx context.Context, _ *asynq.Task) error {
	if _, err := w.Tick(ctx); err != nil {
		if failure.IsConflictError(err) {
			return nil
		}

		return fmt.Errorf("scanner.Tick: %w", err)
	}

	return nil
}
