package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"smartdeals/internal/domain/entity"
	"smartdeals/internal/worker"
)

func TestNewScanTask(t *testing.T) {
	rq := require.New(t)

	task, opts := worker.NewScanTask(time.Minute)
	rq.Equal(worker.TaskTypeScan, task.Type())
	rq.Len(opts, 3)
}

func TestHandleScanTask(t *testing.T) {
	rq := require.New(t)

	release := make(chan struct{})
	entered := make(chan struct{})

	src := &fakeSource{
		name: "ml",
		hook: func() {
			close(entered)
			<-release
		},
	}

	f := newFixture(t, entity.ModeManual, src)
	task := asynq.NewTask(worker.TaskTypeScan, nil)

	done := make(chan error, 1)
	go func() {
		done <- f.scanner.HandleScanTask(context.Background(), task)
	}()

	<-entered

	// пересечение с идущим тиком не ошибка задачи
	rq.NoError(f.scanner.HandleScanTask(context.Background(), task))

	close(release)
	rq.NoError(<-done)
}
