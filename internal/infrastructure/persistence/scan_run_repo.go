package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"

	"smartdeals/internal/domain"
	"smartdeals/internal/domain/entity"
	"smartdeals/pkg/errcodes"
	"smartdeals/pkg/lox"
)

type ScanRunRepository struct {
	db *sqlx.DB
}

func NewScanRunRepository(db *sqlx.DB) *ScanRunRepository {
	return &ScanRunRepository{db: db}
}

func (r *ScanRunRepository) Create(ctx context.Context, run *entity.ScanRun) error {
	stats, err := toJSON(run.Stats)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to encode stats")
	}

	err = r.db.QueryRowxContext(ctx, r.db.Rebind(`
		INSERT INTO scan_runs (started_at, finished_at, status, message, stats)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`),
		run.StartedAt.UTC(), toNullTime(run.FinishedAt), string(run.Status), run.Message, stats,
	).Scan(&run.ID)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to insert scan run")
	}

	return nil
}

// Finish записывает итог тика.
func (r *ScanRunRepository) Finish(ctx context.Context, run *entity.ScanRun) error {
	stats, err := toJSON(run.Stats)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to encode stats")
	}

	_, err = r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE scan_runs SET finished_at = ?, status = ?, message = ?, stats = ?
		WHERE id = ?`),
		toNullTime(run.FinishedAt), string(run.Status), run.Message, stats, run.ID,
	)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to finish scan run")
	}

	return nil
}

func (r *ScanRunRepository) List(ctx context.Context, limit int) ([]entity.ScanRun, error) {
	var schemas []scanRunSchema

	err := r.db.SelectContext(ctx, &schemas, r.db.Rebind(`
		SELECT id, started_at, finished_at, status, message, stats FROM scan_runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?`), listLimit(limit))
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list scan runs")
	}

	runs, err := lox.MapErr(schemas, scanRunSchema.toDomain)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to decode scan runs")
	}

	return runs, nil
}
