package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"smartdeals/internal/domain"
	"smartdeals/internal/domain/entity"
	"smartdeals/pkg/errcodes"
)

// SettingsRepository хранит документ настроек одной строкой с id = 1.
type SettingsRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db, now: time.Now}
}

// Get читает документ поверх значений по умолчанию, так что ключи,
// добавленные позже, получают дефолты.
func (r *SettingsRepository) Get(ctx context.Context) (entity.Settings, error) {
	var payload []byte

	err := r.db.GetContext(ctx, &payload, `SELECT payload FROM settings WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.DefaultSettings(), nil
	}

	if err != nil {
		return entity.Settings{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get settings")
	}

	settings := entity.DefaultSettings()
	if err = json.Unmarshal(payload, &settings); err != nil {
		return entity.Settings{}, domain.WrapError(err, errcodes.InternalServerError, "failed to decode settings")
	}

	return settings, nil
}

func (r *SettingsRepository) Save(ctx context.Context, s entity.Settings) error {
	payload, err := toJSON(s)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to encode settings")
	}

	_, err = r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO settings (id, payload, updated_at) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`),
		payload, r.now().UTC(),
	)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to save settings")
	}

	return nil
}
