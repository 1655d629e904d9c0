package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"smartdeals/internal/domain"
	"smartdeals/internal/domain/entity"
	"smartdeals/pkg/errcodes"
)

type PriceHistoryRepository struct {
	db *sqlx.DB
}

func NewPriceHistoryRepository(db *sqlx.DB) *PriceHistoryRepository {
	return &PriceHistoryRepository{db: db}
}

func (r *PriceHistoryRepository) Append(ctx context.Context, p *entity.PricePoint) error {
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(`
		INSERT INTO price_history (source, product_id, price, captured_at)
		VALUES (?, ?, ?, ?)
		RETURNING id`),
		p.Source, p.ProductID, p.Price, p.CapturedAt.UTC(),
	).Scan(&p.ID)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to append price point")
	}

	return nil
}

// Average - средняя положительная цена товара начиная с since. nil, если
// точек нет.
func (r *PriceHistoryRepository) Average(ctx context.Context, source, productID string, since time.Time) (*float64, error) {
	var avg sql.NullFloat64

	err := r.db.GetContext(ctx, &avg, r.db.Rebind(`
		SELECT AVG(price) FROM price_history
		WHERE source = ? AND product_id = ? AND captured_at >= ? AND price > 0`),
		source, productID, since.UTC(),
	)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to average prices")
	}

	return nullFloat(avg), nil
}

func (r *PriceHistoryRepository) List(ctx context.Context, source, productID string) ([]entity.PricePoint, error) {
	var schemas []pricePointSchema

	err := r.db.SelectContext(ctx, &schemas, r.db.Rebind(`
		SELECT id, source, product_id, price, captured_at FROM price_history
		WHERE source = ? AND product_id = ?
		ORDER BY captured_at ASC, id ASC`),
		source, productID,
	)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list price points")
	}

	points := make([]entity.PricePoint, 0, len(schemas))
	for _, s := range schemas {
		points = append(points, entity.PricePoint{
			ID:         s.ID,
			Source:     s.Source,
			ProductID:  s.ProductID,
			Price:      s.Price,
			CapturedAt: s.CapturedAt.UTC(),
		})
	}

	return points, nil
}
