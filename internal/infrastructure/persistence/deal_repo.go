package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"git.appkode.ru/pub/go/failure"
	"github.com/jmoiron/sqlx"

	"smartdeals/internal/domain"
	"smartdeals/internal/domain/entity"
	"smartdeals/pkg/errcodes"
	"smartdeals/pkg/lox"
)

const (
	defaultListLimit = 300
	maxListLimit     = 1000
)

type DealRepository struct {
	db *sqlx.DB
}

func NewDealRepository(db *sqlx.DB) *DealRepository {
	return &DealRepository{db: db}
}

// Create сохраняет новую сделку и проставляет ей ID. Повтор по (source,
// product_id) или similarity_key возвращается как domain.ErrDuplicate.
func (r *DealRepository) Create(ctx context.Context, d *entity.Deal) error {
	metadata := d.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	metadataJSON, err := toJSON(metadata)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to encode metadata")
	}

	reasonsJSON, err := toJSON(append([]string{}, d.Reasons...))
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to encode reasons")
	}

	query := r.db.Rebind(`
		INSERT INTO deals (
			source, product_id, similarity_key, title, url, current_price, old_price, currency,
			seller_name, seller_reputation, is_official_store, shipping_free, sold_quantity,
			condition, category, image_url, brand, model, coupon, metadata, score, reasons,
			verdict, discount_percent, below_avg_bonus, status, created_at, updated_at,
			scored_at, posted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	err = r.db.QueryRowxContext(ctx, query,
		d.Source, d.ProductID, d.SimilarityKey, d.Title, d.URL, d.CurrentPrice, toNullFloat(d.OldPrice), d.Currency,
		d.SellerName, d.SellerReputation, d.IsOfficialStore, d.ShippingFree, d.SoldQuantity,
		d.Condition, d.Category, d.ImageURL, d.Brand, d.Model, d.Coupon, metadataJSON, d.Score, reasonsJSON,
		d.Verdict, d.DiscountPercent, d.BelowAvgBonus, string(d.Status), d.CreatedAt.UTC(), d.UpdatedAt.UTC(),
		toNullTime(d.ScoredAt), toNullTime(d.PostedAt),
	).Scan(&d.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.WrapError(domain.ErrDuplicate, errcodes.DuplicateDeal,
				fmt.Sprintf("deal %s/%s", d.Source, d.ProductID))
		}

		return domain.WrapError(err, errcodes.InternalServerError, "failed to insert deal")
	}

	return nil
}

// GetByID возвращает сделку по идентификатору.
func (r *DealRepository) GetByID(ctx context.Context, id int64) (*entity.Deal, error) {
	var schema dealSchema

	err := r.db.GetContext(ctx, &schema, r.db.Rebind(`SELECT `+dealColumns+` FROM deals WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, failure.NewNotFoundError(
				fmt.Sprintf("deal %d not found", id),
				failure.WithCode(errcodes.DealNotFound),
				failure.WithDescription("Deal not found"),
			)
		}

		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get deal")
	}

	d, err := schema.toDomain()
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to decode deal")
	}

	return &d, nil
}

// ExistsByProduct - сделка с такой парой (source, product_id) уже есть.
func (r *DealRepository) ExistsByProduct(ctx context.Context, source, productID string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM deals WHERE source = ? AND product_id = ? LIMIT 1`, source, productID)
}

// ExistsBySimilarityKey - ключ схожести уже занят какой-то сделкой.
func (r *DealRepository) ExistsBySimilarityKey(ctx context.Context, key string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM deals WHERE similarity_key = ? LIMIT 1`, key)
}

func (r *DealRepository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var one int

	if err := r.db.GetContext(ctx, &one, r.db.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, domain.WrapError(err, errcodes.InternalServerError, "failed to check deal")
	}

	return true, nil
}

// List - сделки для админки, новые сверху.
func (r *DealRepository) List(ctx context.Context, filter entity.DealFilter) ([]entity.Deal, error) {
	var (
		where []string
		args  []any
	)

	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}

	if filter.Source != "" {
		where = append(where, "source = ?")
		args = append(args, filter.Source)
	}

	if filter.MinScore != nil {
		where = append(where, "score >= ?")
		args = append(args, *filter.MinScore)
	}

	if q := strings.TrimSpace(filter.Query); q != "" {
		where = append(where, "LOWER(title) LIKE ?")
		args = append(args, "%"+strings.ToLower(q)+"%")
	}

	query := `SELECT ` + dealColumns + ` FROM deals`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}

	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`

	args = append(args, listLimit(filter.Limit))

	return r.selectDeals(ctx, query, args...)
}

// ListPublishable - одобренные и ещё не опубликованные сделки, лучшие сверху.
func (r *DealRepository) ListPublishable(ctx context.Context, limit int) ([]entity.Deal, error) {
	if limit <= 0 {
		return []entity.Deal{}, nil
	}

	return r.selectDeals(ctx, `SELECT `+dealColumns+` FROM deals
		WHERE status = ? AND posted_at IS NULL
		ORDER BY score DESC, id ASC
		LIMIT ?`, string(entity.DealStatusApproved), limit)
}

func (r *DealRepository) selectDeals(ctx context.Context, query string, args ...any) ([]entity.Deal, error) {
	var schemas []dealSchema

	if err := r.db.SelectContext(ctx, &schemas, r.db.Rebind(query), args...); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list deals")
	}

	deals, err := lox.MapErr(schemas, dealSchema.toDomain)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to decode deals")
	}

	return deals, nil
}

// Update сохраняет изменяемые поля сделки: скоринг, статус и отметки времени.
func (r *DealRepository) Update(ctx context.Context, d *entity.Deal) error {
	reasonsJSON, err := toJSON(append([]string{}, d.Reasons...))
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to encode reasons")
	}

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(`
			UPDATE deals
			SET score = ?, reasons = ?, verdict = ?, discount_percent = ?, below_avg_bonus = ?,
				status = ?, updated_at = ?, scored_at = ?, posted_at = ?
			WHERE id = ?`),
			d.Score, reasonsJSON, d.Verdict, d.DiscountPercent, d.BelowAvgBonus,
			string(d.Status), d.UpdatedAt.UTC(), toNullTime(d.ScoredAt), toNullTime(d.PostedAt),
			d.ID,
		)
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to update deal")
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to get rows affected")
		}

		if affected == 0 {
			return failure.NewNotFoundError(
				fmt.Sprintf("deal %d not found", d.ID),
				failure.WithCode(errcodes.DealNotFound),
				failure.WithDescription("Deal not found"),
			)
		}

		return nil
	})
}

func listLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultListLimit
	case limit > maxListLimit:
		return maxListLimit
	default:
		return limit
	}
}
