package persistence

import (
	"database/sql"
	"fmt"
	"time"

	"smartdeals/internal/domain/entity"
)

const dealColumns = `id, source, product_id, similarity_key, title, url, current_price, old_price,
	currency, seller_name, seller_reputation, is_official_store, shipping_free, sold_quantity,
	condition, category, image_url, brand, model, coupon, metadata, score, reasons, verdict,
	discount_percent, below_avg_bonus, status, created_at, updated_at, scored_at, posted_at`

// dealSchema - строка таблицы deals.
type dealSchema struct {
	ID               int64           `db:"id"`
	Source           string          `db:"source"`
	ProductID        string          `db:"product_id"`
	SimilarityKey    string          `db:"similarity_key"`
	Title            string          `db:"title"`
	URL              string          `db:"url"`
	CurrentPrice     float64         `db:"current_price"`
	OldPrice         sql.NullFloat64 `db:"old_price"`
	Currency         string          `db:"currency"`
	SellerName       string          `db:"seller_name"`
	SellerReputation string          `db:"seller_reputation"`
	IsOfficialStore  bool            `db:"is_official_store"`
	ShippingFree     bool            `db:"shipping_free"`
	SoldQuantity     int             `db:"sold_quantity"`
	Condition        string          `db:"condition"`
	Category         string          `db:"category"`
	ImageURL         string          `db:"image_url"`
	Brand            string          `db:"brand"`
	Model            string          `db:"model"`
	Coupon           string          `db:"coupon"`
	Metadata         []byte          `db:"metadata"`
	Score            int             `db:"score"`
	Reasons          []byte          `db:"reasons"`
	Verdict          string          `db:"verdict"`
	DiscountPercent  float64         `db:"discount_percent"`
	BelowAvgBonus    float64         `db:"below_avg_bonus"`
	Status           string          `db:"status"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
	ScoredAt         sql.NullTime    `db:"scored_at"`
	PostedAt         sql.NullTime    `db:"posted_at"`
}

func (s dealSchema) toDomain() (entity.Deal, error) {
	d := entity.Deal{
		ID: s.ID,
		Candidate: entity.Candidate{
			Source:           s.Source,
			ProductID:        s.ProductID,
			Title:            s.Title,
			URL:              s.URL,
			CurrentPrice:     s.CurrentPrice,
			OldPrice:         nullFloat(s.OldPrice),
			Currency:         s.Currency,
			SellerName:       s.SellerName,
			SellerReputation: s.SellerReputation,
			IsOfficialStore:  s.IsOfficialStore,
			ShippingFree:     s.ShippingFree,
			SoldQuantity:     s.SoldQuantity,
			Condition:        s.Condition,
			Category:         s.Category,
			ImageURL:         s.ImageURL,
			Brand:            s.Brand,
			Model:            s.Model,
			Coupon:           s.Coupon,
		},
		SimilarityKey:   s.SimilarityKey,
		Score:           s.Score,
		Verdict:         s.Verdict,
		DiscountPercent: s.DiscountPercent,
		BelowAvgBonus:   s.BelowAvgBonus,
		Status:          entity.DealStatus(s.Status),
		CreatedAt:       s.CreatedAt.UTC(),
		UpdatedAt:       s.UpdatedAt.UTC(),
		ScoredAt:        nullTime(s.ScoredAt),
		PostedAt:        nullTime(s.PostedAt),
	}

	if err := unmarshalOrEmpty(s.Metadata, &d.Metadata); err != nil {
		return entity.Deal{}, fmt.Errorf("deal %d metadata: %w", s.ID, err)
	}

	if err := unmarshalOrEmpty(s.Reasons, &d.Reasons); err != nil {
		return entity.Deal{}, fmt.Errorf("deal %d reasons: %w", s.ID, err)
	}

	if d.Reasons == nil {
		d.Reasons = []string{}
	}

	return d, nil
}

// pricePointSchema - строка таблицы price_history.
type pricePointSchema struct {
	ID         int64     `db:"id"`
	Source     string    `db:"source"`
	ProductID  string    `db:"product_id"`
	Price      float64   `db:"price"`
	CapturedAt time.Time `db:"captured_at"`
}

// postSchema - строка таблицы posts.
type postSchema struct {
	ID         int64     `db:"id"`
	DealID     int64     `db:"deal_id"`
	Channel    string    `db:"channel"`
	Status     string    `db:"status"`
	ExternalID string    `db:"external_id"`
	Payload    []byte    `db:"payload"`
	CreatedAt  time.Time `db:"created_at"`
}

func (s postSchema) toDomain() (entity.Post, error) {
	p := entity.Post{
		ID:         s.ID,
		DealID:     s.DealID,
		Channel:    entity.Channel(s.Channel),
		Status:     entity.PostStatus(s.Status),
		ExternalID: s.ExternalID,
		CreatedAt:  s.CreatedAt.UTC(),
	}

	if err := unmarshalOrEmpty(s.Payload, &p.Payload); err != nil {
		return entity.Post{}, fmt.Errorf("post %d payload: %w", s.ID, err)
	}

	return p, nil
}

// scanRunSchema - строка таблицы scan_runs.
type scanRunSchema struct {
	ID         int64        `db:"id"`
	StartedAt  time.Time    `db:"started_at"`
	FinishedAt sql.NullTime `db:"finished_at"`
	Status     string       `db:"status"`
	Message    string       `db:"message"`
	Stats      []byte       `db:"stats"`
}

func (s scanRunSchema) toDomain() (entity.ScanRun, error) {
	r := entity.ScanRun{
		ID:         s.ID,
		StartedAt:  s.StartedAt.UTC(),
		FinishedAt: nullTime(s.FinishedAt),
		Status:     entity.ScanRunStatus(s.Status),
		Message:    s.Message,
	}

	if err := unmarshalOrEmpty(s.Stats, &r.Stats); err != nil {
		return entity.ScanRun{}, fmt.Errorf("scan run %d stats: %w", s.ID, err)
	}

	return r, nil
}

func unmarshalOrEmpty(raw []byte, dest any) error {
	if len(raw) == 0 {
		return nil
	}

	return json.Unmarshal(raw, dest) //nolint:wrapcheck
}

func toJSON(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("json.Marshal: %w", err)
	}

	return string(raw), nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}

	return &v.Float64
}

func nullTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}

	t := v.Time.UTC()

	return &t
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}

	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func toNullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}

	return sql.NullFloat64{Float64: *v, Valid: true}
}
