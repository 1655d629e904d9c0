package entity

import (
	"fmt"
	"time"
)

type DealStatus string

const (
	DealStatusNew             DealStatus = "new"
	DealStatusScored          DealStatus = "scored"
	DealStatusPendingApproval DealStatus = "pending_approval"
	DealStatusApproved        DealStatus = "approved"
	DealStatusRejected        DealStatus = "rejected"
	DealStatusPosted          DealStatus = "posted"
)

func (s DealStatus) String() string {
	return string(s)
}

// ParseDealStatus проверяет статус, пришедший извне (query, команда бота).
func ParseDealStatus(s string) (DealStatus, error) {
	switch st := DealStatus(s); st {
	case DealStatusNew, DealStatusScored, DealStatusPendingApproval,
		DealStatusApproved, DealStatusRejected, DealStatusPosted:
		return st, nil
	default:
		return "", fmt.Errorf("unknown deal status %q", s)
	}
}

// Candidate - сырое наблюдение от источника, ещё не сохранённое.
type Candidate struct {
	Source           string
	ProductID        string
	Title            string
	URL              string
	CurrentPrice     float64
	OldPrice         *float64
	Currency         string
	SellerName       string
	SellerReputation string
	IsOfficialStore  bool
	ShippingFree     bool
	SoldQuantity     int
	Condition        string
	Category         string
	ImageURL         string
	Brand            string
	Model            string
	Coupon           string
	Metadata         map[string]any
}

// HasOldPrice - старая цена известна и положительна.
func (c Candidate) HasOldPrice() bool {
	return c.OldPrice != nil && *c.OldPrice > 0
}

// Deal - сохранённая сделка со скорингом и статусом жизненного цикла.
type Deal struct {
	ID int64
	Candidate

	SimilarityKey   string
	Score           int
	Reasons         []string
	Verdict         string
	DiscountPercent float64
	BelowAvgBonus   float64
	Status          DealStatus

	CreatedAt time.Time
	UpdatedAt time.Time
	ScoredAt  *time.Time
	PostedAt  *time.Time
}

// IsScored - скоринг уже был применён (вердикт и время проставлены).
func (d Deal) IsScored() bool {
	return d.ScoredAt != nil && d.Verdict != ""
}

// ApplyScore переносит результат скоринга в сделку, статус не трогает.
func (d *Deal) ApplyScore(res ScoreResult) {
	scoredAt := res.ScoredAt

	d.Score = res.Score
	d.Reasons = append([]string(nil), res.Reasons...)
	d.Verdict = res.Verdict
	d.DiscountPercent = res.DiscountPercent
	d.BelowAvgBonus = res.BelowAvgBonus
	d.ScoredAt = &scoredAt
}

// DealFilter - фильтры списка сделок для админки.
type DealFilter struct {
	Status   DealStatus
	Query    string
	MinScore *int
	Source   string
	Limit    int
}
