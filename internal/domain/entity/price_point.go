package entity

import "time"

// PricePoint - точка истории цены, только добавление.
type PricePoint struct {
	ID         int64
	Source     string
	ProductID  string
	Price      float64
	CapturedAt time.Time
}
