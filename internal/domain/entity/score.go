package entity

import "time"

const (
	VerdictWorthIt         = "worth it"
	VerdictEvaluateCaution = "evaluate with caution"
)

// ScoreResult - результат работы скоринга. ScoredAt не участвует в сравнении
// результатов между собой.
type ScoreResult struct {
	Score           int
	Reasons         []string
	Verdict         string
	DiscountPercent float64
	BelowAvgBonus   float64
	ScoredAt        time.Time
}
