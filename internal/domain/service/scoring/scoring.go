// Package scoring - правила оценки сделки. Оценка чистая: одни и те же
// входные данные дают один и тот же результат, время берётся из часов движка.
package scoring

import (
	"time"

	"smartdeals/internal/domain/entity"
)

type Engine struct {
	now func() time.Time
}

type Option func(*Engine)

// WithClock подменяет часы, которыми проставляется ScoredAt.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{now: time.Now}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Score считает оценку сделки. avg30d - средняя цена за 30 дней, nil если
// истории нет.
func (e *Engine) Score(c entity.Candidate, s entity.Settings, avg30d *float64) entity.ScoreResult {
	res := Evaluate(c, s, avg30d)
	res.ScoredAt = e.now().UTC()

	return res
}

// Evaluate применяет таблицу правил по порядку. Промежуточная сумма может
// уходить в минус, ограничивается только итог.
func Evaluate(c entity.Candidate, s entity.Settings, avg30d *float64) entity.ScoreResult {
	f := newFacts(c, s, avg30d)

	res := entity.ScoreResult{
		Reasons:         []string{},
		DiscountPercent: f.discount,
	}

	total := baseline

	for _, r := range rules {
		if !r.applies(f) {
			continue
		}

		total += r.weight
		res.Reasons = append(res.Reasons, r.reason(f))

		if r.name == "below_average" {
			res.BelowAvgBonus = float64(r.weight)
		}
	}

	res.Score = clamp(total)
	res.Verdict = Verdict(res.Score)

	return res
}

func Verdict(score int) string {
	if score >= verdictCutoff {
		return entity.VerdictWorthIt
	}

	return entity.VerdictEvaluateCaution
}

func clamp(v int) int {
	return max(minScore, min(maxScore, v))
}
