package worker

import (
	"context"
	"fmt"

	"github.com/patrickmn/go-cache"

	"smartdeals/internal/domain"
	"smartdeals/internal/domain/entity"
	"smartdeals/internal/domain/service/similarity"
)

type outcome string

const (
	outcomeFiltered      outcome = "filtered"
	outcomeKnown         outcome = "known"
	outcomeNearDuplicate outcome = "near_duplicate"
	outcomeNew           outcome = "new"
	outcomeScored        outcome = "scored"
	outcomeFailed        outcome = "failed"
)

func (o outcome) count(stats *entity.ScanStats) {
	switch o {
	case outcomeFiltered:
		stats.Filtered++
	case outcomeKnown:
		stats.Known++
	case outcomeNearDuplicate:
		stats.NearDuplicates++
	case outcomeNew:
		stats.New++
	case outcomeScored:
		stats.New++
		stats.Scored++
	case outcomeFailed:
	}
}

func productKey(source, productID string) string {
	return "p:" + source + "|" + productID
}

func similarityKey(key string) string {
	return "k:" + key
}

// ingest проводит одного кандидата через фильтр цены, обе проверки
// дубликатов, сохранение, историю цен и скоринг.
func (w *Scanner) ingest(ctx context.Context, c entity.Candidate, settings entity.Settings) (outcome, error) {
	if !settings.InPriceRange(c.CurrentPrice) {
		return outcomeFiltered, nil
	}

	pKey := productKey(c.Source, c.ProductID)

	known, err := w.seenOr(pKey, func() (bool, error) {
		return w.deals.ExistsByProduct(ctx, c.Source, c.ProductID)
	})
	if err != nil {
		return outcomeFailed, fmt.Errorf("deals.ExistsByProduct: %w", err)
	}

	if known {
		return outcomeKnown, nil
	}

	key := similarity.Key(c.Title, c.Brand, c.Model)
	sKey := similarityKey(key)

	near, err := w.seenOr(sKey, func() (bool, error) {
		return w.deals.ExistsBySimilarityKey(ctx, key)
	})
	if err != nil {
		return outcomeFailed, fmt.Errorf("deals.ExistsBySimilarityKey: %w", err)
	}

	if near {
		return outcomeNearDuplicate, nil
	}

	now := w.now().UTC()

	d := &entity.Deal{
		Candidate:     c,
		SimilarityKey: key,
		Reasons:       []string{},
		Status:        entity.DealStatusNew,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err = w.deals.Create(ctx, d); err != nil {
		// уникальный индекс сработал раньше проверок, например при записи
		// из параллельного процесса
		if domain.IsDuplicate(err) {
			return outcomeKnown, nil
		}

		return outcomeFailed, fmt.Errorf("deals.Create: %w", err)
	}

	w.seen.Set(pKey, true, cache.DefaultExpiration)
	w.seen.Set(sKey, true, cache.DefaultExpiration)

	err = w.prices.Append(ctx, &entity.PricePoint{
		Source:     c.Source,
		ProductID:  c.ProductID,
		Price:      c.CurrentPrice,
		CapturedAt: now,
	})
	if err != nil {
		return outcomeNew, fmt.Errorf("prices.Append: %w", err)
	}

	avg, err := w.prices.Average(ctx, c.Source, c.ProductID, now.Add(-avgWindow))
	if err != nil {
		return outcomeNew, fmt.Errorf("prices.Average: %w", err)
	}

	if err = w.manager.Score(ctx, d, settings, avg); err != nil {
		return outcomeNew, fmt.Errorf("manager.Score: %w", err)
	}

	return outcomeScored, nil
}

// seenOr отвечает из кеша, а при промахе спрашивает хранилище. В кеш
// попадают только положительные ответы.
func (w *Scanner) seenOr(key string, lookup func() (bool, error)) (bool, error) {
	if _, ok := w.seen.Get(key); ok {
		return true, nil
	}

	exists, err := lookup()
	if err != nil {
		return false, err
	}

	if exists {
		w.seen.Set(key, true, cache.DefaultExpiration)
	}

	return exists, nil
}
