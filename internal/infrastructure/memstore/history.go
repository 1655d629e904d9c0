package memstore

import (
	"context"
	"sync"
	"time"

	"smartdeals/internal/domain/entity"
)

type PriceHistoryStore struct {
	mu     sync.RWMutex
	seq    int64
	points []entity.PricePoint
}

func NewPriceHistoryStore() *PriceHistoryStore {
	return &PriceHistoryStore{}
}

func (s *PriceHistoryStore) Append(_ context.Context, p *entity.PricePoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	p.ID = s.seq
	s.points = append(s.points, *p)

	return nil
}

func (s *PriceHistoryStore) Average(_ context.Context, source, productID string, since time.Time) (*float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		sum   float64
		count int
	)

	for _, p := range s.points {
		if p.Source != source || p.ProductID != productID || p.Price <= 0 || p.CapturedAt.Before(since) {
			continue
		}

		sum += p.Price
		count++
	}

	if count == 0 {
		return nil, nil //nolint:nilnil
	}

	avg := sum / float64(count)

	return &avg, nil
}
