// Package memstore - хранилище в памяти с той же семантикой, что и
// persistence: уникальные ключи, копии на входе и выходе, те же ошибки.
package memstore

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"

	"git.appkode.ru/pub/go/failure"

	"smartdeals/internal/domain"
	"smartdeals/internal/domain/entity"
	"smartdeals/pkg/errcodes"
)

const defaultListLimit = 300

type productKey struct {
	source    string
	productID string
}

type DealStore struct {
	mu        sync.RWMutex
	seq       int64
	data      map[int64]*entity.Deal
	byProduct map[productKey]int64
	byKey     map[string]int64
}

func NewDealStore() *DealStore {
	return &DealStore{
		data:      make(map[int64]*entity.Deal),
		byProduct: make(map[productKey]int64),
		byKey:     make(map[string]int64),
	}
}

func (s *DealStore) Create(_ context.Context, d *entity.Deal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pk := productKey{source: d.Source, productID: d.ProductID}

	if _, ok := s.byProduct[pk]; ok {
		return domain.WrapError(domain.ErrDuplicate, errcodes.DuplicateDeal,
			fmt.Sprintf("deal %s/%s", d.Source, d.ProductID))
	}

	if _, ok := s.byKey[d.SimilarityKey]; ok {
		return domain.WrapError(domain.ErrDuplicate, errcodes.DuplicateDeal,
			fmt.Sprintf("deal %s/%s", d.Source, d.ProductID))
	}

	s.seq++
	d.ID = s.seq

	stored := cloneDeal(*d)
	s.data[d.ID] = &stored
	s.byProduct[pk] = d.ID
	s.byKey[d.SimilarityKey] = d.ID

	return nil
}

func (s *DealStore) GetByID(_ context.Context, id int64) (*entity.Deal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.data[id]
	if !ok {
		return nil, notFound(id)
	}

	out := cloneDeal(*d)

	return &out, nil
}

func (s *DealStore) ExistsByProduct(_ context.Context, source, productID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byProduct[productKey{source: source, productID: productID}]

	return ok, nil
}

func (s *DealStore) ExistsBySimilarityKey(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byKey[key]

	return ok, nil
}

func (s *DealStore) List(_ context.Context, filter entity.DealFilter) ([]entity.Deal, error) {
	q := strings.ToLower(strings.TrimSpace(filter.Query))

	deals := s.filter(func(d *entity.Deal) bool {
		switch {
		case filter.Status != "" && d.Status != filter.Status:
			return false
		case filter.Source != "" && d.Source != filter.Source:
			return false
		case filter.MinScore != nil && d.Score < *filter.MinScore:
			return false
		case q != "" && !strings.Contains(strings.ToLower(d.Title), q):
			return false
		default:
			return true
		}
	})

	sort.Slice(deals, func(i, j int) bool {
		if !deals[i].CreatedAt.Equal(deals[j].CreatedAt) {
			return deals[i].CreatedAt.After(deals[j].CreatedAt)
		}

		return deals[i].ID > deals[j].ID
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	return deals[:min(limit, len(deals))], nil
}

func (s *DealStore) ListPublishable(_ context.Context, limit int) ([]entity.Deal, error) {
	deals := s.filter(func(d *entity.Deal) bool {
		return d.Status == entity.DealStatusApproved && d.PostedAt == nil
	})

	sort.Slice(deals, func(i, j int) bool {
		if deals[i].Score != deals[j].Score {
			return deals[i].Score > deals[j].Score
		}

		return deals[i].ID < deals[j].ID
	})

	return deals[:max(0, min(limit, len(deals)))], nil
}

func (s *DealStore) Update(_ context.Context, d *entity.Deal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.data[d.ID]
	if !ok {
		return notFound(d.ID)
	}

	updated := cloneDeal(*d)
	// неизменяемые поля остаются как при вставке
	updated.Candidate = stored.Candidate
	updated.SimilarityKey = stored.SimilarityKey
	updated.CreatedAt = stored.CreatedAt

	s.data[d.ID] = &updated

	return nil
}

func (s *DealStore) filter(keep func(d *entity.Deal) bool) []entity.Deal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.Deal, 0, len(s.data))

	for _, d := range s.data {
		if keep(d) {
			out = append(out, cloneDeal(*d))
		}
	}

	return out
}

func notFound(id int64) error {
	return failure.NewNotFoundError(
		fmt.Sprintf("deal %d not found", id),
		failure.WithCode(errcodes.DealNotFound),
		failure.WithDescription("Deal not found"),
	)
}

func cloneDeal(d entity.Deal) entity.Deal {
	d.Reasons = slices.Clone(d.Reasons)
	d.Metadata = maps.Clone(d.Metadata)
	d.OldPrice = clonePtr(d.OldPrice)
	d.ScoredAt = clonePtr(d.ScoredAt)
	d.PostedAt = clonePtr(d.PostedAt)

	return d
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}

	v := *p

	return &v
}
