package memstore

import (
	"context"
	"maps"
	"slices"
	"sync"

	"smartdeals/internal/domain/entity"
)

type PostStore struct {
	mu    sync.RWMutex
	seq   int64
	posts []entity.Post
}

func NewPostStore() *PostStore {
	return &PostStore{}
}

func (s *PostStore) Create(_ context.Context, p *entity.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	p.ID = s.seq

	stored := *p
	stored.Payload = maps.Clone(p.Payload)
	s.posts = append(s.posts, stored)

	return nil
}

// List - новые сверху.
func (s *PostStore) List(_ context.Context, limit int) ([]entity.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = defaultListLimit
	}

	out := slices.Clone(s.posts)
	slices.Reverse(out)

	return out[:min(limit, len(out))], nil
}
