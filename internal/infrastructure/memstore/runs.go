package memstore

import (
	"context"
	"slices"
	"sync"

	"smartdeals/internal/domain/entity"
)

type ScanRunStore struct {
	mu   sync.RWMutex
	seq  int64
	runs []entity.ScanRun
}

func NewScanRunStore() *ScanRunStore {
	return &ScanRunStore{}
}

func (s *ScanRunStore) Create(_ context.Context, run *entity.ScanRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	run.ID = s.seq
	s.runs = append(s.runs, *run)

	return nil
}

func (s *ScanRunStore) Finish(_ context.Context, run *entity.ScanRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.runs {
		if s.runs[i].ID == run.ID {
			s.runs[i] = *run
			return nil
		}
	}

	return nil
}

func (s *ScanRunStore) List(_ context.Context, limit int) ([]entity.ScanRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = defaultListLimit
	}

	out := slices.Clone(s.runs)
	slices.Reverse(out)

	return out[:min(limit, len(out))], nil
}
