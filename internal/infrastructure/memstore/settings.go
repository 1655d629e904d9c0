package memstore

import (
	"context"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"smartdeals/internal/domain/entity"
)

// SettingsStore держит документ в сериализованном виде, чтобы вызывающий
// не мог изменить сохранённые срезы.
type SettingsStore struct {
	mu  sync.RWMutex
	raw []byte
}

func NewSettingsStore() *SettingsStore {
	return &SettingsStore{}
}

func (s *SettingsStore) Get(context.Context) (entity.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings := entity.DefaultSettings()
	if s.raw == nil {
		return settings, nil
	}

	if err := jsoniter.Unmarshal(s.raw, &settings); err != nil {
		return entity.Settings{}, err //nolint:wrapcheck
	}

	return settings, nil
}

func (s *SettingsStore) Save(_ context.Context, settings entity.Settings) error {
	raw, err := jsoniter.Marshal(settings)
	if err != nil {
		return err //nolint:wrapcheck
	}

	s.mu.Lock()
	s.raw = raw
	s.mu.Unlock()

	return nil
}
