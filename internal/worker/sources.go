package worker

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"

	"smartdeals/internal/domain/entity"
	"smartdeals/pkg/logx"
)

// SourceState - источник и признак того, участвует ли он в тиках.
type SourceState struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// SourceCheck - результат пробного запроса к источнику.
type SourceCheck struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Error string `json:"error,omitempty"`
}

// Sources возвращает источники в порядке регистрации.
func (w *Scanner) Sources() []SourceState {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]SourceState, 0, len(w.sources))
	for _, src := range w.sources {
		out = append(out, SourceState{
			Name:    src.Name(),
			Enabled: !w.disabled[src.Name()],
		})
	}

	return out
}

// SetSourceEnabled включает или выключает источник. false - источник с таким
// именем не зарегистрирован.
func (w *Scanner) SetSourceEnabled(name string, enabled bool) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !slices.ContainsFunc(w.sources, func(src Source) bool { return src.Name() == name }) {
		return false
	}

	if enabled {
		delete(w.disabled, name)
	} else {
		w.disabled[name] = true
	}

	return true
}

func (w *Scanner) enabledSources() []Source {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]Source, 0, len(w.sources))
	for _, src := range w.sources {
		if !w.disabled[src.Name()] {
			out = append(out, src)
		}
	}

	return out
}

// fetchAll опрашивает источники параллельно. Ошибка источника логируется и
// превращается в пустой список, порядок результата - порядок регистрации.
func (w *Scanner) fetchAll(ctx context.Context, settings entity.Settings, stats *entity.ScanStats) []entity.Candidate {
	sources := w.enabledSources()
	results := make([][]entity.Candidate, len(sources))
	failed := make([]bool, len(sources))

	var g errgroup.Group

	for i, src := range sources {
		g.Go(func() error {
			ctx, span := w.tracer.Start(ctx, "source.Fetch "+src.Name())
			defer span.End()

			items, err := src.Fetch(ctx, settings)
			if err != nil {
				span.RecordError(err)

				logger(ctx).Error("source fetch failed", logx.FieldSource, src.Name(), logx.Error(err))

				failed[i] = true

				return nil
			}

			logger(ctx).Debug("source fetched", logx.FieldSource, src.Name(), logx.FieldCount, len(items))

			results[i] = items

			return nil
		})
	}

	_ = g.Wait()

	var out []entity.Candidate

	for i, items := range results {
		if failed[i] {
			stats.SourceErrors++
			w.metrics.observeSourceError(sources[i].Name())
		}

		out = append(out, items...)
	}

	stats.Fetched = len(out)

	return out
}

// CheckSources делает пробный запрос ко всем включённым источникам без
// сохранения результатов.
func (w *Scanner) CheckSources(ctx context.Context) ([]SourceCheck, error) {
	settings, err := w.settings.Get(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	sources := w.enabledSources()
	out := make([]SourceCheck, len(sources))

	var g errgroup.Group

	for i, src := range sources {
		g.Go(func() error {
			items, fetchErr := src.Fetch(ctx, settings)

			out[i] = SourceCheck{Name: src.Name(), Count: len(items)}
			if fetchErr != nil {
				out[i].Error = fetchErr.Error()
			}

			return nil
		})
	}

	_ = g.Wait()

	return out, nil
}
