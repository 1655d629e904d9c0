// Package lock - блокировки по ключу для критических секций над одной
// сделкой: в процессе или через redis, если сервисов несколько.
package lock

import (
	"context"
	"sync"
)

type entry struct {
	ch   chan struct{}
	refs int
}

// Local - мьютекс по ключу внутри процесса. Ожидание прерывается
// отменой контекста.
type Local struct {
	mu    sync.Mutex
	locks map[string]*entry
}

func NewLocal() *Local {
	return &Local{locks: make(map[string]*entry)}
}

func (l *Local) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()

	e, ok := l.locks[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.locks[key] = e
	}

	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, e)
		return nil, ctx.Err() //nolint:wrapcheck
	}

	var once sync.Once

	return func() {
		once.Do(func() {
			<-e.ch
			l.release(key, e)
		})
	}, nil
}

func (l *Local) release(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}
