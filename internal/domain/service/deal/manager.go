// Package deal - жизненный цикл сделки: скоринг после сохранения, решения
// оператора и публикация. Все изменения статуса проходят через Manager.
package deal

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"smartdeals/internal/domain/entity"
	"smartdeals/pkg/logx"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*entity.Deal, error)
	List(ctx context.Context, filter entity.DealFilter) ([]entity.Deal, error)
	Update(ctx context.Context, d *entity.Deal) error
}

type Scorer interface {
	Score(c entity.Candidate, s entity.Settings, avg30d *float64) entity.ScoreResult
}

// Publisher рассылает сделку по каналам и пишет аудит. Ошибок не возвращает,
// неудачи видны только в постах.
type Publisher interface {
	Publish(ctx context.Context, d entity.Deal, s entity.Settings) []entity.Post
}

// Locker - взаимное исключение по ключу. unlock безопасно вызывать один раз.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

type Manager struct {
	repo      Repository
	scorer    Scorer
	publisher Publisher
	locker    Locker
	now       func() time.Time
}

func NewManager(repo Repository, scorer Scorer, publisher Publisher, locker Locker) *Manager {
	return &Manager{
		repo:      repo,
		scorer:    scorer,
		publisher: publisher,
		locker:    locker,
		now:       time.Now,
	}
}

func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

func (m *Manager) Get(ctx context.Context, id int64) (*entity.Deal, error) {
	return m.repo.GetByID(ctx, id) //nolint:wrapcheck
}

func (m *Manager) List(ctx context.Context, filter entity.DealFilter) ([]entity.Deal, error) {
	deals, err := m.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("repo.List: %w", err)
	}

	return deals, nil
}

// Score оценивает только что сохранённую сделку и переводит её в статус по
// режиму работы.
func (m *Manager) Score(ctx context.Context, d *entity.Deal, s entity.Settings, avg30d *float64) error {
	d.ApplyScore(m.scorer.Score(d.Candidate, s, avg30d))

	if err := Transition(d, StatusAfterScoring(s, d.Score)); err != nil {
		return err
	}

	d.UpdatedAt = m.now().UTC()

	if err := m.repo.Update(ctx, d); err != nil {
		return fmt.Errorf("repo.Update: %w", err)
	}

	logger(ctx).Debug("deal scored",
		logx.FieldDealID, d.ID,
		logx.FieldScore, d.Score,
		logx.FieldStatus, d.Status,
	)

	return nil
}

// Approve одобряет сделку и сразу публикует её. Уже одобренная сделка просто
// публикуется.
func (m *Manager) Approve(ctx context.Context, id int64, s entity.Settings) (*entity.Deal, []entity.Post, error) {
	var (
		out   *entity.Deal
		posts []entity.Post
	)

	err := m.withLock(ctx, id, func(d *entity.Deal) error {
		if d.Status != entity.DealStatusApproved {
			if err := m.save(ctx, d, entity.DealStatusApproved); err != nil {
				return err
			}
		}

		var err error
		posts, err = m.publish(ctx, d, s)
		out = d

		return err
	})
	if err != nil {
		return nil, nil, err
	}

	return out, posts, nil
}

func (m *Manager) Reject(ctx context.Context, id int64) (*entity.Deal, error) {
	var out *entity.Deal

	err := m.withLock(ctx, id, func(d *entity.Deal) error {
		out = d
		return m.save(ctx, d, entity.DealStatusRejected)
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// ForcePost публикует любую оценённую сделку, в том числе повторно.
func (m *Manager) ForcePost(ctx context.Context, id int64, s entity.Settings) (*entity.Deal, []entity.Post, error) {
	var (
		out   *entity.Deal
		posts []entity.Post
	)

	err := m.withLock(ctx, id, func(d *entity.Deal) error {
		switch d.Status {
		case entity.DealStatusApproved, entity.DealStatusPosted:
		default:
			if err := m.save(ctx, d, entity.DealStatusApproved); err != nil {
				return err
			}
		}

		var err error
		posts, err = m.publish(ctx, d, s)
		out = d

		return err
	})
	if err != nil {
		return nil, nil, err
	}

	return out, posts, nil
}

// PublishApproved - публикация из автоматического режима. Сделка
// перечитывается под блокировкой: если её уже опубликовали или отклонили,
// она пропускается.
func (m *Manager) PublishApproved(ctx context.Context, id int64, s entity.Settings) (bool, error) {
	published := false

	err := m.withLock(ctx, id, func(d *entity.Deal) error {
		if d.Status != entity.DealStatusApproved || d.PostedAt != nil {
			return nil
		}

		if _, err := m.publish(ctx, d, s); err != nil {
			return err
		}

		published = true

		return nil
	})

	return published, err
}

func (m *Manager) withLock(ctx context.Context, id int64, fn func(d *entity.Deal) error) error {
	unlock, err := m.locker.Lock(ctx, "deal:"+strconv.FormatInt(id, 10))
	if err != nil {
		return fmt.Errorf("locker.Lock: %w", err)
	}
	defer unlock()

	d, err := m.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("repo.GetByID: %w", err)
	}

	return fn(d)
}

func (m *Manager) save(ctx context.Context, d *entity.Deal, to entity.DealStatus) error {
	from := d.Status

	if err := Transition(d, to); err != nil {
		return err
	}

	d.UpdatedAt = m.now().UTC()

	if err := m.repo.Update(ctx, d); err != nil {
		return fmt.Errorf("repo.Update: %w", err)
	}

	logger(ctx).Info("deal status changed",
		logx.FieldDealID, d.ID,
		"from", from,
		logx.FieldStatus, to,
	)

	return nil
}

// publish рассылает сделку и переводит её в posted независимо от исходов по
// каналам.
func (m *Manager) publish(ctx context.Context, d *entity.Deal, s entity.Settings) ([]entity.Post, error) {
	posts := m.publisher.Publish(ctx, *d, s)

	postedAt := m.now().UTC()
	d.PostedAt = &postedAt

	if err := m.save(ctx, d, entity.DealStatusPosted); err != nil {
		return posts, err
	}

	return posts, nil
}
