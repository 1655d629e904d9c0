// Package publication рассылает одобренные сделки по каналам и ведёт аудит
// попыток публикации.
package publication

import (
	"context"
	"maps"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"smartdeals/internal/domain/entity"
	"smartdeals/pkg/logx"
)

// Channel - издатель одного канала. Ошибки выражаются статусом исхода, на
// каждого адресата приходится один исход.
type Channel interface {
	Channel() entity.Channel
	Publish(ctx context.Context, message string, s entity.Settings) []entity.Outcome
}

type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
}

type Coordinator struct {
	channels []Channel
	posts    PostRepository
	now      func() time.Time
	outcomes *prometheus.CounterVec
}

func NewCoordinator(posts PostRepository, channels ...Channel) *Coordinator {
	return &Coordinator{
		channels: channels,
		posts:    posts,
		now:      time.Now,
	}
}

func (c *Coordinator) WithClock(now func() time.Time) *Coordinator {
	c.now = now
	return c
}

// WithMetrics регистрирует счётчик исходов публикации.
func (c *Coordinator) WithMetrics(reg prometheus.Registerer) *Coordinator {
	c.outcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "smartdeals",
		Name:      "publish_outcomes_total",
		Help:      "Publication outcomes per channel and status.",
	}, []string{"channel", "status"})

	reg.MustRegister(c.outcomes)

	return c
}

// Publish отправляет сделку во все каналы и пишет по посту на каждый исход.
// Ошибка записи аудита только логируется.
func (c *Coordinator) Publish(ctx context.Context, d entity.Deal, s entity.Settings) []entity.Post {
	message := FormatMessage(d)
	posts := make([]entity.Post, 0, len(c.channels))

	for _, ch := range c.channels {
		outcomes := ch.Publish(ctx, message, s)
		if len(outcomes) == 0 {
			outcomes = []entity.Outcome{{Channel: ch.Channel(), Status: entity.PostStatusSkipped}}
		}

		for _, outcome := range outcomes {
			payload := make(map[string]any, len(outcome.Payload)+1)
			maps.Copy(payload, outcome.Payload)
			payload["message"] = message

			post := entity.Post{
				DealID:     d.ID,
				Channel:    outcome.Channel,
				Status:     outcome.Status,
				ExternalID: outcome.ExternalID,
				Payload:    payload,
				CreatedAt:  c.now().UTC(),
			}

			if err := c.posts.Create(ctx, &post); err != nil {
				logger(ctx).Error("failed to record post",
					logx.FieldDealID, d.ID,
					logx.FieldChannel, post.Channel,
					logx.Error(err),
				)
			}

			if c.outcomes != nil {
				c.outcomes.WithLabelValues(string(post.Channel), string(post.Status)).Inc()
			}

			logger(ctx).Info("deal published",
				logx.FieldDealID, d.ID,
				logx.FieldChannel, post.Channel,
				logx.FieldStatus, post.Status,
			)

			posts = append(posts, post)
		}
	}

	return posts
}
