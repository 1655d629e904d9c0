package publication_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"smartdeals/internal/domain/entity"
	"smartdeals/internal/domain/service/publication"
)

type stubChannel struct {
	channel  entity.Channel
	outcomes []entity.Outcome
	messages []string
}

func (c *stubChannel) Channel() entity.Channel {
	return c.channel
}

func (c *stubChannel) Publish(_ context.Context, message string, _ entity.Settings) []entity.Outcome {
	c.messages = append(c.messages, message)
	return c.outcomes
}

type memPosts struct {
	posts []entity.Post
	err   error
}

func (r *memPosts) Create(_ context.Context, p *entity.Post) error {
	if r.err != nil {
		return r.err
	}

	p.ID = int64(len(r.posts) + 1)
	r.posts = append(r.posts, *p)

	return nil
}

func TestCoordinatorPublish(t *testing.T) {
	rq := require.New(t)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	telegram := &stubChannel{
		channel:  entity.ChannelTelegram,
		outcomes: []entity.Outcome{{Channel: entity.ChannelTelegram, Status: entity.PostStatusSkipped}},
	}
	whatsapp := &stubChannel{
		channel: entity.ChannelWhatsApp,
		outcomes: []entity.Outcome{
			{Channel: entity.ChannelWhatsApp, Status: entity.PostStatusPosted, ExternalID: "wamid.1"},
			{Channel: entity.ChannelWhatsApp, Status: entity.PostStatusFailed},
		},
	}
	silent := &stubChannel{channel: entity.ChannelWhatsApp}

	repo := &memPosts{}
	reg := prometheus.NewRegistry()

	coordinator := publication.NewCoordinator(repo, telegram, whatsapp, silent).
		WithClock(func() time.Time { return now }).
		WithMetrics(reg)

	d := entity.Deal{ID: 9, Candidate: entity.Candidate{Title: "RTX 5060"}, Verdict: entity.VerdictWorthIt}

	posts := coordinator.Publish(context.Background(), d, entity.DefaultSettings())

	rq.Len(posts, 4)
	rq.Len(repo.posts, 4)

	rq.Equal(entity.PostStatusSkipped, posts[0].Status)
	rq.Equal("wamid.1", posts[1].ExternalID)
	rq.Equal(entity.PostStatusFailed, posts[2].Status)
	rq.Equal(entity.PostStatusSkipped, posts[3].Status)

	for _, p := range repo.posts {
		rq.Equal(int64(9), p.DealID)
		rq.Equal(now, p.CreatedAt)
	}

	rq.Len(telegram.messages, 1)
	rq.True(strings.HasPrefix(telegram.messages[0], "📊 Quick analysis"))
	rq.Equal(telegram.messages, whatsapp.messages)

	series, err := testutil.GatherAndCount(reg, "smartdeals_publish_outcomes_total")
	rq.NoError(err)
	rq.Equal(4, series)
}

func TestCoordinatorPublishIgnoresAuditErrors(t *testing.T) {
	rq := require.New(t)

	telegram := &stubChannel{
		channel:  entity.ChannelTelegram,
		outcomes: []entity.Outcome{{Channel: entity.ChannelTelegram, Status: entity.PostStatusPosted}},
	}

	posts := publication.NewCoordinator(&memPosts{err: errors.New("db down")}, telegram).
		Publish(context.Background(), entity.Deal{ID: 1}, entity.DefaultSettings())

	rq.Len(posts, 1)
	rq.Equal(entity.PostStatusPosted, posts[0].Status)
}

func TestCoordinatorPublishKeepsMessageInPayload(t *testing.T) {
	rq := require.New(t)

	whatsapp := &stubChannel{
		channel: entity.ChannelWhatsApp,
		outcomes: []entity.Outcome{{
			Channel: entity.ChannelWhatsApp,
			Status:  entity.PostStatusDraft,
			Payload: map[string]any{"link": "https://wa.me/?text=hi"},
		}},
	}

	posts := publication.NewCoordinator(&memPosts{}, whatsapp).
		Publish(context.Background(), entity.Deal{ID: 3}, entity.DefaultSettings())

	rq.Len(posts, 1)
	rq.Equal("https://wa.me/?text=hi", posts[0].Payload["link"])
	rq.Equal(whatsapp.messages[0], posts[0].Payload["message"])
}
