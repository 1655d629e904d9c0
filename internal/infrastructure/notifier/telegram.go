// Package notifier - издатели сообщений о сделках: Telegram и WhatsApp.
package notifier

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"smartdeals/internal/domain/entity"
	"smartdeals/pkg/httpx"
	"smartdeals/pkg/logx"
)

const (
	DefaultPublishTimeout = 20 * time.Second

	reasonTelegramNotConfigured = "telegram_not_configured"
)

type TelegramOption func(*Telegram)

// WithTelegramAPIServer переопределяет адрес Bot API.
func WithTelegramAPIServer(url string) TelegramOption {
	return func(t *Telegram) {
		t.apiServer = url
	}
}

// Telegram публикует сообщение в чат из настроек. Токен и чат берутся из
// документа настроек при каждом вызове, клиенты кешируются по токену.
type Telegram struct {
	timeout   time.Duration
	apiServer string

	mu   sync.Mutex
	bots map[string]*telego.Bot
}

func NewTelegram(timeout time.Duration, opts ...TelegramOption) *Telegram {
	t := &Telegram{
		timeout: timeout,
		bots:    make(map[string]*telego.Bot),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

func (t *Telegram) Channel() entity.Channel {
	return entity.ChannelTelegram
}

func (t *Telegram) Publish(ctx context.Context, message string, s entity.Settings) []entity.Outcome {
	cfg := s.Telegram
	if !cfg.Configured() {
		return []entity.Outcome{t.outcome(entity.PostStatusSkipped, reasonTelegramNotConfigured)}
	}

	bot, err := t.bot(cfg.BotToken)
	if err != nil {
		logger(ctx).Warn("telegram bot init failed", logx.FieldChannel, entity.ChannelTelegram, logx.Error(err))
		return []entity.Outcome{t.outcome(entity.PostStatusFailed, err.Error())}
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	sent, err := bot.SendMessage(ctx, tu.Message(chatID(cfg.ChatID), message))
	if err != nil {
		logger(ctx).Warn("telegram send failed", logx.FieldChannel, entity.ChannelTelegram, logx.Error(err))
		return []entity.Outcome{t.outcome(entity.PostStatusFailed, err.Error())}
	}

	return []entity.Outcome{t.outcome(entity.PostStatusPosted, strconv.Itoa(sent.MessageID))}
}

func (t *Telegram) outcome(status entity.PostStatus, externalID string) entity.Outcome {
	return entity.Outcome{
		Channel:    entity.ChannelTelegram,
		Status:     status,
		ExternalID: externalID,
	}
}

func (t *Telegram) bot(token string) (*telego.Bot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if bot, ok := t.bots[token]; ok {
		return bot, nil
	}

	opts := []telego.BotOption{
		telego.WithHTTPClient(httpx.NewClient(t.timeout, nil)),
		telego.WithDiscardLogger(),
	}
	if t.apiServer != "" {
		opts = append(opts, telego.WithAPIServer(t.apiServer))
	}

	bot, err := telego.NewBot(token, opts...)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	t.bots[token] = bot

	return bot, nil
}

// chatID принимает и числовой id, и @username канала.
func chatID(raw string) telego.ChatID {
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return tu.ID(id)
	}

	return tu.Username(raw)
}
