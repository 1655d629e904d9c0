// Package bot - админ-бот Telegram: очередь одобрения и управление сканером.
package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"smartdeals/internal/config"
	"smartdeals/internal/transport/bot/handler"
	"smartdeals/pkg/logx"
)

const pollTimeoutSeconds = 60

type Bot struct {
	bot      *telego.Bot
	adminIDs []int64
	handler  *handler.Handler
}

// New создаёт бота. Обработчик собирается снаружи: ему нужен контекст
// приложения для фонового сканера.
func New(cfg config.Bot, h *handler.Handler, client *http.Client) (*Bot, error) {
	bot, err := telego.NewBot(cfg.Token, telego.WithHTTPClient(client), telego.WithDiscardLogger())
	if err != nil {
		return nil, fmt.Errorf("telego.NewBot: %w", err)
	}

	return &Bot{
		bot:      bot,
		adminIDs: cfg.AdminID,
		handler:  h,
	}, nil
}

// Run слушает обновления long polling до отмены ctx.
func (b *Bot) Run(ctx context.Context) error {
	updates, err := b.bot.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout: pollTimeoutSeconds,
	})
	if err != nil {
		return fmt.Errorf("bot.UpdatesViaLongPolling: %w", err)
	}

	botHandler, err := th.NewBotHandler(b.bot, updates)
	if err != nil {
		return fmt.Errorf("th.NewBotHandler: %w", err)
	}

	b.handler.RegisterRoutes(botHandler, b.adminIDs)

	logger(ctx).Info("bot started", "admins", len(b.adminIDs))

	errCh := make(chan error, 1)

	go func() {
		errCh <- botHandler.Start()
	}()

	select {
	case <-ctx.Done():
	case err = <-errCh:
		if err != nil {
			return fmt.Errorf("botHandler.Start: %w", err)
		}
	}

	if err = botHandler.Stop(); err != nil && !errors.Is(err, context.Canceled) {
		logger(ctx).Warn("bot handler stop", logx.Error(err))
	}

	logger(ctx).Info("bot stopped")

	return nil
}
