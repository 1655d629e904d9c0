package handler

import (
	"errors"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"smartdeals/internal/transport/bot/view"
	"smartdeals/pkg/logx"
)

func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.StartMessage)
}

func (h *Handler) OnStatus(ctx *th.Context, msg telego.Message) error {
	text, err := h.status(ctx)
	if err != nil {
		logger(ctx).Error("bot status", logx.Error(err))
		text = view.Failed(err)
	}

	return h.sendHTML(ctx, msg.Chat.ID, text)
}

// OnPending присылает по карточке на сделку с кнопками одобрения.
func (h *Handler) OnPending(ctx *th.Context, msg telego.Message) error {
	deals, err := h.pending(ctx)
	if err != nil {
		logger(ctx).Error("bot pending", logx.Error(err))
		return h.sendHTML(ctx, msg.Chat.ID, view.Failed(err))
	}

	if len(deals) == 0 {
		return h.sendHTML(ctx, msg.Chat.ID, view.NoPendingDeals)
	}

	for _, d := range deals {
		_, err = ctx.Bot().SendMessage(ctx, tu.Message(tu.ID(msg.Chat.ID), view.DealCard(d)).
			WithParseMode(telego.ModeHTML).
			WithReplyMarkup(dealKeyboard(d.ID)))
		if err != nil {
			return err //nolint:wrapcheck
		}
	}

	return nil
}

func (h *Handler) OnApprove(ctx *th.Context, msg telego.Message) error {
	return h.withDealID(ctx, msg, view.UsageApprove, func(id int64) string {
		return h.approve(ctx, id)
	})
}

func (h *Handler) OnReject(ctx *th.Context, msg telego.Message) error {
	return h.withDealID(ctx, msg, view.UsageReject, func(id int64) string {
		return h.reject(ctx, id)
	})
}

func (h *Handler) OnPost(ctx *th.Context, msg telego.Message) error {
	return h.withDealID(ctx, msg, view.UsagePost, func(id int64) string {
		return h.forcePost(ctx, id)
	})
}

func (h *Handler) OnScan(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, h.scan(ctx))
}

func (h *Handler) OnStartScan(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, h.startScan())
}

func (h *Handler) OnStopScan(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, h.stopScan())
}

func (h *Handler) OnMode(ctx *th.Context, msg telego.Message) error {
	_, _, args := tu.ParseCommand(msg.Text)
	return h.sendHTML(ctx, msg.Chat.ID, h.setMode(ctx, args))
}

func (h *Handler) OnSetDiscount(ctx *th.Context, msg telego.Message) error {
	_, _, args := tu.ParseCommand(msg.Text)
	return h.sendHTML(ctx, msg.Chat.ID, h.setDiscount(ctx, args))
}

func (h *Handler) OnSetThreshold(ctx *th.Context, msg telego.Message) error {
	_, _, args := tu.ParseCommand(msg.Text)
	return h.sendHTML(ctx, msg.Chat.ID, h.setThreshold(ctx, args))
}

func (h *Handler) withDealID(ctx *th.Context, msg telego.Message, usage string, action func(id int64) string) error {
	_, _, args := tu.ParseCommand(msg.Text)

	id, err := parseDealID(args)
	switch {
	case errors.Is(err, errUsage):
		return h.sendHTML(ctx, msg.Chat.ID, usage)
	case err != nil:
		return h.sendHTML(ctx, msg.Chat.ID, view.InvalidDealID)
	}

	return h.sendHTML(ctx, msg.Chat.ID, action(id))
}

// Вспомогательные методы

func (h *Handler) sendHTML(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, tu.Message(tu.ID(chatID), text).WithParseMode(telego.ModeHTML))
	return err //nolint:wrapcheck
}
