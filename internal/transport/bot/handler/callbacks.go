package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"smartdeals/pkg/logx"
)

const (
	DealCallbackPrefix = "deal:"

	actionApprove = "approve"
	actionReject  = "reject"
)

func dealKeyboard(id int64) *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("Approve").WithCallbackData(dealCallbackData(actionApprove, id)),
			tu.InlineKeyboardButton("Reject").WithCallbackData(dealCallbackData(actionReject, id)),
		),
	)
}

// Формат: "deal:<action>:<id>".
func dealCallbackData(action string, id int64) string {
	return DealCallbackPrefix + action + ":" + strconv.FormatInt(id, 10)
}

func parseDealCallback(data string) (string, int64, error) {
	action, rawID, ok := strings.Cut(strings.TrimPrefix(data, DealCallbackPrefix), ":")
	if !ok || (action != actionApprove && action != actionReject) {
		return "", 0, fmt.Errorf("unknown callback %q", data)
	}

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return "", 0, fmt.Errorf("invalid deal id in callback %q", data)
	}

	return action, id, nil
}

// OnDealCallback обрабатывает кнопки под карточкой: результат дописывается
// в карточку, кнопки убираются.
func (h *Handler) OnDealCallback(ctx *th.Context, query telego.CallbackQuery) error {
	action, id, err := parseDealCallback(query.Data)
	if err != nil {
		logger(ctx).Warn("bot callback rejected", logx.Error(err))
		return ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID).WithText("Unknown action")) //nolint:wrapcheck
	}

	var result string

	switch action {
	case actionApprove:
		result = h.approve(ctx, id)
	default:
		result = h.reject(ctx, id)
	}

	if query.Message != nil {
		_, err = ctx.Bot().SendMessage(ctx, tu.Message(tu.ID(query.Message.GetChat().ID), result).
			WithParseMode(telego.ModeHTML).
			WithReplyParameters(&telego.ReplyParameters{MessageID: query.Message.GetMessageID()}))
		if err != nil {
			logger(ctx).Warn("bot callback reply", logx.FieldDealID, id, logx.Error(err))
		}

		_, err = ctx.Bot().EditMessageReplyMarkup(ctx, &telego.EditMessageReplyMarkupParams{
			ChatID:    tu.ID(query.Message.GetChat().ID),
			MessageID: query.Message.GetMessageID(),
		})
		// Telegram отвечает ошибкой, если разметка уже снята.
		if err != nil {
			logger(ctx).Debug("bot callback keyboard", logx.FieldDealID, id, logx.Error(err))
		}
	}

	return ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID)) //nolint:wrapcheck
}
