package handler

import (
	th "github.com/mymmrac/telego/telegohandler"

	"smartdeals/internal/transport/bot/middleware"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, adminIDs []int64) {
	adminGroup := bh.Group(th.AnyMessage())
	adminGroup.Use(middleware.AdminOnly(adminIDs))

	adminGroup.HandleMessage(h.OnStart, th.CommandEqual("start"))
	adminGroup.HandleMessage(h.OnStatus, th.CommandEqual("status"))
	adminGroup.HandleMessage(h.OnPending, th.CommandEqual("pending"))
	adminGroup.HandleMessage(h.OnApprove, th.CommandEqual("approve"))
	adminGroup.HandleMessage(h.OnReject, th.CommandEqual("reject"))
	adminGroup.HandleMessage(h.OnPost, th.CommandEqual("post"))
	adminGroup.HandleMessage(h.OnScan, th.CommandEqual("scan"))
	adminGroup.HandleMessage(h.OnStartScan, th.CommandEqual("startscan"))
	adminGroup.HandleMessage(h.OnStopScan, th.CommandEqual("stopscan"))
	adminGroup.HandleMessage(h.OnMode, th.CommandEqual("mode"))
	adminGroup.HandleMessage(h.OnSetDiscount, th.CommandEqual("setdiscount"))
	adminGroup.HandleMessage(h.OnSetThreshold, th.CommandEqual("setthreshold"))

	cbGroup := bh.Group(th.AnyCallbackQuery())
	cbGroup.Use(middleware.AdminOnly(adminIDs))

	cbGroup.HandleCallbackQuery(h.OnDealCallback, th.CallbackDataPrefix(DealCallbackPrefix))
}
