package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"smartdeals/internal/domain/entity"
	"smartdeals/internal/transport/bot/view"
	"smartdeals/internal/worker"
)

const pendingLimit = 10

var errUsage = errors.New("usage")

// Действия команд возвращают готовый текст ответа. Ошибки домена
// показываются оператору, а не пробрасываются в telego.

func (h *Handler) status(ctx context.Context) (string, error) {
	settings, err := h.settings.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("settings.Get: %w", err)
	}

	enabled := lo.FilterMap(h.scanner.Sources(), func(s worker.SourceState, _ int) (string, bool) {
		return s.Name, s.Enabled
	})

	return view.Status(h.scanner.IsRunning(), settings, enabled), nil
}

func (h *Handler) pending(ctx context.Context) ([]entity.Deal, error) {
	deals, err := h.deals.List(ctx, entity.DealFilter{
		Status: entity.DealStatusPendingApproval,
		Limit:  pendingLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("deals.List: %w", err)
	}

	return deals, nil
}

func (h *Handler) approve(ctx context.Context, id int64) string {
	return h.publish(ctx, id, h.deals.Approve)
}

func (h *Handler) forcePost(ctx context.Context, id int64) string {
	return h.publish(ctx, id, h.deals.ForcePost)
}

func (h *Handler) publish(
	ctx context.Context,
	id int64,
	action func(context.Context, int64, entity.Settings) (*entity.Deal, []entity.Post, error),
) string {
	settings, err := h.settings.Get(ctx)
	if err != nil {
		return view.Failed(err)
	}

	deal, posts, err := action(ctx, id, settings)
	if err != nil {
		return view.Failed(err)
	}

	return view.Published(*deal, posts)
}

func (h *Handler) reject(ctx context.Context, id int64) string {
	deal, err := h.deals.Reject(ctx, id)
	if err != nil {
		return view.Failed(err)
	}

	return view.Rejected(*deal)
}

func (h *Handler) scan(ctx context.Context) string {
	run, err := h.scanner.Tick(ctx)
	if err != nil {
		return view.Failed(err)
	}

	return view.ScanFinished(run)
}

func (h *Handler) startScan() string {
	if h.scanner.IsRunning() {
		return view.ScannerRunning
	}

	if err := h.scanner.Start(h.scanCtx); err != nil {
		return view.Failed(err)
	}

	return view.ScannerStarted
}

func (h *Handler) stopScan() string {
	if !h.scanner.IsRunning() {
		return view.ScannerNotRunning
	}

	h.scanner.Stop()

	return view.ScannerStopped
}

func (h *Handler) setMode(ctx context.Context, args []string) string {
	if len(args) != 1 {
		return view.UsageMode
	}

	settings, err := h.settings.SetMode(ctx, entity.Mode(strings.ToUpper(args[0])))
	if err != nil {
		return view.Failed(err)
	}

	return view.ModeChanged(settings.Mode)
}

func (h *Handler) setDiscount(ctx context.Context, args []string) string {
	if len(args) != 1 {
		return view.UsageSetDiscount
	}

	percent, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "%"), 64)
	if err != nil || percent < 0 || percent > 100 {
		return view.UsageSetDiscount
	}

	settings, err := h.settings.SetMinDiscount(ctx, percent)
	if err != nil {
		return view.Failed(err)
	}

	return view.DiscountChanged(settings.MinDiscountPercent)
}

func (h *Handler) setThreshold(ctx context.Context, args []string) string {
	if len(args) != 1 {
		return view.UsageSetThreshold
	}

	threshold, err := strconv.Atoi(args[0])
	if err != nil || threshold < 0 || threshold > 100 {
		return view.UsageSetThreshold
	}

	settings, err := h.settings.SetApprovalThreshold(ctx, threshold)
	if err != nil {
		return view.Failed(err)
	}

	return view.ThresholdChanged(settings.ApprovalThreshold)
}

// parseDealID разбирает единственный аргумент команды.
func parseDealID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errUsage
	}

	id, err := strconv.ParseInt(strings.TrimPrefix(args[0], "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid deal id %q", args[0])
	}

	return id, nil
}
