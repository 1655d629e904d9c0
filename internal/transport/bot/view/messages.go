// Package view - тексты ответов админ-бота. Разметка HTML.
package view

import (
	"fmt"
	"html"
	"strings"

	"smartdeals/internal/domain/entity"
)

const (
	StartMessage = `<b>SmartDeals</b>

/status - scanner and settings
/pending - deals waiting for approval
/approve <code>ID</code> - approve and publish
/reject <code>ID</code> - reject
/post <code>ID</code> - publish again
/scan - run one scan now
/startscan, /stopscan - background scanning
/mode <code>MANUAL|AUTO</code>
/setdiscount <code>PERCENT</code>
/setthreshold <code>SCORE</code>`

	NoPendingDeals    = "No deals waiting for approval."
	ScannerStarted    = "Scanner started."
	ScannerStopped    = "Scanner stopped."
	ScannerRunning    = "Scanner is already running."
	ScannerNotRunning = "Scanner is not running."

	UsageApprove      = "Usage: /approve <code>ID</code>"
	UsageReject       = "Usage: /reject <code>ID</code>"
	UsagePost         = "Usage: /post <code>ID</code>"
	UsageMode         = "Usage: /mode <code>MANUAL|AUTO</code>"
	UsageSetDiscount  = "Usage: /setdiscount <code>PERCENT</code> (0-100)"
	UsageSetThreshold = "Usage: /setthreshold <code>SCORE</code> (0-100)"

	InvalidDealID = "Deal ID must be a positive integer."
)

// Status - сводка по сканеру и ключевым настройкам.
func Status(running bool, s entity.Settings, sources []string) string {
	scanner := "stopped"
	if running {
		scanner = "running"
	}

	return fmt.Sprintf(`<b>Status</b>

Scanner: %s
Sources: %s
Mode: %s
Approval threshold: %d
Min discount: %.1f%%
Daily post limit: %d`,
		scanner,
		html.EscapeString(strings.Join(sources, ", ")),
		s.Mode,
		s.ApprovalThreshold,
		s.MinDiscountPercent,
		s.DailyPostLimit,
	)
}

// DealCard - карточка сделки для очереди одобрения.
func DealCard(d entity.Deal) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "<b>#%d</b> %s\n", d.ID, html.EscapeString(d.Title))
	fmt.Fprintf(&sb, "Price: %s %.2f", d.Currency, d.CurrentPrice)

	if d.OldPrice != nil {
		fmt.Fprintf(&sb, " (was %.2f)", *d.OldPrice)
	}

	fmt.Fprintf(&sb, "\nScore: %d (%s)\n", d.Score, d.Verdict)

	if len(d.Reasons) > 0 {
		fmt.Fprintf(&sb, "Reasons: %s\n", html.EscapeString(strings.Join(d.Reasons, ", ")))
	}

	sb.WriteString(html.EscapeString(d.URL))

	return sb.String()
}

// Published - итог публикации по каналам.
func Published(d entity.Deal, posts []entity.Post) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Deal <b>#%d</b> is %s.", d.ID, d.Status)

	for _, p := range posts {
		fmt.Fprintf(&sb, "\n%s: %s", p.Channel, p.Status)

		if p.ExternalID != "" {
			fmt.Fprintf(&sb, " (%s)", html.EscapeString(p.ExternalID))
		}
	}

	return sb.String()
}

func Rejected(d entity.Deal) string {
	return fmt.Sprintf("Deal <b>#%d</b> rejected.", d.ID)
}

func ScanFinished(run entity.ScanRun) string {
	st := run.Stats

	return fmt.Sprintf(`Scan <b>#%d</b> %s
fetched %d, new %d, known %d, near duplicates %d
filtered %d, scored %d, published %d, source errors %d`,
		run.ID, run.Status,
		st.Fetched, st.New, st.Known, st.NearDuplicates,
		st.Filtered, st.Scored, st.Published, st.SourceErrors,
	)
}

func ModeChanged(mode entity.Mode) string {
	return fmt.Sprintf("Mode set to <b>%s</b>.", mode)
}

func DiscountChanged(percent float64) string {
	return fmt.Sprintf("Min discount set to <b>%.1f%%</b>.", percent)
}

func ThresholdChanged(threshold int) string {
	return fmt.Sprintf("Approval threshold set to <b>%d</b>.", threshold)
}

// Failed - ошибка, понятная оператору.
func Failed(err error) string {
	return "Error: " + html.EscapeString(err.Error())
}
