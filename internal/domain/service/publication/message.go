package publication

import (
	"strings"

	"smartdeals/internal/domain/entity"
	"smartdeals/internal/domain/value"
)

const (
	unknownSeller     = "unknown seller"
	unknownReputation = "unknown"
	noCoupon          = "no coupon"
	fallbackReason    = "Price monitored automatically."
)

// FormatMessage собирает текст сообщения, одинаковый для всех каналов.
func FormatMessage(d entity.Deal) string {
	// цена сделки всегда известна, ноль печатается как есть
	price := value.BRL(&d.CurrentPrice)
	if d.HasOldPrice() {
		price = value.BRL(d.OldPrice) + " ➜ " + price
	}

	reason := fallbackReason
	if len(d.Reasons) > 0 {
		reason = strings.TrimSuffix(d.Reasons[0], ".") + "."
	}

	lines := []string{
		"📊 Quick analysis",
		"🛒 " + d.Title,
		"💵 " + price,
		"🏪 " + orDefault(d.SellerName, unknownSeller) + " | reputation: " + orDefault(d.SellerReputation, unknownReputation),
		"🎟 Coupon: " + orDefault(d.Coupon, noCoupon),
		"🧠 Worth it? " + d.Verdict + ". " + reason,
		"🔗 " + d.URL,
	}

	return strings.Join(lines, "\n")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}

	return s
}
