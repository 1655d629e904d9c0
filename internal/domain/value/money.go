package value

import (
	"strings"

	"github.com/shopspring/decimal"
)

const notAvailable = "N/A"

// Round2 округляет цену или процент до двух знаков (half away from zero).
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// DiscountPercent - скидка старой цены относительно текущей. Если одна из цен
// не положительна, скидки нет.
func DiscountPercent(current, old float64) float64 {
	if current <= 0 || old <= 0 {
		return 0
	}

	c := decimal.NewFromFloat(current)
	o := decimal.NewFromFloat(old)

	return o.Sub(c).Div(o).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
}

// BRL форматирует цену как "R$ 1.234,56"; nil превращается в "N/A".
func BRL(v *float64) string {
	if v == nil {
		return notAvailable
	}

	fixed := decimal.NewFromFloat(*v).StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var sb strings.Builder

	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte('.')
		}

		sb.WriteRune(r)
	}

	return "R$ " + sign + sb.String() + "," + fracPart
}
