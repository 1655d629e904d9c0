package scoring

import (
	"fmt"
	"strings"

	"smartdeals/internal/domain/entity"
	"smartdeals/internal/domain/value"
)

const (
	baseline        = 50
	minScore        = 0
	maxScore        = 100
	verdictCutoff   = 70
	soldQtyHigh     = 100
	suspiciousRatio = 0.4
	belowAvgPercent = 15
	belowAvgBonus   = 15
)

// facts - всё, что правила читают из сделки, посчитано один раз.
type facts struct {
	title        string
	condition    string
	reputation   string
	official     bool
	shippingFree bool
	soldQuantity int
	current      float64
	old          float64
	discount     float64
	avg30d       *float64

	minDiscount  float64
	blockedWords []string
	positive     []string
	negative     []string
}

func newFacts(c entity.Candidate, s entity.Settings, avg30d *float64) facts {
	condition := strings.ToLower(strings.TrimSpace(c.Condition))
	if condition == "" {
		condition = "new"
	}

	var old float64
	if c.OldPrice != nil {
		old = *c.OldPrice
	}

	return facts{
		title:        strings.ToLower(c.Title),
		condition:    condition,
		reputation:   strings.ToLower(c.SellerReputation),
		official:     c.IsOfficialStore,
		shippingFree: c.ShippingFree,
		soldQuantity: c.SoldQuantity,
		current:      c.CurrentPrice,
		old:          old,
		discount:     value.DiscountPercent(c.CurrentPrice, old),
		avg30d:       avg30d,
		minDiscount:  s.MinDiscountPercent,
		blockedWords: s.BlockedWords,
		positive:     s.ReputationPositive,
		negative:     s.ReputationNegative,
	}
}

// containsAny - регистронезависимый поиск подстроки; пустые токены
// игнорируются.
func containsAny(haystack string, tokens []string) bool {
	for _, t := range tokens {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" && strings.Contains(haystack, t) {
			return true
		}
	}

	return false
}

// rule - именованный предикат с весом. Порядок в таблице задаёт порядок
// причин в результате.
type rule struct {
	name    string
	weight  int
	applies func(f facts) bool
	reason  func(f facts) string
}

func fixed(s string) func(facts) string {
	return func(facts) string { return s }
}

func belowAverage(f facts) bool {
	if f.avg30d == nil || *f.avg30d <= 0 || f.current <= 0 {
		return false
	}

	return (*f.avg30d-f.current) / *f.avg30d * 100 >= belowAvgPercent
}

var rules = []rule{ //nolint:gochecknoglobals
	{
		name:    "official_store",
		weight:  30,
		applies: func(f facts) bool { return f.official },
		reason:  fixed("Official store"),
	},
	{
		name:    "reputation_positive",
		weight:  20,
		applies: func(f facts) bool { return containsAny(f.reputation, f.positive) },
		reason:  fixed("High seller reputation"),
	},
	{
		name:    "sold_quantity",
		weight:  10,
		applies: func(f facts) bool { return f.soldQuantity >= soldQtyHigh },
		reason:  fixed("High sold quantity"),
	},
	{
		name:    "discount",
		weight:  20,
		applies: func(f facts) bool { return f.discount >= f.minDiscount },
		reason:  func(f facts) string { return fmt.Sprintf("Discount >= %.0f%%", f.minDiscount) },
	},
	{
		name:    "free_shipping",
		weight:  10,
		applies: func(f facts) bool { return f.shippingFree },
		reason:  fixed("Free shipping"),
	},
	{
		name:    "blocked_word",
		weight:  -50,
		applies: func(f facts) bool { return containsAny(f.title, f.blockedWords) },
		reason:  fixed("Contains blocked word"),
	},
	{
		name:    "not_new",
		weight:  -40,
		applies: func(f facts) bool { return f.condition != "new" },
		reason:  fixed("Product is not new"),
	},
	{
		name:    "reputation_negative",
		weight:  -30,
		applies: func(f facts) bool { return containsAny(f.reputation, f.negative) },
		reason:  fixed("Low seller reputation"),
	},
	{
		name:   "suspicious_drop",
		weight: -20,
		applies: func(f facts) bool {
			return f.current > 0 && f.old > 0 &&
				f.current <= f.old*suspiciousRatio &&
				containsAny(f.reputation, f.negative)
		},
		reason: fixed("Suspicious price drop"),
	},
	{
		name:    "below_average",
		weight:  belowAvgBonus,
		applies: belowAverage,
		reason:  fixed("Price well below the 30-day average"),
	},
}
