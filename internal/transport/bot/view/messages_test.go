package view_test

import (
	"errors"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"smartdeals/internal/domain/entity"
	"smartdeals/internal/transport/bot/view"
)

func TestDealCard(t *testing.T) {
	rq := require.New(t)

	d := entity.Deal{
		ID: 5,
		Candidate: entity.Candidate{
			Title:        "Tênis <New> Balance",
			URL:          "https://example.com/p?a=1&b=2",
			CurrentPrice: 299.9,
			OldPrice:     lo.ToPtr(499.9),
			Currency:     "BRL",
		},
		Score:   82,
		Verdict: entity.VerdictWorthIt,
		Reasons: []string{"discount 40%"},
	}

	card := view.DealCard(d)

	rq.Contains(card, "<b>#5</b> Tênis &lt;New&gt; Balance")
	rq.Contains(card, "Price: BRL 299.90 (was 499.90)")
	rq.Contains(card, "Score: 82 ("+entity.VerdictWorthIt+")")
	rq.Contains(card, "Reasons: discount 40%")
	rq.Contains(card, "https://example.com/p?a=1&amp;b=2")
}

func TestFailedEscapes(t *testing.T) {
	require.Equal(t, "Error: a &lt; b", view.Failed(errors.New("a < b")))
}
