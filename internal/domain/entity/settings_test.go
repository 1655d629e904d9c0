package entity_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"smartdeals/internal/domain/entity"
)

func TestSettingsInPriceRange(t *testing.T) {
	rq := require.New(t)

	settings := entity.DefaultSettings()
	settings.PriceMin = 10
	settings.PriceMax = 15000

	testCases := []struct {
		name  string
		price float64
		want  bool
	}{
		{name: "Lower bound", price: 10, want: true},
		{name: "Upper bound", price: 15000, want: true},
		{name: "Inside", price: 199.9, want: true},
		{name: "One below lower bound", price: 9, want: false},
		{name: "One above upper bound", price: 15001, want: false},
		{name: "Unknown price", price: 0, want: true},
		{name: "Negative price", price: -5, want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			rq.Equal(tc.want, settings.InPriceRange(tc.price))
		})
	}
}
