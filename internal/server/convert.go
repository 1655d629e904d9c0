package server

import (
	"github.com/samber/lo"

	"smartdeals/internal/domain/entity"
	"smartdeals/internal/worker"
	"smartdeals/pkg/rest"
)

func newRESTDeal(d entity.Deal) rest.Deal {
	return rest.Deal{
		ID:               d.ID,
		Source:           d.Source,
		ProductID:        d.ProductID,
		SimilarityKey:    d.SimilarityKey,
		Title:            d.Title,
		URL:              d.URL,
		CurrentPrice:     d.CurrentPrice,
		OldPrice:         d.OldPrice,
		Currency:         d.Currency,
		SellerName:       d.SellerName,
		SellerReputation: d.SellerReputation,
		IsOfficialStore:  d.IsOfficialStore,
		ShippingFree:     d.ShippingFree,
		SoldQuantity:     d.SoldQuantity,
		Condition:        d.Condition,
		Category:         d.Category,
		ImageURL:         d.ImageURL,
		Brand:            d.Brand,
		Model:            d.Model,
		Coupon:           d.Coupon,
		Metadata:         lo.Ternary(d.Metadata == nil, map[string]any{}, d.Metadata),
		Score:            d.Score,
		Reasons:          lo.Ternary(d.Reasons == nil, []string{}, d.Reasons),
		Verdict:          d.Verdict,
		DiscountPercent:  d.DiscountPercent,
		BelowAvgBonus:    d.BelowAvgBonus,
		Status:           d.Status.String(),
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
		ScoredAt:         d.ScoredAt,
		PostedAt:         d.PostedAt,
	}
}

func newRESTPost(p entity.Post) rest.Post {
	return rest.Post{
		ID:         p.ID,
		DealID:     p.DealID,
		Channel:    string(p.Channel),
		Status:     string(p.Status),
		ExternalID: p.ExternalID,
		Payload:    p.Payload,
		CreatedAt:  p.CreatedAt,
	}
}

func newRESTScanRun(run entity.ScanRun) rest.ScanRun {
	return rest.ScanRun{
		ID:         run.ID,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Status:     string(run.Status),
		Message:    run.Message,
		Stats:      rest.ScanStats(run.Stats),
	}
}

func newRESTSources(states []worker.SourceState) []rest.Source {
	return lo.Map(states, func(s worker.SourceState, _ int) rest.Source {
		return rest.Source{Name: s.Name, Enabled: s.Enabled}
	})
}
