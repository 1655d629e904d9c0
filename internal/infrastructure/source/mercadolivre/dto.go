package mercadolivre

import (
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"

	"smartdeals/internal/domain/entity"
	"smartdeals/internal/domain/value"
)

type searchResponse struct {
	Results []jsoniter.RawMessage `json:"results"`
}

type item struct {
	ID               string   `json:"id"`
	CatalogProductID string   `json:"catalog_product_id"`
	Title            string   `json:"title"`
	Permalink        string   `json:"permalink"`
	Price            *float64 `json:"price"`
	OriginalPrice    *float64 `json:"original_price"`
	CurrencyID       string   `json:"currency_id"`
	Seller           struct {
		Nickname   string `json:"nickname"`
		Reputation struct {
			LevelID string `json:"level_id"`
		} `json:"seller_reputation"`
	} `json:"seller"`
	OfficialStoreID *int64 `json:"official_store_id"`
	Shipping        struct {
		FreeShipping bool `json:"free_shipping"`
	} `json:"shipping"`
	SoldQuantity int         `json:"sold_quantity"`
	Condition    string      `json:"condition"`
	CategoryID   string      `json:"category_id"`
	Thumbnail    string      `json:"thumbnail"`
	Attributes   []attribute `json:"attributes"`
}

type attribute struct {
	ID        string `json:"id"`
	ValueName string `json:"value_name"`
}

// productID - id объявления, для карточек каталога catalog_product_id,
// в крайнем случае ссылка.
func (it item) productID() string {
	return lo.CoalesceOrEmpty(it.ID, it.CatalogProductID, it.Permalink)
}

func (it item) toCandidate(raw map[string]any) entity.Candidate {
	c := entity.Candidate{
		Source:           Name,
		ProductID:        it.productID(),
		Title:            it.Title,
		URL:              it.Permalink,
		Currency:         currencyBRL,
		SellerName:       it.Seller.Nickname,
		SellerReputation: it.Seller.Reputation.LevelID,
		IsOfficialStore:  it.OfficialStoreID != nil && *it.OfficialStoreID > 0,
		ShippingFree:     it.Shipping.FreeShipping,
		SoldQuantity:     it.SoldQuantity,
		Condition:        it.Condition,
		Category:         it.CategoryID,
		ImageURL:         it.Thumbnail,
		Brand:            it.attr("BRAND"),
		Model:            it.attr("MODEL"),
		Metadata:         map[string]any{"raw": raw},
	}

	if it.CurrencyID != "" {
		c.Currency = it.CurrencyID
	}

	if c.Condition == "" {
		c.Condition = "new"
	}

	if c.Brand == "" && len(it.Attributes) > 0 {
		c.Brand = it.Attributes[0].ValueName
	}

	if it.Price != nil {
		c.CurrentPrice = value.Round2(*it.Price)
	}

	if it.OriginalPrice != nil && *it.OriginalPrice > 0 {
		old := value.Round2(*it.OriginalPrice)
		c.OldPrice = &old
	}

	return c
}

func (it item) attr(id string) string {
	for _, a := range it.Attributes {
		if strings.EqualFold(a.ID, id) {
			return a.ValueName
		}
	}

	return ""
}
