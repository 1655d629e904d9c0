// Package rest holds the admin API wire types.
package rest

import "time"

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type Deal struct {
	ID               int64          `json:"id"`
	Source           string         `json:"source"`
	ProductID        string         `json:"product_id"`
	SimilarityKey    string         `json:"similarity_key"`
	Title            string         `json:"title"`
	URL              string         `json:"url"`
	CurrentPrice     float64        `json:"current_price"`
	OldPrice         *float64       `json:"old_price"`
	Currency         string         `json:"currency"`
	SellerName       string         `json:"seller_name"`
	SellerReputation string         `json:"seller_reputation"`
	IsOfficialStore  bool           `json:"is_official_store"`
	ShippingFree     bool           `json:"shipping_free"`
	SoldQuantity     int            `json:"sold_quantity"`
	Condition        string         `json:"condition"`
	Category         string         `json:"category"`
	ImageURL         string         `json:"image_url"`
	Brand            string         `json:"brand"`
	Model            string         `json:"model"`
	Coupon           string         `json:"coupon"`
	Metadata         map[string]any `json:"metadata"`
	Score            int            `json:"score"`
	Reasons          []string       `json:"reasons"`
	Verdict          string         `json:"verdict"`
	DiscountPercent  float64        `json:"discount_percent"`
	BelowAvgBonus    float64        `json:"below_avg_bonus"`
	Status           string         `json:"status"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	ScoredAt         *time.Time     `json:"scored_at"`
	PostedAt         *time.Time     `json:"posted_at"`
}

type Post struct {
	ID         int64          `json:"id"`
	DealID     int64          `json:"deal_id"`
	Channel    string         `json:"channel"`
	Status     string         `json:"status"`
	ExternalID string         `json:"external_id"`
	Payload    map[string]any `json:"payload"`
	CreatedAt  time.Time      `json:"created_at"`
}

// PublishResult is returned by approve and force post.
type PublishResult struct {
	Deal  Deal   `json:"deal"`
	Posts []Post `json:"posts"`
}

type ScanStats struct {
	Fetched        int `json:"fetched"`
	Filtered       int `json:"filtered"`
	Known          int `json:"known"`
	NearDuplicates int `json:"near_duplicates"`
	New            int `json:"new"`
	Scored         int `json:"scored"`
	Published      int `json:"published"`
	SourceErrors   int `json:"source_errors"`
}

type ScanRun struct {
	ID         int64      `json:"id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
	Status     string     `json:"status"`
	Message    string     `json:"message"`
	Stats      ScanStats  `json:"stats"`
}

type Source struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

type SourceToggleRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type SourceCheck struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Error string `json:"error,omitempty"`
}

type SourceCheckResponse struct {
	Sources []SourceCheck `json:"sources"`
}

// Error is the error body written by reply.Error.
type Error struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	SupportID string    `json:"supportId"`
}

type ErrorCode string
