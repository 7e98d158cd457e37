package models

import "time"

// Domain types: royalties, payouts, analytics

type RoyaltySplit struct {
	ID             string    `json:"id"`
	ReleaseID      string    `json:"release_id"`
	RecipientName  string    `json:"recipient_name"`
	RecipientEmail string    `json:"recipient_email"`
	SharePercent   float64   `json:"share_percent"`
	CreatedAt      time.Time `json:"created_at"`
}

type Payout struct {
	ID          string     `json:"id"`
	ArtistID    string     `json:"artist_id"`
	AmountCents int64      `json:"amount_cents"`
	Currency    string     `json:"currency"`
	Status      string     `json:"status"`
	PeriodStart time.Time  `json:"period_start"`
	PeriodEnd   time.Time  `json:"period_end"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type ReleaseAnalyticsRow struct {
	ReleaseID    string `json:"release_id"`
	Date         string `json:"date"` // YYYY-MM-DD
	Platform     string `json:"platform"`
	Streams      int64  `json:"streams"`
	Downloads    int64  `json:"downloads"`
	RevenueCents int64  `json:"revenue_cents"`
}

type BookAnalyticsRow struct {
	BookID       string `json:"book_id"`
	Date         string `json:"date"` // YYYY-MM-DD
	Store        string `json:"store"`
	Sales        int64  `json:"sales"`
	PagesRead    int64  `json:"pages_read"`
	RevenueCents int64  `json:"revenue_cents"`
}

// Request types

type UpsertSplitRequest struct {
	RecipientName  string  `json:"recipient_name"`
	RecipientEmail string  `json:"recipient_email"`
	SharePercent   float64 `json:"share_percent"`
}

type UpsertPayoutRequest struct {
	ArtistID    string    `json:"artist_id"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
}

type UpdatePayoutStatusRequest struct {
	Status string `json:"status"`
}

type IngestReleaseAnalyticsRequest struct {
	Rows []ReleaseAnalyticsRow `json:"rows"`
}

type IngestBookAnalyticsRequest struct {
	Rows []BookAnalyticsRow `json:"rows"`
}

// Response types

type SplitSummary struct {
	ReleaseID  string  `json:"release_id"`
	Allocated  float64 `json:"allocated_percent"`
	Remainder  float64 `json:"remainder_percent"`
	SplitCount int     `json:"split_count"`
}

type PayoutStatusTotal struct {
	Status      string `json:"status"`
	Count       int    `json:"count"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"` // humanized, e.g. "1,234.56 USD"
}

type PayoutSummary struct {
	Totals     []PayoutStatusTotal `json:"totals"`
	GrandCents int64               `json:"grand_total_cents"`
	GrandTotal string              `json:"grand_total"`
}

type PlatformAggregate struct {
	Platform     string `json:"platform"`
	Streams      int64  `json:"streams"`
	Downloads    int64  `json:"downloads"`
	RevenueCents int64  `json:"revenue_cents"`
}

type ReleaseAnalyticsResponse struct {
	ReleaseID string              `json:"release_id"`
	From      string              `json:"from,omitempty"`
	To        string              `json:"to,omitempty"`
	Platforms []PlatformAggregate `json:"platforms"`
}

type AnalyticsOverview struct {
	TotalStreams      int64  `json:"total_streams"`
	TotalDownloads    int64  `json:"total_downloads"`
	TotalBookSales    int64  `json:"total_book_sales"`
	TotalRevenueCents int64  `json:"total_revenue_cents"`
	TotalRevenue      string `json:"total_revenue"`
	Streams           string `json:"streams"` // humanized
	CachedAt          string `json:"cached_at"`
}
