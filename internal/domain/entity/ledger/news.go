package ledger

import "time"

// MarketNews is a published news item shown alongside the stock listing.
type MarketNews struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	PublishedAt time.Time `json:"published_at"`
}
