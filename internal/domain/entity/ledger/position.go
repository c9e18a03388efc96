package ledger

import "time"

// Position is a user's holding of one stock, keyed by (UserID, StockID).
// Quantity is always > 0 in storage: a position that reaches zero is deleted,
// and an absent row means zero holdings.
type Position struct {
	UserID    int64     `json:"user_id"`
	StockID   int64     `json:"stock_id"`
	Quantity  int64     `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}
