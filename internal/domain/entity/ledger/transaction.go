package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction is the side of an executed order.
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

func (d Direction) IsValid() bool {
	return d == DirectionBuy || d == DirectionSell
}

// Inverse returns the opposite side. Undoing a buy is a sell at the same
// price and quantity, and vice versa.
func (d Direction) Inverse() Direction {
	if d == DirectionBuy {
		return DirectionSell
	}
	return DirectionBuy
}

// Transaction is one append-only row of the trade ledger. Rows are never
// updated or deleted: reversing an order appends a new inverse row, so the
// audit history stays complete.
type Transaction struct {
	ID         uuid.UUID       `json:"id"`
	UserID     int64           `json:"user_id"`
	StockID    int64           `json:"stock_id"`
	Quantity   int64           `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Direction  Direction       `json:"direction"`
	ExecutedAt time.Time       `json:"executed_at"`
}
