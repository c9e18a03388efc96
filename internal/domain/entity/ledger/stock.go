package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type StockKind string

const (
	KindEquity StockKind = "equity"
	KindBond   StockKind = "bond"
	KindEtf    StockKind = "etf"
)

func (k StockKind) String() string {
	return string(k)
}

func (k StockKind) IsValid() bool {
	switch k {
	case KindEquity, KindBond, KindEtf:
		return true
	default:
		return false
	}
}

func NewStockKind(s string) (StockKind, error) {
	k := StockKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid stock kind: %s", s)
	}
	return k, nil
}

// Stock corresponds to one row of the `stocks` table. CurrentPrice is the
// last executed order price; only the price board mutates it after creation.
type Stock struct {
	ID           int64           `json:"id"`
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	Kind         StockKind       `json:"kind"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewStock builds a catalog entry of the given kind. Bond and ETF display
// names carry a kind suffix so mixed listings stay readable.
func NewStock(kind StockKind, name, symbol string, price decimal.Decimal) (*Stock, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("invalid stock kind: %s", kind)
	}
	if name == "" || symbol == "" {
		return nil, fmt.Errorf("%w: name and symbol are required", ErrInvalidArgument)
	}
	if !price.IsPositive() {
		return nil, fmt.Errorf("%w: price must be positive", ErrInvalidArgument)
	}
	switch kind {
	case KindBond:
		name += " Bond"
	case KindEtf:
		name += " ETF"
	}
	return &Stock{
		Symbol:       symbol,
		Name:         name,
		Kind:         kind,
		CurrentPrice: price,
	}, nil
}
