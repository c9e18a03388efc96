package stocks

import (
	"fmt"
	"sort"

	domain "github.com/AnasAnwaar/StockExchange-DP/internal/domain/entity/ledger"
)

// SortOrder selects the listing strategy for the stock catalog.
type SortOrder string

const (
	SortBySymbol          SortOrder = "symbol"
	SortByPriceAscending  SortOrder = "price_asc"
	SortByPriceDescending SortOrder = "price_desc"
)

func NewSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case "", SortBySymbol:
		return SortBySymbol, nil
	case SortByPriceAscending:
		return SortByPriceAscending, nil
	case SortByPriceDescending:
		return SortByPriceDescending, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s", s)
	}
}

// Sort orders stocks in place. Equal prices fall back to symbol order so
// listings stay deterministic.
func Sort(stocks []domain.Stock, order SortOrder) {
	sort.SliceStable(stocks, func(i, j int) bool {
		switch order {
		case SortByPriceAscending:
			if !stocks[i].CurrentPrice.Equal(stocks[j].CurrentPrice) {
				return stocks[i].CurrentPrice.LessThan(stocks[j].CurrentPrice)
			}
		case SortByPriceDescending:
			if !stocks[i].CurrentPrice.Equal(stocks[j].CurrentPrice) {
				return stocks[i].CurrentPrice.GreaterThan(stocks[j].CurrentPrice)
			}
		}
		return stocks[i].Symbol < stocks[j].Symbol
	})
}
