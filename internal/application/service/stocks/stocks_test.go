package stocks

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/AnasAnwaar/StockExchange-DP/internal/application/service/market"
	domain "github.com/AnasAnwaar/StockExchange-DP/internal/domain/entity/ledger"
	"github.com/AnasAnwaar/StockExchange-DP/internal/infrastructure/ledger/memory"
)

func TestCreateAppliesKindNaming(t *testing.T) {
	testCases := []struct {
		kind     domain.StockKind
		name     string
		wantName string
	}{
		{domain.KindEquity, "Apple", "Apple"},
		{domain.KindBond, "US Treasury 10Y", "US Treasury 10Y Bond"},
		{domain.KindEtf, "S&P 500", "S&P 500 ETF"},
	}

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	board := market.NewBoard(logger)
	svc := NewService(memory.NewStore(), board)

	for _, tc := range testCases {
		t.Run(string(tc.kind), func(t *testing.T) {
			stock, err := svc.Create(context.Background(), tc.kind, tc.name, tc.name, decimal.NewFromInt(10))
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			if stock.Name != tc.wantName {
				t.Errorf("name = %q, want %q", stock.Name, tc.wantName)
			}
			if _, ok := board.Quote(stock.ID); !ok {
				t.Error("created stock not tracked by the board")
			}
		})
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc := NewService(memory.NewStore(), nil)

	if _, err := svc.Create(context.Background(), domain.StockKind("crypto"), "Coin", "COIN", decimal.NewFromInt(10)); err == nil {
		t.Error("unknown kind should fail")
	}
	if _, err := svc.Create(context.Background(), domain.KindEquity, "Apple", "AAPL", decimal.Zero); err == nil {
		t.Error("non-positive price should fail")
	}
	if _, err := svc.Create(context.Background(), domain.KindEquity, "", "AAPL", decimal.NewFromInt(10)); err == nil {
		t.Error("empty name should fail")
	}
}

func TestSortStrategies(t *testing.T) {
	stocks := []domain.Stock{
		{Symbol: "MSFT", CurrentPrice: decimal.NewFromInt(400)},
		{Symbol: "AAPL", CurrentPrice: decimal.NewFromInt(190)},
		{Symbol: "TSLA", CurrentPrice: decimal.NewFromInt(240)},
	}

	testCases := []struct {
		order SortOrder
		want  []string
	}{
		{SortBySymbol, []string{"AAPL", "MSFT", "TSLA"}},
		{SortByPriceAscending, []string{"AAPL", "TSLA", "MSFT"}},
		{SortByPriceDescending, []string{"MSFT", "TSLA", "AAPL"}},
	}
	for _, tc := range testCases {
		t.Run(string(tc.order), func(t *testing.T) {
			in := make([]domain.Stock, len(stocks))
			copy(in, stocks)
			Sort(in, tc.order)
			for i, want := range tc.want {
				if in[i].Symbol != want {
					t.Errorf("position %d = %s, want %s", i, in[i].Symbol, want)
				}
			}
		})
	}
}

func TestNewSortOrder(t *testing.T) {
	if order, err := NewSortOrder(""); err != nil || order != SortBySymbol {
		t.Errorf("empty sort = (%v, %v), want symbol default", order, err)
	}
	if _, err := NewSortOrder("sideways"); err == nil {
		t.Error("unknown sort order should fail")
	}
}
