package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/AnasAnwaar/StockExchange-DP/internal/application/history"
	domain "github.com/AnasAnwaar/StockExchange-DP/internal/domain/entity/ledger"
)

func TestCommandDescriptions(t *testing.T) {
	price := decimal.RequireFromString("10.5")

	buy := NewBuyCommand(nil, 7, 3, 50, price)
	if got, want := buy.Description(), "Buy 50 shares of stock 3 at 10.5 for user 7"; got != want {
		t.Errorf("buy description = %q, want %q", got, want)
	}

	sell := NewSellCommand(nil, 7, 3, 50, price)
	if got, want := sell.Description(), "Sell 50 shares of stock 3 at 10.5 for user 7"; got != want {
		t.Errorf("sell description = %q, want %q", got, want)
	}
}

func TestCommandUndoRestoresState(t *testing.T) {
	// Execute, Undo, Redo through the history: state after Redo equals the
	// state right after the first Execute, and the ledger keeps a row per
	// movement.
	ctx := context.Background()
	engine, store, _, _, userID, stockID := setupEngine(t, "1000")
	hist := history.New(quietLogger())

	cmd := NewBuyCommand(engine, userID, stockID, 50, decimal.NewFromInt(10))
	if err := hist.Execute(ctx, cmd); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if err := hist.Undo(ctx); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	user, err := store.GetUser(ctx, userID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if !user.Balance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("balance after undo = %s, want 1000", user.Balance)
	}
	if _, err := store.GetPosition(ctx, userID, stockID); !errors.Is(err, domain.ErrPositionNotFound) {
		t.Errorf("position after undo should be deleted, got %v", err)
	}

	if err := hist.Redo(ctx); err != nil {
		t.Fatalf("Redo failed: %v", err)
	}
	user, err = store.GetUser(ctx, userID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if !user.Balance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("balance after redo = %s, want 500", user.Balance)
	}
	position, err := store.GetPosition(ctx, userID, stockID)
	if err != nil {
		t.Fatalf("GetPosition after redo failed: %v", err)
	}
	if position.Quantity != 50 {
		t.Errorf("position after redo = %d, want 50", position.Quantity)
	}

	// Reversal appends inverse rows instead of erasing history:
	// buy, sell (undo), buy (redo).
	transactions, err := store.ListTransactions(ctx, userID)
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(transactions) != 3 {
		t.Fatalf("transactions = %d, want 3", len(transactions))
	}
	// Newest first: the redone buy, the undoing sell, the original buy.
	wantDirections := []domain.Direction{domain.DirectionBuy, domain.DirectionSell, domain.DirectionBuy}
	for i, want := range wantDirections {
		if transactions[i].Direction != want {
			t.Errorf("transaction %d direction = %s, want %s", i, transactions[i].Direction, want)
		}
	}
}

func TestRejectedCommandIsNotUndoable(t *testing.T) {
	ctx := context.Background()
	engine, _, _, _, userID, stockID := setupEngine(t, "5")
	hist := history.New(quietLogger())

	cmd := NewBuyCommand(engine, userID, stockID, 1, decimal.NewFromInt(10))
	if err := hist.Execute(ctx, cmd); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("Execute = %v, want ErrInsufficientFunds", err)
	}
	if err := hist.Undo(ctx); !errors.Is(err, history.ErrNothingToUndo) {
		t.Fatalf("Undo = %v, want ErrNothingToUndo", err)
	}
}
