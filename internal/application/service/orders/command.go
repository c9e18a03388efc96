package orders

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	domain "github.com/AnasAnwaar/StockExchange-DP/internal/domain/entity/ledger"
)

// OrderCommand is a reversible order, tagged by direction instead of split
// into per-direction types: one execute path branches on the tag, and undo
// is the same path with the direction inverted.
type OrderCommand struct {
	engine    *Service
	direction domain.Direction
	userID    int64
	stockID   int64
	quantity  int64
	price     decimal.Decimal
}

func NewBuyCommand(engine *Service, userID, stockID, quantity int64, price decimal.Decimal) *OrderCommand {
	return &OrderCommand{
		engine:    engine,
		direction: domain.DirectionBuy,
		userID:    userID,
		stockID:   stockID,
		quantity:  quantity,
		price:     price,
	}
}

func NewSellCommand(engine *Service, userID, stockID, quantity int64, price decimal.Decimal) *OrderCommand {
	return &OrderCommand{
		engine:    engine,
		direction: domain.DirectionSell,
		userID:    userID,
		stockID:   stockID,
		quantity:  quantity,
		price:     price,
	}
}

func (c *OrderCommand) Execute(ctx context.Context) error {
	return c.run(ctx, c.direction)
}

func (c *OrderCommand) Undo(ctx context.Context) error {
	return c.run(ctx, c.direction.Inverse())
}

func (c *OrderCommand) run(ctx context.Context, direction domain.Direction) error {
	if direction == domain.DirectionBuy {
		return c.engine.Buy(ctx, c.userID, c.stockID, c.quantity, c.price)
	}
	return c.engine.Sell(ctx, c.userID, c.stockID, c.quantity, c.price)
}

func (c *OrderCommand) Description() string {
	verb := "Buy"
	if c.direction == domain.DirectionSell {
		verb = "Sell"
	}
	return fmt.Sprintf("%s %d shares of stock %d at %s for user %d",
		verb, c.quantity, c.stockID, c.price, c.userID)
}
