package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	domain "github.com/AnasAnwaar/StockExchange-DP/internal/domain/entity/ledger"
	"github.com/AnasAnwaar/StockExchange-DP/internal/domain/interfaces"
)

// PriceBoard is the post-commit notification sink. Satisfied by
// market.Board; kept as a local interface so the engine tests can run
// without one.
type PriceBoard interface {
	UpdatePrice(ctx context.Context, stockID int64, price decimal.Decimal)
}

// Service executes buy and sell orders as single atomic units of work
// against the ledger store. Buy and Sell are exact algebraic inverses at
// fixed (userID, stockID, quantity, price), which is what lets a command's
// undo simply call the opposite operation.
type Service struct {
	store  interfaces.LedgerStore
	board  PriceBoard
	logger *logrus.Logger
}

func NewService(store interfaces.LedgerStore, board PriceBoard, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{store: store, board: board, logger: logger}
}

// Buy debits quantity*price from the user's balance, appends a BUY
// transaction and increases the user's position, all inside one unit of
// work. On commit the price board is told the execution price; that
// notification is best-effort and never fails the order.
func (s *Service) Buy(ctx context.Context, userID, stockID, quantity int64, price decimal.Decimal) error {
	if err := validateOrder(quantity, price); err != nil {
		return err
	}

	err := s.store.WithinTx(ctx, func(tx interfaces.Ledger) error {
		if _, err := tx.GetStock(ctx, stockID); err != nil {
			return err
		}
		user, err := tx.GetUser(ctx, userID)
		if err != nil {
			return err
		}

		totalCost := price.Mul(decimal.NewFromInt(quantity))
		if user.Balance.LessThan(totalCost) {
			return fmt.Errorf("%w: balance %s, need %s", domain.ErrInsufficientFunds, user.Balance, totalCost)
		}

		if err := tx.UpdateUserBalance(ctx, userID, user.Balance.Sub(totalCost)); err != nil {
			return err
		}
		if err := tx.AddTransaction(ctx, &domain.Transaction{
			ID:         uuid.New(),
			UserID:     userID,
			StockID:    stockID,
			Quantity:   quantity,
			Price:      price,
			Direction:  domain.DirectionBuy,
			ExecutedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		return tx.ApplyPositionDelta(ctx, userID, stockID, quantity)
	})
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"user_id":  userID,
			"stock_id": stockID,
		}).Warnf("buy rejected: %v", err)
		return classify(err)
	}

	s.notify(ctx, stockID, price)
	s.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"stock_id": stockID,
		"quantity": quantity,
		"price":    price.String(),
	}).Info("buy executed")
	return nil
}

// Sell credits quantity*price to the user's balance, appends a SELL
// transaction and decrements the position (deleting it at zero), inside one
// unit of work. Selling more than held fails with ErrInsufficientHoldings
// and leaves no trace.
func (s *Service) Sell(ctx context.Context, userID, stockID, quantity int64, price decimal.Decimal) error {
	if err := validateOrder(quantity, price); err != nil {
		return err
	}

	err := s.store.WithinTx(ctx, func(tx interfaces.Ledger) error {
		if _, err := tx.GetStock(ctx, stockID); err != nil {
			return err
		}
		user, err := tx.GetUser(ctx, userID)
		if err != nil {
			return err
		}

		position, err := tx.GetPosition(ctx, userID, stockID)
		if err != nil {
			if errors.Is(err, domain.ErrPositionNotFound) {
				return fmt.Errorf("%w: no position in stock %d", domain.ErrInsufficientHoldings, stockID)
			}
			return err
		}
		if position.Quantity < quantity {
			return fmt.Errorf("%w: holding %d, selling %d", domain.ErrInsufficientHoldings, position.Quantity, quantity)
		}

		proceeds := price.Mul(decimal.NewFromInt(quantity))
		if err := tx.UpdateUserBalance(ctx, userID, user.Balance.Add(proceeds)); err != nil {
			return err
		}
		if err := tx.AddTransaction(ctx, &domain.Transaction{
			ID:         uuid.New(),
			UserID:     userID,
			StockID:    stockID,
			Quantity:   quantity,
			Price:      price,
			Direction:  domain.DirectionSell,
			ExecutedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		return tx.ApplyPositionDelta(ctx, userID, stockID, -quantity)
	})
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"user_id":  userID,
			"stock_id": stockID,
		}).Warnf("sell rejected: %v", err)
		return classify(err)
	}

	s.notify(ctx, stockID, price)
	s.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"stock_id": stockID,
		"quantity": quantity,
		"price":    price.String(),
	}).Info("sell executed")
	return nil
}

// ListTransactions returns the user's trade ledger, newest first.
func (s *Service) ListTransactions(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	return s.store.ListTransactions(ctx, userID)
}

// ListPositions returns the user's current portfolio.
func (s *Service) ListPositions(ctx context.Context, userID int64) ([]domain.Position, error) {
	return s.store.ListPositions(ctx, userID)
}

func (s *Service) notify(ctx context.Context, stockID int64, price decimal.Decimal) {
	if s.board == nil {
		return
	}
	s.board.UpdatePrice(ctx, stockID, price)
}

func validateOrder(quantity int64, price decimal.Decimal) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidArgument)
	}
	if !price.IsPositive() {
		return fmt.Errorf("%w: price must be positive", domain.ErrInvalidArgument)
	}
	return nil
}

// classify keeps expected order rejections as-is and folds everything else
// into ErrPersistence so callers see one store-fault category.
func classify(err error) error {
	if domain.IsBusiness(err) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
}
