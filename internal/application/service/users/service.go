package users

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	domain "github.com/AnasAnwaar/StockExchange-DP/internal/domain/entity/ledger"
	"github.com/AnasAnwaar/StockExchange-DP/internal/domain/interfaces"
)

// Service manages trading accounts. Authentication and credentials belong to
// the auth layer; this service only knows usernames and balances.
type Service struct {
	store interfaces.LedgerStore
}

func NewService(store interfaces.LedgerStore) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, username, email string, balance decimal.Decimal) (*domain.User, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrInvalidArgument)
	}
	if balance.IsNegative() {
		return nil, fmt.Errorf("%w: starting balance cannot be negative", domain.ErrInvalidArgument)
	}
	user := &domain.User{
		Username: username,
		Email:    email,
		Balance:  balance,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.store.GetUser(ctx, id)
}
