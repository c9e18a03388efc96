package news

import (
	"context"
	"fmt"
	"time"

	domain "github.com/AnasAnwaar/StockExchange-DP/internal/domain/entity/ledger"
	"github.com/AnasAnwaar/StockExchange-DP/internal/domain/interfaces"
)

// Service publishes and lists market news items.
type Service struct {
	store interfaces.LedgerStore
}

func NewService(store interfaces.LedgerStore) *Service {
	return &Service{store: store}
}

func (s *Service) Publish(ctx context.Context, title, content string) (*domain.MarketNews, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidArgument)
	}
	item := &domain.MarketNews{
		Title:       title,
		Content:     content,
		PublishedAt: time.Now().UTC(),
	}
	if err := s.store.AddNews(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// List returns all news, newest first.
func (s *Service) List(ctx context.Context) ([]domain.MarketNews, error) {
	return s.store.ListNews(ctx)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteNews(ctx, id)
}
