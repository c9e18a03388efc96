package ledger

import (
	"context"
	"errors"

	domain "github.com/AnasAnwaar/StockExchange-DP/internal/domain/entity/ledger"
)

func (r *Repository) AddNews(ctx context.Context, news *domain.MarketNews) error {
	if news == nil {
		return errors.New("news is nil")
	}
	const query = `
		INSERT INTO market_news (title, content, published_at)
		VALUES ($1,$2,$3)
		RETURNING id`

	return r.db.QueryRow(ctx, query,
		news.Title,
		news.Content,
		news.PublishedAt,
	).Scan(&news.ID)
}

func (r *Repository) ListNews(ctx context.Context) ([]domain.MarketNews, error) {
	const query = `
		SELECT id, title, content, published_at
		FROM market_news
		ORDER BY published_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.MarketNews
	for rows.Next() {
		var item domain.MarketNews
		if err := rows.Scan(&item.ID, &item.Title, &item.Content, &item.PublishedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *Repository) DeleteNews(ctx context.Context, id int64) error {
	const query = `DELETE FROM market_news WHERE id=$1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNewsNotFound
	}
	return nil
}
