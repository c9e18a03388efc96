package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domain "github.com/AnasAnwaar/StockExchange-DP/internal/domain/entity/ledger"
)

func (r *Repository) CreateStock(ctx context.Context, stock *domain.Stock) error {
	if stock == nil {
		return errors.New("stock is nil")
	}
	now := time.Now().UTC()
	stock.CreatedAt = now
	stock.UpdatedAt = now

	const query = `
		INSERT INTO stocks (symbol, name, kind, current_price, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id`

	return r.db.QueryRow(ctx, query,
		stock.Symbol,
		stock.Name,
		stock.Kind,
		stock.CurrentPrice,
		stock.CreatedAt,
		stock.UpdatedAt,
	).Scan(&stock.ID)
}

func (r *Repository) GetStock(ctx context.Context, id int64) (*domain.Stock, error) {
	const query = `
		SELECT id, symbol, name, kind, current_price, created_at, updated_at
		FROM stocks
		WHERE id = $1`

	stock := &domain.Stock{}
	if err := scanStock(r.db.QueryRow(ctx, query, id), stock); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStockNotFound
		}
		return nil, err
	}
	return stock, nil
}

func (r *Repository) ListStocks(ctx context.Context) ([]domain.Stock, error) {
	const query = `
		SELECT id, symbol, name, kind, current_price, created_at, updated_at
		FROM stocks
		ORDER BY symbol ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stocks []domain.Stock
	for rows.Next() {
		var stock domain.Stock
		if err := scanStock(rows, &stock); err != nil {
			return nil, err
		}
		stocks = append(stocks, stock)
	}
	return stocks, rows.Err()
}

func (r *Repository) UpdateStock(ctx context.Context, stock *domain.Stock) error {
	if stock == nil {
		return errors.New("stock is nil")
	}
	stock.UpdatedAt = time.Now().UTC()

	const query = `
		UPDATE stocks
		SET symbol=$2, name=$3, kind=$4, current_price=$5, updated_at=$6
		WHERE id=$1`

	tag, err := r.db.Exec(ctx, query,
		stock.ID,
		stock.Symbol,
		stock.Name,
		stock.Kind,
		stock.CurrentPrice,
		stock.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStockNotFound
	}
	return nil
}

func (r *Repository) UpdateStockPrice(ctx context.Context, id int64, price decimal.Decimal) error {
	const query = `UPDATE stocks SET current_price=$2, updated_at=$3 WHERE id=$1`
	tag, err := r.db.Exec(ctx, query, id, price, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStockNotFound
	}
	return nil
}

func (r *Repository) DeleteStock(ctx context.Context, id int64) error {
	const query = `DELETE FROM stocks WHERE id=$1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStockNotFound
	}
	return nil
}

func scanStock(row pgx.Row, stock *domain.Stock) error {
	return row.Scan(
		&stock.ID,
		&stock.Symbol,
		&stock.Name,
		&stock.Kind,
		&stock.CurrentPrice,
		&stock.CreatedAt,
		&stock.UpdatedAt,
	)
}
