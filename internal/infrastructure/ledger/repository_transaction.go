package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"

	domain "github.com/AnasAnwaar/StockExchange-DP/internal/domain/entity/ledger"
)

const insertTransactionQuery = `
	INSERT INTO transactions (id, user_id, stock_id, quantity, price, direction, executed_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7)`

func (r *Repository) AddTransaction(ctx context.Context, tx *domain.Transaction) error {
	if tx == nil {
		return errors.New("transaction is nil")
	}
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx, insertTransactionQuery,
		tx.ID,
		tx.UserID,
		tx.StockID,
		tx.Quantity,
		tx.Price,
		tx.Direction,
		tx.ExecutedAt,
	)
	return err
}

func (r *Repository) ListTransactions(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	const query = `
		SELECT id, user_id, stock_id, quantity, price, direction, executed_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY executed_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		if err := rows.Scan(
			&tx.ID,
			&tx.UserID,
			&tx.StockID,
			&tx.Quantity,
			&tx.Price,
			&tx.Direction,
			&tx.ExecutedAt,
		); err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}
