package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	domain "github.com/AnasAnwaar/StockExchange-DP/internal/domain/entity/ledger"
)

func (r *Repository) GetPosition(ctx context.Context, userID, stockID int64) (*domain.Position, error) {
	query := `
		SELECT user_id, stock_id, quantity, updated_at
		FROM portfolios
		WHERE user_id = $1 AND stock_id = $2` + r.lockClause()

	position := &domain.Position{}
	err := r.db.QueryRow(ctx, query, userID, stockID).Scan(
		&position.UserID,
		&position.StockID,
		&position.Quantity,
		&position.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPositionNotFound
		}
		return nil, err
	}
	return position, nil
}

func (r *Repository) ListPositions(ctx context.Context, userID int64) ([]domain.Position, error) {
	const query = `
		SELECT user_id, stock_id, quantity, updated_at
		FROM portfolios
		WHERE user_id = $1
		ORDER BY stock_id ASC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []domain.Position
	for rows.Next() {
		var position domain.Position
		if err := rows.Scan(
			&position.UserID,
			&position.StockID,
			&position.Quantity,
			&position.UpdatedAt,
		); err != nil {
			return nil, err
		}
		positions = append(positions, position)
	}
	return positions, rows.Err()
}

// ApplyPositionDelta upserts the position row and deletes it when the new
// quantity reaches zero, so an absent row always means zero holdings. The
// negativity check belongs to the order engine; the constraint here is only
// the final safety net.
func (r *Repository) ApplyPositionDelta(ctx context.Context, userID, stockID, delta int64) error {
	query := `
		SELECT quantity FROM portfolios
		WHERE user_id = $1 AND stock_id = $2` + r.lockClause()

	var current int64
	err := r.db.QueryRow(ctx, query, userID, stockID).Scan(&current)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		current = 0
	case err != nil:
		return err
	}

	next := current + delta
	if next < 0 {
		return fmt.Errorf("%w: position %d would go negative", domain.ErrInsufficientHoldings, stockID)
	}

	switch {
	case next == 0:
		_, err = r.db.Exec(ctx,
			`DELETE FROM portfolios WHERE user_id=$1 AND stock_id=$2`,
			userID, stockID)
	case current == 0:
		_, err = r.db.Exec(ctx,
			`INSERT INTO portfolios (user_id, stock_id, quantity, updated_at) VALUES ($1,$2,$3,$4)`,
			userID, stockID, next, time.Now().UTC())
	default:
		_, err = r.db.Exec(ctx,
			`UPDATE portfolios SET quantity=$3, updated_at=$4 WHERE user_id=$1 AND stock_id=$2`,
			userID, stockID, next, time.Now().UTC())
	}
	return err
}
