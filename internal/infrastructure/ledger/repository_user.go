package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domain "github.com/AnasAnwaar/StockExchange-DP/internal/domain/entity/ledger"
)

func (r *Repository) CreateUser(ctx context.Context, user *domain.User) error {
	if user == nil {
		return errors.New("user is nil")
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	const query = `
		INSERT INTO users (username, email, balance, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id`

	return r.db.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.Balance,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)
}

func (r *Repository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	query := `
		SELECT id, username, email, balance, created_at, updated_at
		FROM users
		WHERE id = $1` + r.lockClause()

	user := &domain.User{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Balance,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *Repository) UpdateUserBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	const query = `UPDATE users SET balance=$2, updated_at=$3 WHERE id=$1`
	tag, err := r.db.Exec(ctx, query, id, balance, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
