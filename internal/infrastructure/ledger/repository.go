package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AnasAnwaar/StockExchange-DP/internal/domain/interfaces"
)

// querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx, so every
// query method works both on the plain store handle and inside a unit of
// work.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository is the Postgres ledger store. The zero of pool marks a
// transaction-bound view handed out by WithinTx.
type Repository struct {
	db   querier
	pool *pgxpool.Pool
}

var _ interfaces.LedgerStore = (*Repository)(nil)

func NewRepository(ctx context.Context, dsn string) (*Repository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	return &Repository{db: pool, pool: pool}, nil
}

func (r *Repository) Close() {
	if r == nil || r.pool == nil {
		return
	}
	r.pool.Close()
}

// WithinTx runs fn against a transaction-bound view of the store. The
// transaction commits only when fn returns nil; any error rolls back every
// write. Calls nested inside an open transaction join it.
func (r *Repository) WithinTx(ctx context.Context, fn func(interfaces.Ledger) error) (err error) {
	if r.pool == nil {
		return fn(r)
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()
	if err = fn(&Repository{db: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// lockClause appends FOR UPDATE inside a unit of work, serializing
// concurrent orders on the same user or position row. Read-modify-write
// races on balance and quantity are the main correctness hazard here.
func (r *Repository) lockClause() string {
	if r.pool == nil {
		return " FOR UPDATE"
	}
	return ""
}
