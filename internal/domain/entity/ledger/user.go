package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// User corresponds to one row of the `users` table. Credentials live with the
// auth layer and are never loaded here; the order engine only ever touches
// Balance.
type User struct {
	ID        int64           `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
