package ledger

import "errors"

var (
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrStockNotFound        = errors.New("stock not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrPositionNotFound     = errors.New("position not found")
	ErrNewsNotFound         = errors.New("news not found")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInsufficientHoldings = errors.New("insufficient holdings")

	// ErrPersistence wraps store faults that are not an expected order
	// rejection. Callers retry explicitly or surface the failure; the engine
	// never retries on its own.
	ErrPersistence = errors.New("persistence failure")
)

// IsBusiness reports whether err is an expected, recoverable order rejection
// as opposed to a store fault.
func IsBusiness(err error) bool {
	for _, target := range []error{
		ErrInvalidArgument,
		ErrStockNotFound,
		ErrUserNotFound,
		ErrPositionNotFound,
		ErrNewsNotFound,
		ErrInsufficientFunds,
		ErrInsufficientHoldings,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
