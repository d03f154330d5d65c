// internal/util/errors.go
package util

import "errors"

// Common application-specific errors.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input provided")
	ErrWalletNotFound   = errors.New("wallet not found")
	ErrInvalidPrice     = errors.New("btc price must be positive")
	ErrInvalidFrequency = errors.New("withdrawal frequency must be monthly or weekly")
	ErrNoPrice          = errors.New("no btc price available")
	ErrRoundIncomplete  = errors.New("withdrawal round incomplete") // One or more wallets failed; the clock was not advanced
)

// IsError reports whether any error in err's chain matches target.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
