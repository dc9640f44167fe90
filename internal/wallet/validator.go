package wallet

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrInsufficientFunds   = errors.New("insufficient_funds")
	ErrLockedInsufficient  = errors.New("locked_amount_insufficient")
	ErrInvariantViolation  = errors.New("wallet invariant violated")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrReservationResolved = errors.New("reservation already resolved")
)

// ValidateRequest rejects malformed input before any side effect. Amounts must
// be non-negative; zero is accepted, matching the gateway contract.
func ValidateRequest(userID string, amount decimal.Decimal) error {
	if userID == "" {
		return ErrInvalidRequest
	}
	if amount.IsNegative() {
		return ErrInvalidRequest
	}
	return nil
}

// validateInvariant checks 0 <= locked <= balance for a computed state. A
// violation is a programming or data error and is surfaced, never clamped.
func validateInvariant(balance, locked decimal.Decimal) error {
	if balance.IsNegative() || locked.IsNegative() || locked.GreaterThan(balance) {
		return ErrInvariantViolation
	}
	return nil
}
