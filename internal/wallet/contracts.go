package wallet

import (
	"context"

	"github.com/shopspring/decimal"
)

// RepositoryContract is the ledger store: the sole owner of wallet and
// reservation rows. ApplyDelta executes as one atomic step per user; no other
// ApplyDelta for the same user interleaves with it.
type RepositoryContract interface {
	EnsureWallet(ctx context.Context, userID string) (Wallet, error)
	GetBalance(ctx context.Context, userID string) (Wallet, error)
	GetReservation(ctx context.Context, reservationID string) (Reservation, error)
	ApplyDelta(ctx context.Context, userID string, d Delta) (Wallet, error)
}

// ServiceContract is the reservation engine built on ApplyDelta.
type ServiceContract interface {
	Deposit(ctx context.Context, userID string, amount decimal.Decimal) (Wallet, error)
	Freeze(ctx context.Context, userID string, amount decimal.Decimal) (string, Wallet, error)
	Unfreeze(ctx context.Context, userID string, amount decimal.Decimal, reservationID string) (Wallet, error)
	Deduct(ctx context.Context, userID string, amount decimal.Decimal, reservationID string) (Wallet, error)
	Balance(ctx context.Context, userID string) (Wallet, error)
}
