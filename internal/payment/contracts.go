package payment

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/ebaazee/payment-service/internal/wallet"
	"github.com/ebaazee/payment-service/kit/broker"
)

// LedgerContract is the slice of the reservation engine the orchestrator uses.
type LedgerContract interface {
	Deposit(ctx context.Context, userID string, amount decimal.Decimal) (wallet.Wallet, error)
	Freeze(ctx context.Context, userID string, amount decimal.Decimal) (string, wallet.Wallet, error)
	Unfreeze(ctx context.Context, userID string, amount decimal.Decimal, reservationID string) (wallet.Wallet, error)
	Deduct(ctx context.Context, userID string, amount decimal.Decimal, reservationID string) (wallet.Wallet, error)
}

type GatewayContract interface {
	Post(ctx context.Context, path string, body any) (json.RawMessage, error)
}

type PublisherContract interface {
	Publish(ctx context.Context, evt broker.Event) error
}

type AuditContract interface {
	Record(ctx context.Context, evt broker.Event)
}

// ServiceContract is the request orchestrator: one method per external
// operation, each ending in exactly one published event where the operation
// defines one.
type ServiceContract interface {
	Deposit(ctx context.Context, req DepositRequest) (json.RawMessage, error)
	CreateIntent(ctx context.Context, req CreateIntentRequest) (json.RawMessage, error)
	Freeze(ctx context.Context, req FreezeRequest) (string, error)
	Unfreeze(ctx context.Context, req UnfreezeRequest) error
	Deduct(ctx context.Context, req DeductRequest) (decimal.Decimal, error)
}
