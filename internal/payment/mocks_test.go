package payment

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/ebaazee/payment-service/internal/wallet"
	"github.com/ebaazee/payment-service/kit/broker"
)

type gatewayMock struct{ mock.Mock }

func (m *gatewayMock) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	args := m.Called(ctx, path, body)
	if v := args.Get(0); v != nil {
		return v.(json.RawMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

type ledgerMock struct{ mock.Mock }

func (m *ledgerMock) Deposit(ctx context.Context, userID string, amount decimal.Decimal) (wallet.Wallet, error) {
	args := m.Called(ctx, userID, amount)
	return args.Get(0).(wallet.Wallet), args.Error(1)
}

func (m *ledgerMock) Freeze(ctx context.Context, userID string, amount decimal.Decimal) (string, wallet.Wallet, error) {
	args := m.Called(ctx, userID, amount)
	return args.String(0), args.Get(1).(wallet.Wallet), args.Error(2)
}

func (m *ledgerMock) Unfreeze(ctx context.Context, userID string, amount decimal.Decimal, reservationID string) (wallet.Wallet, error) {
	args := m.Called(ctx, userID, amount, reservationID)
	return args.Get(0).(wallet.Wallet), args.Error(1)
}

func (m *ledgerMock) Deduct(ctx context.Context, userID string, amount decimal.Decimal, reservationID string) (wallet.Wallet, error) {
	args := m.Called(ctx, userID, amount, reservationID)
	return args.Get(0).(wallet.Wallet), args.Error(1)
}

type publisherMock struct{ mock.Mock }

func (m *publisherMock) Publish(ctx context.Context, evt broker.Event) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}
