package handlers

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/ebaazee/payment-service/internal/payment"
	"github.com/ebaazee/payment-service/internal/wallet"
)

type paymentServiceMock struct{ mock.Mock }

func (m *paymentServiceMock) Deposit(ctx context.Context, req payment.DepositRequest) (json.RawMessage, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(json.RawMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *paymentServiceMock) CreateIntent(ctx context.Context, req payment.CreateIntentRequest) (json.RawMessage, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(json.RawMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *paymentServiceMock) Freeze(ctx context.Context, req payment.FreezeRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *paymentServiceMock) Unfreeze(ctx context.Context, req payment.UnfreezeRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *paymentServiceMock) Deduct(ctx context.Context, req payment.DeductRequest) (decimal.Decimal, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type balanceServiceMock struct{ mock.Mock }

func (m *balanceServiceMock) Balance(ctx context.Context, userID string) (wallet.Wallet, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(wallet.Wallet), args.Error(1)
}
