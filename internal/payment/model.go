package payment

import "github.com/shopspring/decimal"

type DepositRequest struct {
	UserID string
	Amount decimal.Decimal
	Source string
}

type CreateIntentRequest struct {
	UserID string
	Amount decimal.Decimal
	Meta   map[string]any
}

type FreezeRequest struct {
	UserID string
	Amount decimal.Decimal
	Email  string
}

type UnfreezeRequest struct {
	UserID        string
	Amount        decimal.Decimal
	ReservationID string
}

type DeductRequest struct {
	UserID        string
	Amount        decimal.Decimal
	AuctionID     string
	ReservationID string
	Email         string
}
