package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event payloads published to the events exchange. Name() is the routing key.
// Every payload carries at minimum user_id, amount and ts; reservation and
// contact fields appear where the operation defines them.

type DepositAdded struct {
	UserID string          `json:"userId"`
	Amount decimal.Decimal `json:"amount"`
	Source string          `json:"source,omitempty"`
	Ts     time.Time       `json:"ts"`
}

func (DepositAdded) Name() string { return "deposit.added" }

type PaymentLocked struct {
	UserID        string          `json:"userId"`
	Amount        decimal.Decimal `json:"amount"`
	ReservationID string          `json:"reservationId"`
	Email         string          `json:"email,omitempty"`
	Message       string          `json:"message"`
	Ts            time.Time       `json:"ts"`
}

func (PaymentLocked) Name() string { return "payment.locked" }

type PaymentUnlocked struct {
	UserID        string          `json:"userId"`
	Amount        decimal.Decimal `json:"amount"`
	ReservationID string          `json:"reservationId,omitempty"`
	Ts            time.Time       `json:"ts"`
}

func (PaymentUnlocked) Name() string { return "payment.unlocked" }

type PaymentSuccess struct {
	UserID        string          `json:"userId"`
	Amount        decimal.Decimal `json:"amount"`
	AuctionID     string          `json:"auctionId,omitempty"`
	ReservationID string          `json:"reservationId,omitempty"`
	Balance       decimal.Decimal `json:"balance"`
	Email         string          `json:"email,omitempty"`
	Message       string          `json:"message"`
	Ts            time.Time       `json:"ts"`
}

func (PaymentSuccess) Name() string { return "payment.success" }

type PaymentFailed struct {
	UserID        string          `json:"userId"`
	Amount        decimal.Decimal `json:"amount"`
	ReservationID string          `json:"reservationId,omitempty"`
	Email         string          `json:"email,omitempty"`
	Reason        string          `json:"reason"`
	Message       string          `json:"message,omitempty"`
	Ts            time.Time       `json:"ts"`
}

func (PaymentFailed) Name() string { return "payment.failed" }
