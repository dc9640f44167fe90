package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet is the per-user money record. Locked is the slice of Balance reserved
// against open bids; Available is what a new freeze may take. The invariant
// 0 <= Locked <= Balance holds after every committed mutation.
type Wallet struct {
	UserID  string          `gorm:"column:user_id;primaryKey" json:"user_id"`
	Balance decimal.Decimal `gorm:"type:numeric;not null" json:"balance"`
	Locked  decimal.Decimal `gorm:"type:numeric;not null" json:"locked"`
}

func (Wallet) TableName() string { return "wallets" }

func (w Wallet) Available() decimal.Decimal { return w.Balance.Sub(w.Locked) }

type ReservationState string

const (
	ReservationActive   ReservationState = "active"
	ReservationDeducted ReservationState = "deducted"
	ReservationReleased ReservationState = "released"
)

// Reservation correlates one freeze with its eventual deduct or release. The
// terminal states are final; only active -> deducted and active -> released
// are legal transitions.
type Reservation struct {
	ID         string           `gorm:"column:id;primaryKey" json:"id"`
	UserID     string           `gorm:"column:user_id;index;not null" json:"user_id"`
	Amount     decimal.Decimal  `gorm:"type:numeric;not null" json:"amount"`
	State      ReservationState `gorm:"column:state;not null" json:"state"`
	CreatedAt  time.Time        `gorm:"column:created_at" json:"created_at"`
	ResolvedAt *time.Time       `gorm:"column:resolved_at" json:"resolved_at,omitempty"`
}

func (Reservation) TableName() string { return "reservations" }

// ReservationChange is applied in the same critical section as the wallet
// delta, so a crash can never separate a ledger mutation from its reservation
// row.
type ReservationChange struct {
	Create       *Reservation
	TransitionID string
	TransitionTo ReservationState
}

// Delta is the single mutation primitive of the ledger store. Guard runs
// inside the per-user critical section against the current wallet state; if it
// returns an error nothing is written. ClampLocked bounds the resulting locked
// amount at zero (releases only; balance is never clamped).
type Delta struct {
	Balance     decimal.Decimal
	Locked      decimal.Decimal
	ClampLocked bool
	Guard       func(w Wallet) error
	Reservation *ReservationChange
}
