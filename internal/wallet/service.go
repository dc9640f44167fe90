package wallet

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ebaazee/payment-service/kit/db"
	"github.com/ebaazee/payment-service/kit/observability"
)

// Service is the reservation engine. Every mutation goes through the
// repository's ApplyDelta; the guards run inside the per-user critical
// section, so two concurrent freezes can never over-reserve a wallet.
type Service struct {
	repo    RepositoryContract
	metrics *observability.Metrics
}

func NewService(repo RepositoryContract, metrics *observability.Metrics) *Service {
	return &Service{repo: repo, metrics: metrics}
}

func (s *Service) Deposit(ctx context.Context, userID string, amount decimal.Decimal) (Wallet, error) {
	if err := ValidateRequest(userID, amount); err != nil {
		log.Printf("layer=service component=wallet method=Deposit user_id=%s amount=%s err=%v", userID, amount, err)
		return Wallet{}, errors.Join(db.ErrInvalid, err)
	}
	w, err := s.repo.ApplyDelta(ctx, userID, Delta{Balance: amount})
	if err != nil {
		log.Printf("layer=service component=wallet method=Deposit user_id=%s amount=%s err=%v", userID, amount, err)
		return Wallet{}, err
	}
	if s.metrics != nil {
		s.metrics.DepositsAdded.Add(1)
	}
	return w, nil
}

func (s *Service) Freeze(ctx context.Context, userID string, amount decimal.Decimal) (string, Wallet, error) {
	if err := ValidateRequest(userID, amount); err != nil {
		log.Printf("layer=service component=wallet method=Freeze user_id=%s amount=%s err=%v", userID, amount, err)
		return "", Wallet{}, errors.Join(db.ErrInvalid, err)
	}

	res := NewReservation(userID, amount)
	w, err := s.repo.ApplyDelta(ctx, userID, Delta{
		Locked: amount,
		Guard: func(w Wallet) error {
			if amount.GreaterThan(w.Available()) {
				return ErrInsufficientFunds
			}
			return nil
		},
		Reservation: &ReservationChange{Create: &res},
	})
	if err != nil {
		log.Printf("layer=service component=wallet method=Freeze user_id=%s amount=%s err=%v", userID, amount, err)
		if s.metrics != nil && errors.Is(err, ErrInsufficientFunds) {
			s.metrics.FreezesRejected.Add(1)
		}
		return "", Wallet{}, err
	}
	if s.metrics != nil {
		s.metrics.FreezesAccepted.Add(1)
	}
	return res.ID, w, nil
}

// Unfreeze releases reserved funds. The locked amount never goes negative; a
// release larger than the current reservation total clamps to zero. With a
// reservation id the matching row transitions to released; releasing an
// already-released reservation is a no-op.
func (s *Service) Unfreeze(ctx context.Context, userID string, amount decimal.Decimal, reservationID string) (Wallet, error) {
	if err := ValidateRequest(userID, amount); err != nil {
		log.Printf("layer=service component=wallet method=Unfreeze user_id=%s amount=%s err=%v", userID, amount, err)
		return Wallet{}, errors.Join(db.ErrInvalid, err)
	}

	d := Delta{Locked: amount.Neg(), ClampLocked: true}
	if reservationID != "" {
		d.Reservation = &ReservationChange{TransitionID: reservationID, TransitionTo: ReservationReleased}
	}
	w, err := s.repo.ApplyDelta(ctx, userID, d)
	if err != nil {
		log.Printf("layer=service component=wallet method=Unfreeze user_id=%s amount=%s reservation_id=%s err=%v", userID, amount, reservationID, err)
		return Wallet{}, err
	}
	if s.metrics != nil {
		s.metrics.Releases.Add(1)
	}
	return w, nil
}

func (s *Service) Deduct(ctx context.Context, userID string, amount decimal.Decimal, reservationID string) (Wallet, error) {
	if err := ValidateRequest(userID, amount); err != nil {
		log.Printf("layer=service component=wallet method=Deduct user_id=%s amount=%s err=%v", userID, amount, err)
		return Wallet{}, errors.Join(db.ErrInvalid, err)
	}

	d := Delta{
		Balance: amount.Neg(),
		Locked:  amount.Neg(),
		Guard: func(w Wallet) error {
			if w.Locked.LessThan(amount) {
				return ErrLockedInsufficient
			}
			return nil
		},
	}
	if reservationID != "" {
		d.Reservation = &ReservationChange{TransitionID: reservationID, TransitionTo: ReservationDeducted}
	}
	w, err := s.repo.ApplyDelta(ctx, userID, d)
	if err != nil {
		log.Printf("layer=service component=wallet method=Deduct user_id=%s amount=%s reservation_id=%s err=%v", userID, amount, reservationID, err)
		return Wallet{}, err
	}
	if s.metrics != nil {
		s.metrics.Deductions.Add(1)
	}
	return w, nil
}

func (s *Service) Balance(ctx context.Context, userID string) (Wallet, error) {
	if userID == "" {
		log.Printf("layer=service component=wallet method=Balance err=%v", ErrInvalidRequest)
		return Wallet{}, errors.Join(db.ErrInvalid, ErrInvalidRequest)
	}
	w, err := s.repo.EnsureWallet(ctx, userID)
	if err != nil {
		log.Printf("layer=service component=wallet method=Balance user_id=%s err=%v", userID, err)
		return Wallet{}, err
	}
	return w, nil
}

func NewReservation(userID string, amount decimal.Decimal) Reservation {
	return Reservation{
		ID:        uuid.NewString(),
		UserID:    userID,
		Amount:    amount,
		State:     ReservationActive,
		CreatedAt: time.Now().UTC(),
	}
}
