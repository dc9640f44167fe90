package wallet

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// InMemoryRepository keeps the ledger in process memory. A per-user mutex
// makes each ApplyDelta a critical section for that user while requests for
// different users proceed in parallel. Used for local runs and tests.
type InMemoryRepository struct {
	mu           sync.Mutex
	locks        map[string]*sync.Mutex
	wallets      map[string]Wallet
	reservations map[string]Reservation
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		locks:        make(map[string]*sync.Mutex),
		wallets:      make(map[string]Wallet),
		reservations: make(map[string]Reservation),
	}
}

func (r *InMemoryRepository) userLock(userID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[userID] = l
	}
	return l
}

func (r *InMemoryRepository) EnsureWallet(ctx context.Context, userID string) (Wallet, error) {
	l := r.userLock(userID)
	l.Lock()
	defer l.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[userID]
	if !ok {
		w = Wallet{UserID: userID}
		r.wallets[userID] = w
	}
	return w, nil
}

func (r *InMemoryRepository) GetBalance(ctx context.Context, userID string) (Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[userID]
	if !ok {
		return Wallet{UserID: userID}, nil
	}
	return w, nil
}

func (r *InMemoryRepository) GetReservation(ctx context.Context, reservationID string) (Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.reservations[reservationID]
	if !ok {
		return Reservation{}, ErrReservationNotFound
	}
	return res, nil
}

func (r *InMemoryRepository) ApplyDelta(ctx context.Context, userID string, d Delta) (Wallet, error) {
	l := r.userLock(userID)
	l.Lock()
	defer l.Unlock()

	r.mu.Lock()
	w, ok := r.wallets[userID]
	if !ok {
		w = Wallet{UserID: userID}
	}
	var res Reservation
	if d.Reservation != nil && d.Reservation.TransitionID != "" {
		res, ok = r.reservations[d.Reservation.TransitionID]
		if !ok || res.UserID != userID {
			r.mu.Unlock()
			return Wallet{}, ErrReservationNotFound
		}
	}
	r.mu.Unlock()

	if d.Reservation != nil && d.Reservation.TransitionID != "" {
		switch {
		case res.State == ReservationActive:
		case res.State == ReservationReleased && d.Reservation.TransitionTo == ReservationReleased:
			// releasing an already-released reservation is a no-op
			return w, nil
		default:
			return Wallet{}, ErrReservationResolved
		}
	}

	if d.Guard != nil {
		if err := d.Guard(w); err != nil {
			return Wallet{}, err
		}
	}

	balance := w.Balance.Add(d.Balance)
	locked := w.Locked.Add(d.Locked)
	if d.ClampLocked && locked.IsNegative() {
		locked = decimal.Zero
	}
	if err := validateInvariant(balance, locked); err != nil {
		return Wallet{}, err
	}
	w.Balance, w.Locked = balance, locked

	r.mu.Lock()
	r.wallets[userID] = w
	if d.Reservation != nil {
		if d.Reservation.Create != nil {
			r.reservations[d.Reservation.Create.ID] = *d.Reservation.Create
		}
		if d.Reservation.TransitionID != "" {
			now := time.Now().UTC()
			res.State = d.Reservation.TransitionTo
			res.ResolvedAt = &now
			r.reservations[res.ID] = res
		}
	}
	r.mu.Unlock()
	return w, nil
}
