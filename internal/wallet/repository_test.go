package wallet

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRepository_EnsureWallet(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	w, err := repo.EnsureWallet(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "u1", w.UserID)
	require.True(t, w.Balance.IsZero())
	require.True(t, w.Locked.IsZero())

	// concurrent first access must be insert-if-absent, never an error
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.EnsureWallet(ctx, "u2")
			require.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestInMemoryRepository_ApplyDelta(t *testing.T) {
	ctx := context.Background()

	var tests = []struct {
		name        string
		seed        Delta
		delta       Delta
		expectedErr error
		balance     decimal.Decimal
		locked      decimal.Decimal
	}{
		{
			name:    "credit",
			delta:   Delta{Balance: d(10)},
			balance: d(10), locked: d(0),
		},
		{
			name:        "debit below zero is an invariant violation",
			seed:        Delta{Balance: d(10)},
			delta:       Delta{Balance: d(-20)},
			expectedErr: ErrInvariantViolation,
		},
		{
			name:        "locked above balance is an invariant violation",
			seed:        Delta{Balance: d(10)},
			delta:       Delta{Locked: d(20)},
			expectedErr: ErrInvariantViolation,
		},
		{
			name:    "clamped release never drives locked negative",
			seed:    Delta{Balance: d(10), Locked: d(4)},
			delta:   Delta{Locked: d(-9), ClampLocked: true},
			balance: d(10), locked: d(0),
		},
		{
			name: "guard failure leaves wallet untouched",
			seed: Delta{Balance: d(10)},
			delta: Delta{Balance: d(5), Guard: func(w Wallet) error {
				return ErrInsufficientFunds
			}},
			expectedErr: ErrInsufficientFunds,
			balance:     d(10), locked: d(0),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := NewInMemoryRepository()
			if !tt.seed.Balance.IsZero() || !tt.seed.Locked.IsZero() {
				_, err := repo.ApplyDelta(ctx, "u1", tt.seed)
				require.NoError(t, err)
			}

			w, err := repo.ApplyDelta(ctx, "u1", tt.delta)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				w, err = repo.GetBalance(ctx, "u1")
				require.NoError(t, err)
				require.True(t, w.Balance.Equal(tt.seed.Balance))
				require.True(t, w.Locked.Equal(tt.seed.Locked))
				return
			}
			require.NoError(t, err)
			require.True(t, w.Balance.Equal(tt.balance))
			require.True(t, w.Locked.Equal(tt.locked))
		})
	}
}

func TestInMemoryRepository_ReservationStateMachine(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	_, err := repo.ApplyDelta(ctx, "u1", Delta{Balance: d(100)})
	require.NoError(t, err)

	res := NewReservation("u1", d(40))
	_, err = repo.ApplyDelta(ctx, "u1", Delta{Locked: d(40), Reservation: &ReservationChange{Create: &res}})
	require.NoError(t, err)

	got, err := repo.GetReservation(ctx, res.ID)
	require.NoError(t, err)
	require.Equal(t, ReservationActive, got.State)
	require.True(t, got.Amount.Equal(d(40)))

	// someone else's reservation is invisible
	_, err = repo.ApplyDelta(ctx, "other", Delta{
		Reservation: &ReservationChange{TransitionID: res.ID, TransitionTo: ReservationDeducted},
	})
	require.ErrorIs(t, err, ErrReservationNotFound)

	_, err = repo.ApplyDelta(ctx, "u1", Delta{
		Balance: d(-40), Locked: d(-40),
		Reservation: &ReservationChange{TransitionID: res.ID, TransitionTo: ReservationDeducted},
	})
	require.NoError(t, err)

	got, err = repo.GetReservation(ctx, res.ID)
	require.NoError(t, err)
	require.Equal(t, ReservationDeducted, got.State)

	// deducted is terminal, releasing it must fail
	_, err = repo.ApplyDelta(ctx, "u1", Delta{
		Reservation: &ReservationChange{TransitionID: res.ID, TransitionTo: ReservationReleased},
	})
	require.ErrorIs(t, err, ErrReservationResolved)
}

func TestInMemoryRepository_ConcurrentFreezesNeverOverReserve(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()
	svc := NewService(repo, nil)

	_, err := svc.Deposit(ctx, "u1", d(100))
	require.NoError(t, err)

	// two freezes of 80 against available 100: exactly one may win
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = svc.Freeze(ctx, "u1", d(80))
		}(i)
	}
	wg.Wait()

	var ok, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		default:
			require.ErrorIs(t, err, ErrInsufficientFunds)
			rejected++
		}
	}
	require.Equal(t, 1, ok)
	require.Equal(t, 1, rejected)

	w, err := repo.GetBalance(ctx, "u1")
	require.NoError(t, err)
	require.True(t, w.Locked.Equal(d(80)))
}
