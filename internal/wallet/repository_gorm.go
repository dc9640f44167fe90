package wallet

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ebaazee/payment-service/kit/db"
)

// GormRepository is the durable ledger store. Each ApplyDelta runs in a
// transaction that locks the wallet row (SELECT ... FOR UPDATE), so concurrent
// mutations of the same user serialize at the database while different users
// proceed in parallel. Reservation rows are written in the same transaction.
type GormRepository struct {
	gdb *gorm.DB
}

func NewGormRepository(gdb *gorm.DB) *GormRepository {
	return &GormRepository{gdb: gdb}
}

// Migrate ensures the wallets and reservations tables exist. Safe to call on
// every startup.
func (r *GormRepository) Migrate(ctx context.Context) error {
	if err := r.gdb.WithContext(ctx).AutoMigrate(&Wallet{}, &Reservation{}); err != nil {
		log.Printf("layer=repo component=wallet repo=GormRepository method=Migrate err=%v", err)
		return errors.Join(db.ErrInternal, err)
	}
	return nil
}

func (r *GormRepository) EnsureWallet(ctx context.Context, userID string) (Wallet, error) {
	w := Wallet{UserID: userID}
	// insert-if-absent; a concurrent first access for the same user must not fail
	err := r.gdb.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&w).Error
	if err != nil {
		log.Printf("layer=repo component=wallet repo=GormRepository method=EnsureWallet user_id=%s err=%v", userID, err)
		return Wallet{}, errors.Join(db.ErrInternal, err)
	}
	return r.GetBalance(ctx, userID)
}

func (r *GormRepository) GetBalance(ctx context.Context, userID string) (Wallet, error) {
	var w Wallet
	err := r.gdb.WithContext(ctx).Where("user_id = ?", userID).First(&w).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Wallet{UserID: userID}, nil
		}
		log.Printf("layer=repo component=wallet repo=GormRepository method=GetBalance user_id=%s err=%v", userID, err)
		return Wallet{}, errors.Join(db.ErrInternal, err)
	}
	return w, nil
}

func (r *GormRepository) GetReservation(ctx context.Context, reservationID string) (Reservation, error) {
	var res Reservation
	err := r.gdb.WithContext(ctx).Where("id = ?", reservationID).First(&res).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Reservation{}, ErrReservationNotFound
		}
		log.Printf("layer=repo component=wallet repo=GormRepository method=GetReservation reservation_id=%s err=%v", reservationID, err)
		return Reservation{}, errors.Join(db.ErrInternal, err)
	}
	return res, nil
}

func (r *GormRepository) ApplyDelta(ctx context.Context, userID string, d Delta) (Wallet, error) {
	var out Wallet
	err := r.gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		w, err := lockWallet(tx, userID)
		if err != nil {
			return err
		}

		if d.Reservation != nil && d.Reservation.TransitionID != "" {
			var res Reservation
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("id = ?", d.Reservation.TransitionID).First(&res).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrReservationNotFound
				}
				return errors.Join(db.ErrInternal, err)
			}
			if res.UserID != userID {
				return ErrReservationNotFound
			}
			switch {
			case res.State == ReservationActive:
			case res.State == ReservationReleased && d.Reservation.TransitionTo == ReservationReleased:
				// already released; no-op, leave the wallet untouched
				out = w
				return nil
			default:
				return ErrReservationResolved
			}
			now := time.Now().UTC()
			err = tx.Model(&Reservation{}).Where("id = ?", res.ID).
				Updates(map[string]any{"state": d.Reservation.TransitionTo, "resolved_at": now}).Error
			if err != nil {
				return errors.Join(db.ErrInternal, err)
			}
		}

		if d.Guard != nil {
			if err := d.Guard(w); err != nil {
				return err
			}
		}

		balance := w.Balance.Add(d.Balance)
		locked := w.Locked.Add(d.Locked)
		if d.ClampLocked && locked.IsNegative() {
			locked = decimal.Zero
		}
		if err := validateInvariant(balance, locked); err != nil {
			return err
		}

		err = tx.Model(&Wallet{}).Where("user_id = ?", userID).
			Updates(map[string]any{"balance": balance, "locked": locked}).Error
		if err != nil {
			return errors.Join(db.ErrInternal, err)
		}

		if d.Reservation != nil && d.Reservation.Create != nil {
			if err := tx.Create(d.Reservation.Create).Error; err != nil {
				return errors.Join(db.ErrInternal, err)
			}
		}

		w.Balance, w.Locked = balance, locked
		out = w
		return nil
	})
	if err != nil {
		return Wallet{}, err
	}
	return out, nil
}

// lockWallet selects the wallet row FOR UPDATE, creating it first when absent.
func lockWallet(tx *gorm.DB, userID string) (Wallet, error) {
	var w Wallet
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).First(&w).Error
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Wallet{}, errors.Join(db.ErrInternal, err)
	}

	w = Wallet{UserID: userID}
	err = tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&w).Error
	if err != nil {
		return Wallet{}, errors.Join(db.ErrInternal, err)
	}
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).First(&w).Error
	if err != nil {
		return Wallet{}, errors.Join(db.ErrInternal, err)
	}
	return w, nil
}
