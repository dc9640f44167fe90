package payment

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ebaazee/payment-service/internal/events"
	"github.com/ebaazee/payment-service/kit/gateway"
)

func ToDepositAddedEvent(userID string, amount decimal.Decimal, source string) events.DepositAdded {
	return events.DepositAdded{UserID: userID, Amount: amount, Source: source, Ts: time.Now().UTC()}
}

func ToPaymentLockedEvent(req FreezeRequest, reservationID string) events.PaymentLocked {
	return events.PaymentLocked{
		UserID:        req.UserID,
		Amount:        req.Amount,
		ReservationID: reservationID,
		Email:         req.Email,
		Message:       fmt.Sprintf("Your payment of %s has been reserved (reservation %s).", req.Amount, reservationID),
		Ts:            time.Now().UTC(),
	}
}

func ToPaymentUnlockedEvent(req UnfreezeRequest) events.PaymentUnlocked {
	return events.PaymentUnlocked{
		UserID:        req.UserID,
		Amount:        req.Amount,
		ReservationID: req.ReservationID,
		Ts:            time.Now().UTC(),
	}
}

func ToPaymentSuccessEvent(req DeductRequest, balance decimal.Decimal) events.PaymentSuccess {
	auction := req.AuctionID
	if auction == "" {
		auction = "#"
	}
	return events.PaymentSuccess{
		UserID:        req.UserID,
		Amount:        req.Amount,
		AuctionID:     req.AuctionID,
		ReservationID: req.ReservationID,
		Balance:       balance,
		Email:         req.Email,
		Message:       fmt.Sprintf("Your payment of %s for auction %s succeeded. Reservation %s", req.Amount, auction, req.ReservationID),
		Ts:            time.Now().UTC(),
	}
}

func ToPaymentFailedEvent(userID string, amount decimal.Decimal, reservationID, email, reason string) events.PaymentFailed {
	return events.PaymentFailed{
		UserID:        userID,
		Amount:        amount,
		ReservationID: reservationID,
		Email:         email,
		Reason:        reason,
		Message:       fmt.Sprintf("Your payment of %s failed: %s", amount, reason),
		Ts:            time.Now().UTC(),
	}
}

// FailureReason maps an error to the reason field carried by payment.failed.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, gateway.ErrCircuitOpen):
		return "breaker_open"
	case errors.Is(err, gateway.ErrTimeout):
		return "gateway_timeout"
	case gateway.IsGatewayError(err):
		return "gateway_error"
	default:
		return err.Error()
	}
}
