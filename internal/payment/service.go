package payment

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/shopspring/decimal"

	"github.com/ebaazee/payment-service/internal/wallet"
	"github.com/ebaazee/payment-service/kit/broker"
	"github.com/ebaazee/payment-service/kit/db"
	"github.com/ebaazee/payment-service/kit/observability"
)

// Service orchestrates each external operation: validate input, call the
// gateway and/or the reservation engine in order, publish the resulting event.
// The ledger is never touched before a prerequisite gateway call succeeded,
// and a publish failure never rolls back a committed ledger mutation.
type Service struct {
	gateway   GatewayContract
	ledger    LedgerContract
	publisher PublisherContract
	audit     AuditContract
	metrics   *observability.Metrics
}

func NewService(gw GatewayContract, ledger LedgerContract, publisher PublisherContract, audit AuditContract, metrics *observability.Metrics) *Service {
	return &Service{gateway: gw, ledger: ledger, publisher: publisher, audit: audit, metrics: metrics}
}

func (s *Service) Deposit(ctx context.Context, req DepositRequest) (json.RawMessage, error) {
	if err := wallet.ValidateRequest(req.UserID, req.Amount); err != nil {
		log.Printf("layer=service component=payment method=Deposit user_id=%s amount=%s err=%v", req.UserID, req.Amount, err)
		return nil, errors.Join(db.ErrInvalid, err)
	}

	raw, err := s.gateway.Post(ctx, "/charge", map[string]any{
		"userId": req.UserID,
		"amount": req.Amount,
		"source": req.Source,
	})
	if err != nil {
		log.Printf("layer=service component=payment method=Deposit user_id=%s amount=%s err=%v", req.UserID, req.Amount, err)
		if s.metrics != nil {
			s.metrics.GatewayFailures.Add(1)
		}
		s.publish(ctx, ToPaymentFailedEvent(req.UserID, req.Amount, "", "", FailureReason(err)))
		return nil, err
	}

	if _, err := s.ledger.Deposit(ctx, req.UserID, req.Amount); err != nil {
		log.Printf("layer=service component=payment method=Deposit user_id=%s amount=%s err=%v", req.UserID, req.Amount, err)
		return nil, err
	}

	s.publish(ctx, ToDepositAddedEvent(req.UserID, req.Amount, req.Source))
	return raw, nil
}

func (s *Service) CreateIntent(ctx context.Context, req CreateIntentRequest) (json.RawMessage, error) {
	if err := wallet.ValidateRequest(req.UserID, req.Amount); err != nil {
		log.Printf("layer=service component=payment method=CreateIntent user_id=%s amount=%s err=%v", req.UserID, req.Amount, err)
		return nil, errors.Join(db.ErrInvalid, err)
	}

	raw, err := s.gateway.Post(ctx, "/create-payment-intent", map[string]any{
		"userId": req.UserID,
		"amount": req.Amount,
		"meta":   req.Meta,
	})
	if err != nil {
		log.Printf("layer=service component=payment method=CreateIntent user_id=%s amount=%s err=%v", req.UserID, req.Amount, err)
		if s.metrics != nil {
			s.metrics.GatewayFailures.Add(1)
		}
		s.publish(ctx, ToPaymentFailedEvent(req.UserID, req.Amount, "", "", FailureReason(err)))
		return nil, err
	}
	return raw, nil
}

func (s *Service) Freeze(ctx context.Context, req FreezeRequest) (string, error) {
	if err := wallet.ValidateRequest(req.UserID, req.Amount); err != nil {
		log.Printf("layer=service component=payment method=Freeze user_id=%s amount=%s err=%v", req.UserID, req.Amount, err)
		return "", errors.Join(db.ErrInvalid, err)
	}

	reservationID, _, err := s.ledger.Freeze(ctx, req.UserID, req.Amount)
	if err != nil {
		log.Printf("layer=service component=payment method=Freeze user_id=%s amount=%s err=%v", req.UserID, req.Amount, err)
		if errors.Is(err, wallet.ErrInsufficientFunds) {
			s.publish(ctx, ToPaymentFailedEvent(req.UserID, req.Amount, "", req.Email, FailureReason(err)))
		}
		return "", err
	}

	s.publish(ctx, ToPaymentLockedEvent(req, reservationID))
	return reservationID, nil
}

func (s *Service) Unfreeze(ctx context.Context, req UnfreezeRequest) error {
	if err := wallet.ValidateRequest(req.UserID, req.Amount); err != nil {
		log.Printf("layer=service component=payment method=Unfreeze user_id=%s amount=%s err=%v", req.UserID, req.Amount, err)
		return errors.Join(db.ErrInvalid, err)
	}

	if _, err := s.ledger.Unfreeze(ctx, req.UserID, req.Amount, req.ReservationID); err != nil {
		log.Printf("layer=service component=payment method=Unfreeze user_id=%s amount=%s reservation_id=%s err=%v", req.UserID, req.Amount, req.ReservationID, err)
		return err
	}

	s.publish(ctx, ToPaymentUnlockedEvent(req))
	return nil
}

func (s *Service) Deduct(ctx context.Context, req DeductRequest) (decimal.Decimal, error) {
	if err := wallet.ValidateRequest(req.UserID, req.Amount); err != nil {
		log.Printf("layer=service component=payment method=Deduct user_id=%s amount=%s err=%v", req.UserID, req.Amount, err)
		return decimal.Zero, errors.Join(db.ErrInvalid, err)
	}

	w, err := s.ledger.Deduct(ctx, req.UserID, req.Amount, req.ReservationID)
	if err != nil {
		log.Printf("layer=service component=payment method=Deduct user_id=%s amount=%s reservation_id=%s err=%v", req.UserID, req.Amount, req.ReservationID, err)
		if errors.Is(err, wallet.ErrLockedInsufficient) || errors.Is(err, wallet.ErrReservationResolved) || errors.Is(err, wallet.ErrReservationNotFound) {
			s.publish(ctx, ToPaymentFailedEvent(req.UserID, req.Amount, req.ReservationID, req.Email, FailureReason(err)))
		}
		return decimal.Zero, err
	}

	s.publish(ctx, ToPaymentSuccessEvent(req, w.Balance))
	return w.Balance, nil
}

// publish is awaited but best-effort: failures are logged and counted, never
// propagated to the caller.
func (s *Service) publish(ctx context.Context, evt broker.Event) {
	if s.audit != nil {
		s.audit.Record(ctx, evt)
	}
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		log.Printf("layer=service component=payment method=publish event=%s err=%v", evt.Name(), err)
		if s.metrics != nil {
			s.metrics.EventsFailed.Add(1)
		}
		return
	}
	if s.metrics != nil {
		s.metrics.EventsPublished.Add(1)
	}
}
