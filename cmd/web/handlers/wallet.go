package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/ebaazee/payment-service/cmd/web/validator"
	"github.com/ebaazee/payment-service/internal/payment"
	"github.com/ebaazee/payment-service/internal/wallet"
	"github.com/ebaazee/payment-service/kit/db"
	"github.com/ebaazee/payment-service/kit/gateway"
)

type PaymentServiceContract interface {
	Deposit(ctx context.Context, req payment.DepositRequest) (json.RawMessage, error)
	Freeze(ctx context.Context, req payment.FreezeRequest) (string, error)
	Unfreeze(ctx context.Context, req payment.UnfreezeRequest) error
	Deduct(ctx context.Context, req payment.DeductRequest) (decimal.Decimal, error)
}

type BalanceServiceContract interface {
	Balance(ctx context.Context, userID string) (wallet.Wallet, error)
}

type Wallet struct {
	json     *validator.JSON
	payments PaymentServiceContract
	wallet   BalanceServiceContract
}

func NewWallet(jsonV *validator.JSON, payments PaymentServiceContract, walletSvc BalanceServiceContract) *Wallet {
	return &Wallet{json: jsonV, payments: payments, wallet: walletSvc}
}

type depositReq struct {
	UserID string          `json:"userId"`
	Amount decimal.Decimal `json:"amount"`
	Source string          `json:"source"`
}

func (h *Wallet) Deposit(w http.ResponseWriter, r *http.Request) {
	var req depositReq
	if err := h.json.Decode(w, r, &req); err != nil {
		log.Printf("layer=handler component=wallet method=Deposit err=%v", err)
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_json"})
		return
	}

	raw, err := h.payments.Deposit(r.Context(), payment.DepositRequest{UserID: req.UserID, Amount: req.Amount, Source: req.Source})
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "gateway": raw})
}

func (h *Wallet) Balance(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	if userID == "" {
		log.Printf("layer=handler component=wallet method=Balance err=missing user_id")
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "userId required"})
		return
	}
	bal, err := h.wallet.Balance(r.Context(), userID)
	if err != nil {
		log.Printf("layer=handler component=wallet method=Balance user_id=%s err=%v", userID, err)
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"balance": bal.Balance, "locked": bal.Locked})
}

type freezeReq struct {
	UserID string          `json:"userId"`
	Amount decimal.Decimal `json:"amount"`
	Email  string          `json:"email,omitempty"`
}

func (h *Wallet) Freeze(w http.ResponseWriter, r *http.Request) {
	var req freezeReq
	if err := h.json.Decode(w, r, &req); err != nil {
		log.Printf("layer=handler component=wallet method=Freeze err=%v", err)
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_json"})
		return
	}

	reservationID, err := h.payments.Freeze(r.Context(), payment.FreezeRequest{UserID: req.UserID, Amount: req.Amount, Email: req.Email})
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "reservationId": reservationID})
}

type unfreezeReq struct {
	UserID        string          `json:"userId"`
	Amount        decimal.Decimal `json:"amount"`
	ReservationID string          `json:"reservationId,omitempty"`
}

func (h *Wallet) Unfreeze(w http.ResponseWriter, r *http.Request) {
	var req unfreezeReq
	if err := h.json.Decode(w, r, &req); err != nil {
		log.Printf("layer=handler component=wallet method=Unfreeze err=%v", err)
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_json"})
		return
	}

	err := h.payments.Unfreeze(r.Context(), payment.UnfreezeRequest{UserID: req.UserID, Amount: req.Amount, ReservationID: req.ReservationID})
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type deductReq struct {
	UserID        string          `json:"userId"`
	Amount        decimal.Decimal `json:"amount"`
	AuctionID     string          `json:"auctionId,omitempty"`
	ReservationID string          `json:"reservationId,omitempty"`
	Email         string          `json:"email,omitempty"`
}

func (h *Wallet) Deduct(w http.ResponseWriter, r *http.Request) {
	var req deductReq
	if err := h.json.Decode(w, r, &req); err != nil {
		log.Printf("layer=handler component=wallet method=Deduct err=%v", err)
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_json"})
		return
	}

	balance, err := h.payments.Deduct(r.Context(), payment.DeductRequest{
		UserID:        req.UserID,
		Amount:        req.Amount,
		AuctionID:     req.AuctionID,
		ReservationID: req.ReservationID,
		Email:         req.Email,
	})
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "balance": balance})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("layer=handler component=wallet method=writeJSON err=%v", err)
	}
}

// writeFailure maps the error taxonomy to the HTTP surface: validation 400,
// business rejections 400 with a reason, gateway trouble 502, everything else
// 500.
func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wallet.ErrInsufficientFunds),
		errors.Is(err, wallet.ErrLockedInsufficient):
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "reason": payment.FailureReason(err)})
	case errors.Is(err, wallet.ErrReservationNotFound),
		errors.Is(err, wallet.ErrReservationResolved):
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "reason": err.Error()})
	case db.IsInvalid(err):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "userId/amount required"})
	case gateway.IsGatewayError(err):
		writeJSON(w, http.StatusBadGateway, map[string]any{"error": payment.FailureReason(err)})
	case errors.Is(err, wallet.ErrInvariantViolation):
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "invariant_violation"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
	}
}
