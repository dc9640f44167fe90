package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/ebaazee/payment-service/cmd/web/validator"
	"github.com/ebaazee/payment-service/internal/payment"
)

type IntentServiceContract interface {
	CreateIntent(ctx context.Context, req payment.CreateIntentRequest) (json.RawMessage, error)
}

type Payment struct {
	json     *validator.JSON
	payments IntentServiceContract
}

func NewPayment(jsonV *validator.JSON, payments IntentServiceContract) *Payment {
	return &Payment{json: jsonV, payments: payments}
}

type createIntentReq struct {
	UserID string          `json:"userId"`
	Amount decimal.Decimal `json:"amount"`
	Meta   map[string]any  `json:"meta,omitempty"`
}

// Create forwards a payment-intent request to the gateway and relays its
// response verbatim; the ledger is not touched.
func (h *Payment) Create(w http.ResponseWriter, r *http.Request) {
	var req createIntentReq
	if err := h.json.Decode(w, r, &req); err != nil {
		log.Printf("layer=handler component=payment method=Create err=%v", err)
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_json"})
		return
	}

	raw, err := h.payments.CreateIntent(r.Context(), payment.CreateIntentRequest{UserID: req.UserID, Amount: req.Amount, Meta: req.Meta})
	if err != nil {
		writeFailure(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(raw); err != nil {
		log.Printf("layer=handler component=payment method=Create err=%v", err)
	}
}
