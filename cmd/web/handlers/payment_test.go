package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ebaazee/payment-service/cmd/web/validator"
	"github.com/ebaazee/payment-service/kit/db"
	"github.com/ebaazee/payment-service/kit/gateway"
)

func TestPayment_Create(t *testing.T) {
	var tests = []struct {
		name           string
		body           string
		handler        func() *Payment
		expectedStatus int
		assertBody     func(t *testing.T, body []byte)
	}{
		{
			name: "invalid json",
			body: `{"userId":`,
			handler: func() *Payment {
				return NewPayment(validator.NewJSON(), new(paymentServiceMock))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "validation failure",
			body: `{"userId":"","amount":10}`,
			handler: func() *Payment {
				svc := new(paymentServiceMock)
				svc.On("CreateIntent", mock.Anything, mock.Anything).
					Return(nil, errors.Join(db.ErrInvalid, errors.New("user id required")))
				return NewPayment(validator.NewJSON(), svc)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "circuit open maps to 502",
			body: `{"userId":"u1","amount":10}`,
			handler: func() *Payment {
				svc := new(paymentServiceMock)
				svc.On("CreateIntent", mock.Anything, mock.Anything).Return(nil, gateway.ErrCircuitOpen)
				return NewPayment(validator.NewJSON(), svc)
			},
			expectedStatus: http.StatusBadGateway,
			assertBody: func(t *testing.T, body []byte) {
				var m map[string]any
				require.NoError(t, json.Unmarshal(body, &m))
				require.Equal(t, "breaker_open", m["error"])
			},
		},
		{
			name: "gateway response relayed verbatim",
			body: `{"userId":"u1","amount":10,"meta":{"orderId":"o1"}}`,
			handler: func() *Payment {
				svc := new(paymentServiceMock)
				svc.On("CreateIntent", mock.Anything, mock.Anything).
					Return(json.RawMessage(`{"clientSecret":"cs_123","status":"requires_confirmation"}`), nil)
				return NewPayment(validator.NewJSON(), svc)
			},
			expectedStatus: http.StatusOK,
			assertBody: func(t *testing.T, body []byte) {
				require.JSONEq(t, `{"clientSecret":"cs_123","status":"requires_confirmation"}`, string(body))
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rr := httptest.NewRecorder()
			tt.handler().Create(rr, mkReq(t, "/payment/create", tt.body))

			require.Equal(t, tt.expectedStatus, rr.Code)
			if tt.assertBody != nil {
				tt.assertBody(t, rr.Body.Bytes())
			}
		})
	}
}
