package handlers

import (
	"net/http"

	"github.com/ebaazee/payment-service/kit/observability"
)

type Metrics struct {
	metrics *observability.Metrics
}

func NewMetrics(m *observability.Metrics) *Metrics {
	return &Metrics{metrics: m}
}

func (h *Metrics) Handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.metrics.Snapshot())
}
