package handlers

import (
	"context"
	"net/http"

	"github.com/ebaazee/payment-service/internal/health"
)

type HealthServiceContract interface {
	Check(ctx context.Context) health.Result
}

type Health struct {
	svc HealthServiceContract
}

func NewHealth(svc HealthServiceContract) *Health {
	return &Health{svc: svc}
}

func (h *Health) Handler(w http.ResponseWriter, r *http.Request) {
	res := h.svc.Check(r.Context())
	status := http.StatusOK
	if !res.OK {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{"ok": res.OK, "checks": res.Checks, "at": res.At})
}
