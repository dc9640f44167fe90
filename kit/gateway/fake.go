package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// FakeClient simulates the external gateway for local runs and tests. It
// mirrors the collaborator contract: /charge, /create-payment-intent, /verify
// and /refund always succeed.
type FakeClient struct{}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := time.Now().UnixMilli()
	switch path {
	case "/charge":
		return marshal(map[string]any{"status": "success", "transactionId": fmt.Sprintf("tx_%d", now)})
	case "/create-payment-intent":
		return marshal(map[string]any{"status": "requires_confirmation", "intentId": fmt.Sprintf("pi_%d", now)})
	case "/refund":
		return marshal(map[string]any{"status": "success", "refundId": fmt.Sprintf("refund_%d", now)})
	case "/verify":
		return marshal(map[string]any{"verified": true})
	default:
		return nil, ErrClient
	}
}

func marshal(v map[string]any) (json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return b, nil
}
