package gateway

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	ErrTimeout     = errors.New("gateway timeout")
	ErrServer      = errors.New("gateway 5xx")
	ErrClient      = errors.New("gateway 4xx")
	ErrCircuitOpen = errors.New("circuit open")
)

// IsGatewayError reports whether err came from the remote charge gateway or the
// breaker protecting it, as opposed to local validation or persistence.
func IsGatewayError(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrServer) ||
		errors.Is(err, ErrClient) || errors.Is(err, ErrCircuitOpen)
}

// Client posts to the external charge/verify/refund API. The response body is
// returned opaque; callers relay it without interpreting gateway-specific
// fields.
type Client interface {
	Post(ctx context.Context, path string, body any) (json.RawMessage, error)
}
