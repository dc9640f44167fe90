package gateway

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubClient struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (s *stubClient) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return json.RawMessage(`{"status":"success"}`), nil
}

func (s *stubClient) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *stubClient) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestBreaker_OpensAfterThresholdAndFailsFast(t *testing.T) {
	ctx := context.Background()
	stub := &stubClient{err: ErrServer}
	b := NewBreaker(stub, BreakerConfig{FailureThreshold: 3, OpenTimeout: time.Hour})

	for i := 0; i < 3; i++ {
		_, err := b.Post(ctx, "/charge", nil)
		require.ErrorIs(t, err, ErrServer)
	}
	require.Equal(t, 3, stub.callCount())

	// open: fail fast, no remote call attempted
	_, err := b.Post(ctx, "/charge", nil)
	require.ErrorIs(t, err, ErrCircuitOpen)
	require.Equal(t, 3, stub.callCount())
}

func TestBreaker_HalfOpenTrialClosesOnSuccess(t *testing.T) {
	ctx := context.Background()
	stub := &stubClient{err: ErrTimeout}
	b := NewBreaker(stub, BreakerConfig{FailureThreshold: 1, OpenTimeout: 10 * time.Millisecond})

	_, err := b.Post(ctx, "/charge", nil)
	require.ErrorIs(t, err, ErrTimeout)
	_, err = b.Post(ctx, "/charge", nil)
	require.ErrorIs(t, err, ErrCircuitOpen)

	time.Sleep(15 * time.Millisecond)
	stub.setErr(nil)

	// exactly one trial call allowed through, success closes the breaker
	_, err = b.Post(ctx, "/charge", nil)
	require.NoError(t, err)
	_, err = b.Post(ctx, "/charge", nil)
	require.NoError(t, err)
}

func TestBreaker_HalfOpenTrialReopensOnFailure(t *testing.T) {
	ctx := context.Background()
	stub := &stubClient{err: ErrServer}
	b := NewBreaker(stub, BreakerConfig{FailureThreshold: 1, OpenTimeout: 10 * time.Millisecond})

	_, err := b.Post(ctx, "/charge", nil)
	require.ErrorIs(t, err, ErrServer)

	time.Sleep(15 * time.Millisecond)

	_, err = b.Post(ctx, "/charge", nil)
	require.ErrorIs(t, err, ErrServer)

	// the failed trial reopened the circuit
	_, err = b.Post(ctx, "/charge", nil)
	require.ErrorIs(t, err, ErrCircuitOpen)
}

func TestBreaker_ClientErrorsDoNotTrip(t *testing.T) {
	ctx := context.Background()
	stub := &stubClient{err: ErrClient}
	b := NewBreaker(stub, BreakerConfig{FailureThreshold: 1, OpenTimeout: time.Hour})

	// 4xx responses are the caller's fault, not the gateway's health
	for i := 0; i < 5; i++ {
		_, err := b.Post(ctx, "/charge", nil)
		require.ErrorIs(t, err, ErrClient)
	}
	require.Equal(t, 5, stub.callCount())
}
