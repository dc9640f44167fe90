package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"
)

type BreakerConfig struct {
	FailureThreshold int
	SuccessThreshold int
	OpenTimeout      time.Duration
	IsFailure        func(error) bool
}

// Breaker wraps a Client with a circuit breaker. Closed passes calls through,
// open fails fast with ErrCircuitOpen, half-open lets a single trial call
// through after OpenTimeout.
type Breaker struct {
	next Client
	cfg  BreakerConfig

	mu           sync.Mutex
	state        int
	failures     int
	successes    int
	openedAt     time.Time
	halfInFlight bool
}

const (
	cbClosed = iota
	cbOpen
	cbHalfOpen
)

func NewBreaker(next Client, cfg BreakerConfig) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 1
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 10 * time.Second
	}
	if cfg.IsFailure == nil {
		cfg.IsFailure = func(err error) bool {
			return errors.Is(err, ErrTimeout) || errors.Is(err, ErrServer) || errors.Is(err, context.DeadlineExceeded)
		}
	}
	return &Breaker{next: next, cfg: cfg, state: cbClosed}
}

func (b *Breaker) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	if err := b.beforeCall(); err != nil {
		return nil, err
	}

	raw, err := b.next.Post(ctx, path, body)
	b.afterCall(err)
	return raw, err
}

func (b *Breaker) beforeCall() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case cbClosed:
		return nil
	case cbOpen:
		if time.Since(b.openedAt) >= b.cfg.OpenTimeout {
			b.state = cbHalfOpen
			b.successes = 0
			b.halfInFlight = false
			log.Printf("layer=kit component=gateway method=beforeCall breaker=half_open")
		} else {
			return ErrCircuitOpen
		}
		fallthrough
	case cbHalfOpen:
		if b.halfInFlight {
			return ErrCircuitOpen
		}
		b.halfInFlight = true
		return nil
	default:
		return ErrCircuitOpen
	}
}

func (b *Breaker) afterCall(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == cbHalfOpen {
		b.halfInFlight = false
	}

	if err == nil {
		switch b.state {
		case cbClosed:
			b.failures = 0
		case cbHalfOpen:
			b.successes++
			if b.successes >= b.cfg.SuccessThreshold {
				b.state = cbClosed
				b.failures = 0
				b.successes = 0
				log.Printf("layer=kit component=gateway method=afterCall breaker=closed")
			}
		}
		return
	}

	if !b.cfg.IsFailure(err) {
		return
	}

	switch b.state {
	case cbClosed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.state = cbOpen
			b.openedAt = time.Now().UTC()
			b.successes = 0
			b.halfInFlight = false
			log.Printf("layer=kit component=gateway method=afterCall breaker=open failures=%d", b.failures)
		}
	case cbHalfOpen:
		b.state = cbOpen
		b.openedAt = time.Now().UTC()
		b.failures = b.cfg.FailureThreshold
		b.successes = 0
		b.halfInFlight = false
		log.Printf("layer=kit component=gateway method=afterCall breaker=open trial_failed=true")
	}
}
