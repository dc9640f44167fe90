package broker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

type Handler func(ctx context.Context, evt Event) error

// Bus is an in-process publisher used for local runs and tests, where no
// RabbitMQ is available. Handlers are fanned out synchronously by routing key.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

func (b *Bus) Subscribe(routingKey string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[routingKey] = append(b.handlers[routingKey], h)
}

func (b *Bus) Publish(ctx context.Context, evt Event) error {
	b.mu.RLock()
	hs := append([]Handler(nil), b.handlers[evt.Name()]...)
	b.mu.RUnlock()

	var errs []error
	for i, h := range hs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("layer=kit component=broker method=Publish event=%s handler_index=%d panic=%v", evt.Name(), i, r)
					errs = append(errs, fmt.Errorf("handler panic: %v", r))
				}
			}()
			if err := h(ctx, evt); err != nil {
				log.Printf("layer=kit component=broker method=Publish event=%s handler_index=%d err=%v", evt.Name(), i, err)
				errs = append(errs, err)
			}
		}()
	}
	return errors.Join(errs...)
}

func (b *Bus) Close() error { return nil }
