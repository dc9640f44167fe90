package broker

import "context"

// Event is a fact published to the events exchange. Name is the routing key.
type Event interface {
	Name() string
}

// Publisher delivers events to downstream services. Implementations must treat
// publishing as best-effort from the caller's perspective: a failed publish is
// reported through the returned error but must never undo the ledger mutation
// that produced the event.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}
