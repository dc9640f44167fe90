package observability

import "sync/atomic"

type Metrics struct {
	DepositsAdded   atomic.Int64
	FreezesAccepted atomic.Int64
	FreezesRejected atomic.Int64
	Deductions      atomic.Int64
	Releases        atomic.Int64
	GatewayFailures atomic.Int64
	EventsPublished atomic.Int64
	EventsFailed    atomic.Int64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

type Snapshot struct {
	DepositsAdded   int64 `json:"deposits_added"`
	FreezesAccepted int64 `json:"freezes_accepted"`
	FreezesRejected int64 `json:"freezes_rejected"`
	Deductions      int64 `json:"deductions"`
	Releases        int64 `json:"releases"`
	GatewayFailures int64 `json:"gateway_failures"`
	EventsPublished int64 `json:"events_published"`
	EventsFailed    int64 `json:"events_failed"`
}

func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		DepositsAdded:   m.DepositsAdded.Load(),
		FreezesAccepted: m.FreezesAccepted.Load(),
		FreezesRejected: m.FreezesRejected.Load(),
		Deductions:      m.Deductions.Load(),
		Releases:        m.Releases.Load(),
		GatewayFailures: m.GatewayFailures.Load(),
		EventsPublished: m.EventsPublished.Load(),
		EventsFailed:    m.EventsFailed.Load(),
	}
}
