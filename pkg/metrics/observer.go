package metrics

import "time"

// Event is one scorer or pipeline measurement. Tags carry low-cardinality
// dimensions, Fields carry free-form values.
type Event struct {
	Name   string
	Time   time.Time
	Value  float64
	Tags   map[string]string
	Fields map[string]any
}

// Observer receives events. Implementations must not block the caller for
// long; slow sinks belong behind an AsyncObserver.
type Observer interface {
	RecordEvent(ev Event)
}

// NoopObserver discards everything.
type NoopObserver struct{}

func (NoopObserver) RecordEvent(Event) {}
