package metrics

import (
	"sync"
	"sync/atomic"
)

// AsyncObserver decouples the hot path from a slow sink. Events that do not
// fit in the buffer are counted and dropped rather than blocking a scoring
// request.
type AsyncObserver struct {
	sink    Observer
	events  chan Event
	dropped atomic.Int64
	done    chan struct{}
	closed  atomic.Bool
	once    sync.Once
}

func NewAsyncObserver(sink Observer, buffer int) *AsyncObserver {
	if buffer <= 0 {
		buffer = 256
	}
	a := &AsyncObserver{
		sink:   sink,
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
	}
	go a.drain()
	return a
}

func (a *AsyncObserver) RecordEvent(ev Event) {
	if a == nil || a.closed.Load() {
		return
	}
	select {
	case a.events <- ev:
	default:
		a.dropped.Add(1)
	}
}

// Dropped reports how many events were discarded because the buffer was
// full.
func (a *AsyncObserver) Dropped() int64 {
	return a.dropped.Load()
}

// Close stops accepting events and waits for buffered ones to reach the
// sink.
func (a *AsyncObserver) Close() {
	if a == nil {
		return
	}
	a.once.Do(func() {
		a.closed.Store(true)
		close(a.events)
		<-a.done
	})
}

func (a *AsyncObserver) drain() {
	for ev := range a.events {
		a.sink.RecordEvent(ev)
	}
	close(a.done)
}
