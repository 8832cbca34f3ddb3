package metrics

import (
	"math"
	"sync/atomic"
)

// SamplingObserver forwards every n-th event. Deterministic counting keeps
// the effective rate stable even for short bursts.
type SamplingObserver struct {
	sink    Observer
	every   uint64
	counter atomic.Uint64
}

func NewSamplingObserver(sink Observer, rate float64) *SamplingObserver {
	var every uint64
	switch {
	case rate <= 0:
		every = 0
	case rate >= 1:
		every = 1
	default:
		every = uint64(math.Round(1.0 / rate))
		if every == 0 {
			every = 1
		}
	}
	return &SamplingObserver{sink: sink, every: every}
}

func (s *SamplingObserver) RecordEvent(ev Event) {
	switch s.every {
	case 0:
		return
	case 1:
		s.sink.RecordEvent(ev)
	default:
		if s.counter.Add(1)%s.every == 0 {
			s.sink.RecordEvent(ev)
		}
	}
}
