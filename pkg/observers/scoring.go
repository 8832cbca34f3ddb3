package observers

import (
	"sync"

	"github.com/pratamaditya/ucap/pkg/metrics"
)

// ScoringStats aggregates scorer outcomes so operators can watch the
// fallback and failure rates without reading the raw event stream.
type ScoringStats struct {
	mu            sync.Mutex
	scored        int64
	fallbacks     int64
	unavailable   int64
	totalLatency  int64
	latencySample int64
}

// StatsSnapshot is a point-in-time copy of the counters.
type StatsSnapshot struct {
	Scored        int64 `json:"scored"`
	Fallbacks     int64 `json:"fallbacks"`
	Unavailable   int64 `json:"unavailable"`
	MeanLatencyMS int64 `json:"meanLatencyMs"`
}

func NewScoringStats() *ScoringStats {
	return &ScoringStats{}
}

func (s *ScoringStats) RecordEvent(ev metrics.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch ev.Name {
	case "score_ok":
		s.scored++
	case "score_fallback":
		s.fallbacks++
	case "score_unavailable":
		s.unavailable++
	default:
		return
	}
	if ms, ok := ev.Fields["latency_ms"].(int64); ok && ms > 0 {
		s.totalLatency += ms
		s.latencySample++
	}
}

func (s *ScoringStats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := StatsSnapshot{
		Scored:      s.scored,
		Fallbacks:   s.fallbacks,
		Unavailable: s.unavailable,
	}
	if s.latencySample > 0 {
		snap.MeanLatencyMS = s.totalLatency / s.latencySample
	}
	return snap
}
