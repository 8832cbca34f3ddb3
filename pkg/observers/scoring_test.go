package observers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pratamaditya/ucap/pkg/metrics"
)

func event(name string, latencyMS int64) metrics.Event {
	return metrics.Event{
		Name:   name,
		Time:   time.Now(),
		Fields: map[string]any{"latency_ms": latencyMS},
	}
}

func TestScoringStatsAggregates(t *testing.T) {
	stats := NewScoringStats()
	stats.RecordEvent(event("score_ok", 100))
	stats.RecordEvent(event("score_ok", 300))
	stats.RecordEvent(event("score_fallback", 200))
	stats.RecordEvent(event("score_unavailable", 0))
	stats.RecordEvent(event("unrelated", 50))

	snap := stats.Snapshot()
	assert.Equal(t, int64(2), snap.Scored)
	assert.Equal(t, int64(1), snap.Fallbacks)
	assert.Equal(t, int64(1), snap.Unavailable)
	assert.Equal(t, int64(200), snap.MeanLatencyMS)
}

func TestMultiObserverFansOut(t *testing.T) {
	a := metrics.NewMemoryObserver()
	b := metrics.NewMemoryObserver()
	multi := NewMultiObserver(a, nil, b)
	multi.RecordEvent(event("score_ok", 10))

	assert.Len(t, a.Events(), 1)
	assert.Len(t, b.Events(), 1)
}
