package resilience

import (
	"errors"
	"sync"
	"time"
)

// RateLimitError is a provider telling us to back off. Callers surface it
// differently from ordinary failures, so it keeps its own type.
type RateLimitError struct {
	Provider string
	Message  string
}

func (e RateLimitError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "rate limit"
}

func IsRateLimit(err error) bool {
	var rl RateLimitError
	return errors.As(err, &rl)
}

// CircuitBreaker trips after a run of consecutive failures and rejects
// calls until the cooldown passes. One probe call is let through after the
// cooldown; its outcome decides whether the circuit closes again.
type CircuitBreaker struct {
	mu        sync.Mutex
	threshold int
	cooldown  time.Duration
	failures  int
	openedAt  time.Time
	open      bool
	probing   bool
}

func NewCircuitBreaker(threshold int, cooldown time.Duration) *CircuitBreaker {
	if threshold <= 0 {
		threshold = 3
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &CircuitBreaker{threshold: threshold, cooldown: cooldown}
}

func (c *CircuitBreaker) Allow() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		return true
	}
	if time.Since(c.openedAt) < c.cooldown {
		return false
	}
	if c.probing {
		return false
	}
	c.probing = true
	return true
}

func (c *CircuitBreaker) OnSuccess() {
	c.mu.Lock()
	c.failures = 0
	c.open = false
	c.probing = false
	c.mu.Unlock()
}

func (c *CircuitBreaker) OnError(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.probing {
		// Failed probe: re-open for another full cooldown.
		c.probing = false
		c.openedAt = time.Now()
		return
	}
	c.failures++
	if c.failures >= c.threshold {
		c.open = true
		c.openedAt = time.Now()
	}
}
