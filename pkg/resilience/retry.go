package resilience

import "time"

// RetryPolicy retries a call a fixed number of times with a constant pause.
// For exponential backoff against model providers see the llm package; this
// one covers short HTTP calls where a flat delay is enough.
type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

func NewRetryPolicy(maxRetries int, backoff time.Duration) RetryPolicy {
	if maxRetries <= 0 {
		maxRetries = 2
	}
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	return RetryPolicy{MaxRetries: maxRetries, Backoff: backoff}
}

func (r RetryPolicy) Do(fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil || attempt >= r.MaxRetries {
			return err
		}
		time.Sleep(r.Backoff)
	}
}
