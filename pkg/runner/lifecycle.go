package runner

import (
	"errors"
	"sync"
	"sync/atomic"
)

var ErrAlreadyRun = errors.New("runner already started")

// Runner owns one App's lifecycle and makes Stop idempotent.
type Runner struct {
	state    int32
	app      App
	hooks    Hooks
	onceStop sync.Once
	stopErr  error
}

func New(app App, hooks Hooks) *Runner {
	return &Runner{state: int32(StateNew), app: app, hooks: hooks}
}

// Stop shuts the app down. Safe to call from a signal handler while Run is
// blocked.
func (r *Runner) Stop() error {
	return r.shutdown()
}

func (r *Runner) State() State {
	return State(atomic.LoadInt32(&r.state))
}

func (r *Runner) shutdown() error {
	r.onceStop.Do(func() {
		r.setState(StateStopping)
		r.stopErr = r.app.Stop()
		if r.hooks.OnStop != nil {
			r.hooks.OnStop()
		}
		r.setState(StateStopped)
	})
	return r.stopErr
}

func (r *Runner) casState(from, to State) bool {
	return atomic.CompareAndSwapInt32(&r.state, int32(from), int32(to))
}

func (r *Runner) setState(s State) {
	atomic.StoreInt32(&r.state, int32(s))
}
