package runner

import (
	"bytes"
	"context"
	"os"

	"github.com/dimiro1/banner"
)

// State tracks where the application is in its lifecycle.
type State int

const (
	StateNew State = iota
	StateStarting
	StateRunning
	StateStopping
	StateStopped
)

// App is anything the runner can drive: Start blocks serving until Stop.
type App interface {
	Start() error
	Stop() error
}

type Hooks struct {
	OnStart func()
	OnStop  func()
}

const Version = "dev"

func PrintBanner() {
	tpl := "{{ .Title \"UCAP\" \"\" 0 }}\nVersion: " + Version + "\n"
	banner.Init(os.Stdout, true, true, bytes.NewBufferString(tpl))
}

// Run drives app until ctx is cancelled or Start returns on its own, then
// stops it. The returned error is the first failure observed.
func (r *Runner) Run(ctx context.Context) error {
	if !r.casState(StateNew, StateStarting) {
		return ErrAlreadyRun
	}
	PrintBanner()
	if r.hooks.OnStart != nil {
		r.hooks.OnStart()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- r.app.Start()
	}()
	r.setState(StateRunning)

	select {
	case err := <-errCh:
		r.shutdown()
		return err
	case <-ctx.Done():
		err := r.shutdown()
		<-errCh
		return err
	}
}
