package runner

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeApp struct {
	started atomic.Bool
	stopped atomic.Bool
	done    chan struct{}
}

func newFakeApp() *fakeApp {
	return &fakeApp{done: make(chan struct{})}
}

func (a *fakeApp) Start() error {
	a.started.Store(true)
	<-a.done
	return nil
}

func (a *fakeApp) Stop() error {
	a.stopped.Store(true)
	close(a.done)
	return nil
}

func TestRunStopsOnContextCancel(t *testing.T) {
	app := newFakeApp()
	var onStop atomic.Bool
	r := New(app, Hooks{OnStop: func() { onStop.Store(true) }})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- r.Run(ctx) }()

	require.Eventually(t, app.started.Load, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("run did not return after cancel")
	}
	assert.True(t, app.stopped.Load())
	assert.True(t, onStop.Load())
	assert.Equal(t, StateStopped, r.State())
}

func TestRunIsSingleUse(t *testing.T) {
	app := newFakeApp()
	r := New(app, Hooks{})

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = r.Run(ctx) }()
	require.Eventually(t, app.started.Load, time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, r.Run(context.Background()), ErrAlreadyRun)
	cancel()
}

func TestStopIsIdempotent(t *testing.T) {
	app := newFakeApp()
	r := New(app, Hooks{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Run(ctx) }()
	require.Eventually(t, app.started.Load, time.Second, 5*time.Millisecond)

	require.NoError(t, r.Stop())
	require.NoError(t, r.Stop())
	assert.Equal(t, StateStopped, r.State())
}
