package dialogue

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Session binds a dialogue State to one learner. Mutations go through Do so
// that concurrent requests for the same session are applied one at a time,
// in arrival order.
type Session struct {
	ID      string
	UserID  int64
	Created time.Time

	mu    sync.Mutex
	state State
}

// Do runs fn with exclusive access to the session state. fn receives the
// current state and returns the next one; returning an error leaves the
// state unchanged.
func (s *Session) Do(fn func(State) (State, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(s.state)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Registry tracks live dialogue sessions in memory. Sessions are
// request-owned bookkeeping only; durable progress lives in the store.
type Registry struct {
	sessions sync.Map
	count    atomic.Int64
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Create(userID int64, state State) *Session {
	sess := &Session{
		ID:      uuid.NewString(),
		UserID:  userID,
		Created: time.Now(),
		state:   state,
	}
	r.sessions.Store(sess.ID, sess)
	r.count.Add(1)
	return sess
}

func (r *Registry) Get(id string) (*Session, bool) {
	if v, ok := r.sessions.Load(id); ok {
		return v.(*Session), true
	}
	return nil, false
}

func (r *Registry) Remove(id string) {
	if _, ok := r.sessions.LoadAndDelete(id); ok {
		r.count.Add(-1)
	}
}

func (r *Registry) Count() int64 {
	return r.count.Load()
}
