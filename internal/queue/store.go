package queue

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store owns the current State and notifies listeners after every change.
type Store struct {
	mu          sync.RWMutex
	state       State
	newID       func() string
	now         func() time.Time
	subscribers []func()
	changeCh    chan struct{}
}

type StoreOption func(*Store)

// WithIDFunc overrides plan id generation. Tests use it for stable ids.
func WithIDFunc(fn func() string) StoreOption {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithClock overrides the time source used for history timestamps.
func WithClock(fn func() time.Time) StoreOption {
	return func(s *Store) {
		if fn != nil {
			s.now = fn
		}
	}
}

func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		state:    New(),
		newID:    uuid.NewString,
		now:      time.Now,
		changeCh: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Apply replaces the state with fn(state) and notifies listeners.
func (s *Store) Apply(fn func(State) State) State {
	s.mu.Lock()
	s.state = fn(s.state)
	next := s.state
	s.mu.Unlock()
	s.notify()
	return next
}

func (s *Store) Connect() State          { return s.Apply(State.Connect) }
func (s *Store) Disconnect() State       { return s.Apply(State.Disconnect) }
func (s *Store) OpenEnvironment() State  { return s.Apply(State.OpenEnvironment) }
func (s *Store) CloseEnvironment() State { return s.Apply(State.CloseEnvironment) }
func (s *Store) ToggleEnvDestroy() State { return s.Apply(State.ToggleEnvDestroy) }
func (s *Store) ClearQueue() State       { return s.Apply(State.ClearQueue) }
func (s *Store) Start() State            { return s.Apply(State.Start) }

func (s *Store) AddPlan() State {
	id := s.newID()
	return s.Apply(func(st State) State { return st.AddPlan(id) })
}

func (s *Store) RemovePlan(id string) State {
	return s.Apply(func(st State) State { return st.RemovePlan(id) })
}

func (s *Store) Rerun(item HistoryItem) State {
	id := s.newID()
	return s.Apply(func(st State) State { return st.Rerun(item, id) })
}

func (s *Store) Stop() State {
	now := s.now()
	return s.Apply(func(st State) State { return st.Stop(now) })
}

func (s *Store) Log(line string) State {
	return s.Apply(func(st State) State { return st.AppendLog(line) })
}

func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) Changes() <-chan struct{} {
	return s.changeCh
}

func (s *Store) notify() {
	s.mu.RLock()
	subs := make([]func(), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.RUnlock()

	for _, fn := range subs {
		fn()
	}

	select {
	case s.changeCh <- struct{}{}:
	default:
	}
}
