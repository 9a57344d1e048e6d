package state

import "sync"

// Store holds the current session snapshot and applies actions to it one at
// a time.
type Store struct {
	reducer Reducer

	mu       sync.RWMutex
	state    State
	version  uint64
	watchers map[int]chan struct{}
	nextID   int
}

// NewStore returns a Store starting from Initial() that reduces with r.
func NewStore(r Reducer) *Store {
	return &Store{reducer: r}
}

// Dispatch applies a to the current snapshot and notifies subscribers.
// Actions are applied strictly in call order.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(a)
}

// DispatchIf applies a only when pred holds for the current snapshot. It
// reports whether the action was applied.
func (s *Store) DispatchIf(pred func(State) bool, a Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !pred(s.state) {
		return false
	}
	s.applyLocked(a)
	return true
}

func (s *Store) applyLocked(a Action) State {
	s.state = s.reducer.Apply(s.state, a)
	s.version++
	for _, ch := range s.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return s.state
}

// Snapshot returns the current state. Snapshots share line slices with the
// store; neither side modifies them.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Version returns the number of actions applied so far.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Subscribe returns a channel that receives a value after every dispatch.
// Notifications coalesce: a subscriber that falls behind sees one pending
// signal and should read Snapshot for the latest state. The returned func
// stops delivery and closes the channel.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watchers == nil {
		s.watchers = make(map[int]chan struct{})
	}
	id := s.nextID
	s.nextID++
	ch := make(chan struct{}, 1)
	s.watchers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.watchers, id)
			close(ch)
		})
	}
}
