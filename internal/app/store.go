package app

import (
	"sync"
)

// Store owns State. All writes go through Update; readers get copies.
type Store struct {
	mu     sync.Mutex
	state  State
	subsMu sync.Mutex
	subs   map[int]func(State)
	nextID int
}

// NewStore creates a store holding initial
func NewStore(initial State) *Store {
	if initial.InFlight == nil {
		initial.InFlight = map[string]bool{}
	}
	return &Store{
		state: initial,
		subs:  map[int]func(State){},
	}
}

// Update applies fn under the store lock, then notifies subscribers with the
// resulting snapshot. fn must not call back into the store.
func (s *Store) Update(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	snap := s.state.clone()
	s.mu.Unlock()

	s.subsMu.Lock()
	subs := make([]func(State), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.subsMu.Unlock()

	for _, sub := range subs {
		sub(snap)
	}
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn to receive every post-update snapshot. The returned
// func removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		delete(s.subs, id)
	}
}
