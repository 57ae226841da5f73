// Package store runs the client's dispatch loop: one mutex-serialized
// reducer application at a time, run to completion, in dispatch order.
//
// Thunks run on their own goroutines and may suspend on network calls;
// the store is their only synchronization point. A continuation must re-read
// State() after every suspension instead of trusting closed-over snapshots.
package store

import (
	"sync"

	"curio-cli/internal/reducers"
	"curio-cli/internal/state"
)

type Store struct {
	mu   sync.RWMutex
	root *reducers.Root
	st   *state.State
	subs []func()
}

// New builds a store with the full reducer root and initial state.
// Reducer registration collisions panic here, at startup.
func New() *Store {
	return &Store{
		root: reducers.NewRoot(),
		st:   state.New(),
	}
}

// NewWith starts from a pre-seeded snapshot (offline cache import).
func NewWith(st *state.State) *Store {
	if st == nil {
		st = state.New()
	}
	return &Store{
		root: reducers.NewRoot(),
		st:   st,
	}
}

// State returns the current snapshot. Snapshots are immutable; two calls
// return the same pointer iff no action changed the state in between.
func (s *Store) State() *state.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st
}

// Dispatch applies one action. Subscribers are notified only when the
// snapshot pointer changed.
func (s *Store) Dispatch(a reducers.Action) {
	s.mu.Lock()
	prev := s.st
	next := s.root.Apply(prev, a)
	s.st = next
	subs := s.subs
	s.mu.Unlock()

	if next == prev {
		return
	}
	for _, fn := range subs {
		fn()
	}
}

// DispatchIf applies a only when pred holds for the current snapshot,
// atomically. This is the check-and-set used by per-page re-entrancy guards:
// two concurrent thunks cannot both observe "not fetching" and proceed.
func (s *Store) DispatchIf(pred func(*state.State) bool, a reducers.Action) bool {
	s.mu.Lock()
	if !pred(s.st) {
		s.mu.Unlock()
		return false
	}
	prev := s.st
	next := s.root.Apply(prev, a)
	s.st = next
	subs := s.subs
	s.mu.Unlock()

	if next != prev {
		for _, fn := range subs {
			fn()
		}
	}
	return true
}

// Subscribe registers a change listener. Listeners run after the new
// snapshot is published, outside the store lock.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}
