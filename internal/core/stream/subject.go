// Package stream provides a minimal replay-latest broadcast primitive.
//
// A Subject fans one value out to many subscribers. The latest value is
// retained, so a late subscriber immediately receives current state rather
// than only future changes.
package stream

import (
	"sort"
	"sync"
)

// Subject is a multi-subscriber broadcast channel with replay-latest
// semantics. Next delivers synchronously, in call order, to every
// subscriber registered at the time of the call.
//
// Callbacks run while the Subject's lock is held: they must not call
// Next, Subscribe, or the cancel func of any subscription on the same
// Subject.
type Subject[T any] struct {
	mu     sync.Mutex
	last   T
	seeded bool
	subs   map[int]func(T)
	nextID int
}

// New returns an empty Subject. Subscribers receive nothing until the
// first Next call.
func New[T any]() *Subject[T] {
	return &Subject[T]{subs: make(map[int]func(T))}
}

// NewWithInitial returns a Subject pre-seeded with an initial value, the
// behavior-subject form: every subscriber always observes a value.
func NewWithInitial[T any](initial T) *Subject[T] {
	s := New[T]()
	s.last = initial
	s.seeded = true
	return s
}

// Next stores v as the latest value and delivers it to all current
// subscribers in ascending subscription order.
func (s *Subject[T]) Next(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.last = v
	s.seeded = true

	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := s.subs[id]; ok {
			fn(v)
		}
	}
}

// Subscribe registers fn and returns a cancel func. If a value has been
// emitted (or seeded) before, fn is invoked immediately with it.
func (s *Subject[T]) Subscribe(fn func(T)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	replay, seeded := s.last, s.seeded
	if seeded {
		fn(replay)
	}
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Value returns the latest value and whether one has been emitted yet.
func (s *Subject[T]) Value() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.seeded
}
