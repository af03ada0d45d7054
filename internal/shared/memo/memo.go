// Package memo caches derived values keyed by an input revision.
package memo

import "sync"

// Selector recomputes its value only when the input revision changes, so
// repeated reads of unchanged input return the same result value.
type Selector[S, R any] struct {
	key     func(S) uint64
	compute func(S) R

	mu             sync.Mutex
	seen           bool
	last           uint64
	value          R
	recomputations int
}

// New builds a selector. key extracts the revision of the input.
func New[S, R any](key func(S) uint64, compute func(S) R) *Selector[S, R] {
	return &Selector[S, R]{key: key, compute: compute}
}

// Select returns the cached value for in, computing it on a revision change.
func (s *Selector[S, R]) Select(in S) R {
	rev := s.key(in)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen && s.last == rev {
		return s.value
	}
	s.value = s.compute(in)
	s.last = rev
	s.seen = true
	s.recomputations++
	return s.value
}

// Recomputations counts how many times compute ran.
func (s *Selector[S, R]) Recomputations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recomputations
}

// Family hands out one selector per parameter value.
type Family[P comparable, S, R any] struct {
	build func(P) *Selector[S, R]

	mu      sync.Mutex
	members map[P]*Selector[S, R]
}

// NewFamily builds a parameterized selector family.
func NewFamily[P comparable, S, R any](build func(P) *Selector[S, R]) *Family[P, S, R] {
	return &Family[P, S, R]{build: build, members: map[P]*Selector[S, R]{}}
}

// For returns the selector bound to p, creating it on first use.
func (f *Family[P, S, R]) For(p P) *Selector[S, R] {
	f.mu.Lock()
	defer f.mu.Unlock()
	if sel, ok := f.members[p]; ok {
		return sel
	}
	sel := f.build(p)
	f.members[p] = sel
	return sel
}

// Len reports how many parameterized selectors exist.
func (f *Family[P, S, R]) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.members)
}
