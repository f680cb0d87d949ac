package reactive

import "sync"

// Memo caches the result of compute and recomputes it only when one of its
// dependencies has changed since the last computation. Its own version moves
// whenever a recomputation produces a new value.
type Memo[T any] struct {
	mu       sync.Mutex
	compute  func() T
	deps     []Tracker
	seen     []uint64
	value    T
	version  uint64
	computed bool
	equal    func(a, b T) bool
	runs     uint64
}

// NewMemo creates a memo over deps. Nil dependencies are treated as constants.
// The first Get always computes.
func NewMemo[T comparable](compute func() T, deps ...Tracker) *Memo[T] {
	return &Memo[T]{
		compute: compute,
		deps:    deps,
		seen:    make([]uint64, len(deps)),
		equal:   func(a, b T) bool { return a == b },
	}
}

// Get returns the cached value, recomputing it first if any dependency moved.
func (m *Memo[T]) Get() T {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refresh()
	return m.value
}

// Version returns a number that changes whenever Get would return a different
// value. Reading the version may trigger a recomputation.
func (m *Memo[T]) Version() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refresh()
	return m.version
}

// Runs reports how many times compute has been called.
func (m *Memo[T]) Runs() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runs
}

func (m *Memo[T]) refresh() {
	if m.computed && !m.stale() {
		return
	}
	for i, dep := range m.deps {
		m.seen[i] = Version(dep)
	}
	next := m.compute()
	m.runs++
	if !m.computed || m.equal == nil || !m.equal(m.value, next) {
		m.version++
	}
	m.value = next
	m.computed = true
}

func (m *Memo[T]) stale() bool {
	for i, dep := range m.deps {
		if Version(dep) != m.seen[i] {
			return true
		}
	}
	return false
}

// Map derives a memo from a single source value.
func Map[S any, T comparable](src Value[S], fn func(S) T) *Memo[T] {
	return NewMemo(func() T { return fn(src.Get()) }, src)
}
