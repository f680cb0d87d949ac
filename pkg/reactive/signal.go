// Package reactive provides the small set of reactive cells components use
// for their props: writable signals, constant values and memos.
//
// Every cell carries a version that changes whenever its value changes. A
// Memo records the versions of its dependencies when it computes and only
// recomputes on a later read if one of them moved:
//
//	variant := reactive.NewSignal("default")
//	class := reactive.NewMemo(func() string {
//	    return resolve(variant.Get())
//	}, variant)
//
//	class.Get()             // computes
//	class.Get()             // cached
//	variant.Set("outline")  // bumps the version
//	class.Get()             // recomputes
//
// Thread Safety: all cells may be read and written from any goroutine.
package reactive

import (
	"sync"
	"sync/atomic"
)

// Tracker is anything with a version that moves when its value changes.
type Tracker interface {
	Version() uint64
}

// Value is a readable, versioned cell. Static values, signals and memos all
// implement it, so props accept any of them.
type Value[T any] interface {
	Tracker
	Get() T
}

// Get reads v, falling back to def when v is nil.
func Get[T any](v Value[T], def T) T {
	if v == nil {
		return def
	}
	return v.Get()
}

// Version reads the version of t, treating nil as a constant.
func Version(t Tracker) uint64 {
	if t == nil {
		return 0
	}
	return t.Version()
}

type static[T any] struct{ value T }

// Static wraps a constant. Its version never changes.
func Static[T any](v T) Value[T] {
	return static[T]{value: v}
}

func (s static[T]) Get() T          { return s.value }
func (s static[T]) Version() uint64 { return 0 }

// globalBindingID keeps binding IDs unique across all signals.
var globalBindingID atomic.Uint64

// Unbind removes a binding registered with Signal.Bind.
type Unbind func()

type binding[T any] struct {
	id     uint64
	fn     func(T)
	active bool
}

// Signal is a writable cell that notifies bindings when its value changes.
type Signal[T any] struct {
	mu       sync.RWMutex
	value    T
	version  uint64
	equal    func(a, b T) bool
	bindings []*binding[T]
}

// NewSignal creates a signal for a comparable type. Setting an equal value is
// a no-op.
func NewSignal[T comparable](initial T) *Signal[T] {
	return &Signal[T]{
		value: initial,
		equal: func(a, b T) bool { return a == b },
	}
}

// NewSignalFunc creates a signal that uses equal to detect changes. A nil
// equal treats every Set as a change.
func NewSignalFunc[T any](initial T, equal func(a, b T) bool) *Signal[T] {
	return &Signal[T]{value: initial, equal: equal}
}

// Get returns the current value.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Version returns the number of changes applied so far.
func (s *Signal[T]) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Set stores v and runs the active bindings if the value changed. Bindings
// run on the calling goroutine, outside the signal's lock.
func (s *Signal[T]) Set(v T) {
	s.mu.Lock()
	if s.equal != nil && s.equal(s.value, v) {
		s.mu.Unlock()
		return
	}
	s.value = v
	s.version++

	active := make([]*binding[T], 0, len(s.bindings))
	for _, b := range s.bindings {
		if b.active {
			active = append(active, b)
		}
	}
	s.bindings = active
	s.mu.Unlock()

	for _, b := range active {
		b.fn(v)
	}
}

// Update applies fn to the current value and sets the result.
func (s *Signal[T]) Update(fn func(T) T) {
	s.Set(fn(s.Get()))
}

// Bind registers fn to run after every change. Bindings run in registration
// order.
func (s *Signal[T]) Bind(fn func(T)) Unbind {
	id := globalBindingID.Add(1)

	s.mu.Lock()
	b := &binding[T]{id: id, fn: fn, active: true}
	s.bindings = append(s.bindings, b)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		b.active = false
		s.mu.Unlock()
	}
}
