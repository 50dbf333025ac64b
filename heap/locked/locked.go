// Package locked provides the single point of serialised access to the
// process-wide allocator.
//
// # Concurrency Contract
//
// The kernel runs one logical thread of control with no preemption during
// allocator calls. Under that contract the default guard, NoGuard, is pure
// bookkeeping: it never blocks, performs no atomic test-and-set, and would
// let a second concurrent caller corrupt the heap. Callers must not hold the
// access across anything that can re-enter the allocator.
//
// # Multi-core Ports
//
// Adding cores, or interrupt handlers that allocate, requires replacing
// NoGuard with SpinGuard (or a guard that masks interrupts around the
// critical section). That is a behaviour change: Lock may then spin.
package locked

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
)

// ErrReentered indicates Lock was called while the access was already held.
var ErrReentered = errors.New("locked: re-entered while held")

// Guard serialises access to the wrapped value.
type Guard interface {
	Acquire()
	Release()
}

// NoGuard is the single-core guard. It only tracks whether the access is
// held; with Strict set, re-entry panics with ErrReentered.
type NoGuard struct {
	Strict bool
	held   bool
}

// Acquire marks the access held.
func (g *NoGuard) Acquire() {
	if g.Strict && g.held {
		panic(fmt.Errorf("%w: allocator called from inside an allocator operation", ErrReentered))
	}
	g.held = true
}

// Release marks the access free.
func (g *NoGuard) Release() { g.held = false }

// SpinGuard is a test-and-set spin-lock for multi-core ports.
type SpinGuard struct {
	state atomic.Bool
}

// Acquire spins until the lock is taken.
func (g *SpinGuard) Acquire() {
	for !g.state.CompareAndSwap(false, true) {
		runtime.Gosched()
	}
}

// Release drops the lock.
func (g *SpinGuard) Release() { g.state.Store(false) }

// Locked wraps a value whose every access goes through Lock.
type Locked[T any] struct {
	inner *T
	guard Guard
}

// New wraps inner behind guard. A nil guard means &NoGuard{}.
func New[T any](inner *T, guard Guard) *Locked[T] {
	if guard == nil {
		guard = &NoGuard{}
	}
	return &Locked[T]{inner: inner, guard: guard}
}

// Lock yields exclusive mutable access to the wrapped value. The caller must
// call the returned release func before any operation that could re-enter.
func (l *Locked[T]) Lock() (*T, func()) {
	l.guard.Acquire()
	return l.inner, l.guard.Release
}

// With runs fn with the access held.
func (l *Locked[T]) With(fn func(*T)) {
	v, release := l.Lock()
	defer release()
	fn(v)
}

// Replace swaps the wrapped value, with the access held, and returns the old one.
func (l *Locked[T]) Replace(inner *T) *T {
	old, release := l.Lock()
	defer release()
	l.inner = inner
	return old
}
