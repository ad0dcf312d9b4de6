package syncer

import (
	"sync"
	"time"
)

// PassState is the sync engine's state machine: a pass is either not running
// or running. Transitions are guarded so concurrent triggers collapse into a
// single pass.
type PassState string

const (
	StateIdle    PassState = "idle"
	StateRunning PassState = "running"
)

// Status is the snapshot published to subscribers.
type Status struct {
	State        PassState
	PendingCount int
	LastSync     time.Time
	LastError    string
}

// statusBoard owns the mutable status and the listener set. It is per-Syncer
// state, not process-global, so independent engines do not interfere.
type statusBoard struct {
	mu        sync.Mutex
	status    Status
	listeners map[int]func(Status)
	nextID    int
}

func newStatusBoard() *statusBoard {
	return &statusBoard{
		status:    Status{State: StateIdle},
		listeners: map[int]func(Status){},
	}
}

// tryStart transitions idle -> running. It returns false when a pass is
// already running, which makes a second trigger a no-op rather than a queued
// second pass.
func (b *statusBoard) tryStart() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.status.State == StateRunning {
		return false
	}
	b.status.State = StateRunning
	return true
}

// current returns the latest snapshot.
func (b *statusBoard) current() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

// subscribe registers a listener and returns its unsubscribe function. The
// listener immediately receives the current snapshot.
func (b *statusBoard) subscribe(fn func(Status)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	snapshot := b.status
	b.mu.Unlock()

	fn(snapshot)

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.listeners, id)
	}
}

// publish applies mutate to the status and notifies listeners outside the lock.
func (b *statusBoard) publish(mutate func(*Status)) {
	b.mu.Lock()
	mutate(&b.status)
	snapshot := b.status
	fns := make([]func(Status), 0, len(b.listeners))
	for _, fn := range b.listeners {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}
