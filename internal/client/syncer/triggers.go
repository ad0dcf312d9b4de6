package syncer

import (
	"context"
	"time"
)

// Triggers routes the three sync triggers into PerformSync: a one-time
// delayed startup timer, a connectivity watcher firing on offline-to-online
// transitions, and an explicit foreground notification. All three share
// PerformSync's mutual-exclusion guarantee.
type Triggers struct {
	syncer        *Syncer
	startupDelay  time.Duration
	checkInterval time.Duration

	wasOnline bool
}

// NewTriggers wires the trigger sources to a syncer.
func NewTriggers(s *Syncer, startupDelay, checkInterval time.Duration) *Triggers {
	return &Triggers{
		syncer:        s,
		startupDelay:  startupDelay,
		checkInterval: checkInterval,
	}
}

// Start runs the startup timer and the connectivity watcher until ctx is
// cancelled. It blocks; run it on its own goroutine.
func (t *Triggers) Start(ctx context.Context) {
	startup := time.NewTimer(t.startupDelay)
	defer startup.Stop()

	ticker := time.NewTicker(t.checkInterval)
	defer ticker.Stop()

	t.wasOnline = t.syncer.network(ctx).Online

	for {
		select {
		case <-ctx.Done():
			return
		case <-startup.C:
			t.syncer.PerformSync(ctx)
		case <-ticker.C:
			online := t.syncer.network(ctx).Online
			if online && !t.wasOnline {
				t.syncer.log.Info(ctx, "connectivity restored, triggering sync")
				t.syncer.PerformSync(ctx)
			}
			t.wasOnline = online
		}
	}
}

// Foreground is the visibility-change hook: call it when the application
// returns to the foreground.
func (t *Triggers) Foreground(ctx context.Context) {
	t.syncer.PerformSync(ctx)
}
