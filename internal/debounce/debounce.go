// Package debounce provides a coalescing notifier: bursts of triggers are
// collapsed into a single collect-then-flush cycle, so expensive downstream
// notifications fire at most once per burst.
package debounce

import (
	"sync"
	"time"
)

// Timer is a cancelable one-shot timer handle.
type Timer interface {
	// Stop cancels the timer. It reports whether the timer was still pending.
	Stop() bool
}

// Scheduler supplies the two deferral primitives the notifier needs: a
// cancelable one-shot delay and a "run soon, after the current work"
// trigger. Tests drive a manual implementation.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
	Defer(f func())
}

type systemScheduler struct{}

func (systemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (systemScheduler) Defer(f func()) { go f() }

// SystemScheduler returns a Scheduler backed by time.AfterFunc and
// goroutines.
func SystemScheduler() Scheduler { return systemScheduler{} }

// Notifier coalesces triggers through a two-phase pipeline:
//
//	Trigger      → (re)schedule the one-shot debounce timer, canceling any
//	               pending one (last write wins on timing).
//	timer fires  → collect() snapshots the CURRENT values into the caller's
//	               pending batch, then exactly one flush is deferred.
//	flush runs   → flush() emits and clears the batch.
//
// At most one debounce timer and one deferred flush are outstanding at any
// time. Values are read at fire time, never at trigger time.
type Notifier struct {
	delay   time.Duration
	sched   Scheduler
	collect func()
	flush   func()

	mu          sync.Mutex
	timer       Timer
	flushQueued bool
}

// NewNotifier creates a notifier with the given debounce delay. collect runs
// when the timer fires; flush runs on the deferred trigger that follows.
func NewNotifier(delay time.Duration, sched Scheduler, collect, flush func()) *Notifier {
	if sched == nil {
		sched = SystemScheduler()
	}
	return &Notifier{
		delay:   delay,
		sched:   sched,
		collect: collect,
		flush:   flush,
	}
}

// Trigger schedules the debounce timer, replacing any pending one.
func (n *Notifier) Trigger() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
	}
	n.timer = n.sched.AfterFunc(n.delay, n.fired)
}

func (n *Notifier) fired() {
	n.mu.Lock()
	n.timer = nil
	queueFlush := !n.flushQueued
	n.flushQueued = true
	n.mu.Unlock()

	n.collect()
	if queueFlush {
		n.sched.Defer(n.runFlush)
	}
}

func (n *Notifier) runFlush() {
	n.mu.Lock()
	n.flushQueued = false
	n.mu.Unlock()

	n.flush()
}

// Pending reports whether a debounce timer or flush is outstanding.
func (n *Notifier) Pending() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.timer != nil || n.flushQueued
}
