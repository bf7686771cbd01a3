// Package notify holds the process-wide transient notification slot.
package notify

import (
	"sync"
	"time"
)

// Kind classifies a notification for styling.
type Kind string

// Notification kinds.
const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// DefaultDuration is how long a notification stays visible.
const DefaultDuration = 4 * time.Second

// Timer is the part of *time.Timer the notifier needs.
type Timer interface {
	Stop() bool
}

// Scheduler runs f after d. time.AfterFunc satisfies it once wrapped.
type Scheduler func(d time.Duration, f func()) Timer

func afterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Notification is the current content of the slot.
type Notification struct {
	Message string
	Kind    Kind
	Visible bool
}

// Notifier shows one message at a time. A new message replaces the current
// one and restarts the hide timer; at most one timer is ever live.
type Notifier struct {
	schedule Scheduler
	onChange func()
	timer    Timer
	current  Notification
	duration time.Duration
	seq      uint64
	mu       sync.Mutex
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithScheduler replaces the timer source.
func WithScheduler(s Scheduler) Option {
	return func(n *Notifier) {
		n.schedule = s
	}
}

// WithDuration changes the auto-hide delay.
func WithDuration(d time.Duration) Option {
	return func(n *Notifier) {
		n.duration = d
	}
}

// New creates a Notifier.
func New(opts ...Option) *Notifier {
	n := &Notifier{
		schedule: afterFunc,
		duration: DefaultDuration,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// OnChange registers a hook called after the slot changes, including when the
// timer hides it. The hook runs without the lock held.
func (n *Notifier) OnChange(f func()) {
	n.mu.Lock()
	n.onChange = f
	n.mu.Unlock()
}

// Notify shows message. An empty kind is treated as info.
func (n *Notifier) Notify(message string, kind Kind) {
	if kind == "" {
		kind = KindInfo
	}

	n.mu.Lock()
	if n.timer != nil {
		n.timer.Stop()
	}
	n.seq++
	seq := n.seq
	n.current = Notification{Message: message, Kind: kind, Visible: true}
	n.timer = n.schedule(n.duration, func() { n.hide(seq) })
	hook := n.onChange
	n.mu.Unlock()

	if hook != nil {
		hook()
	}
}

// Success is Notify with KindSuccess.
func (n *Notifier) Success(message string) { n.Notify(message, KindSuccess) }

// Error is Notify with KindError.
func (n *Notifier) Error(message string) { n.Notify(message, KindError) }

// Info is Notify with KindInfo.
func (n *Notifier) Info(message string) { n.Notify(message, KindInfo) }

// hide clears visibility unless a newer message took the slot.
func (n *Notifier) hide(seq uint64) {
	n.mu.Lock()
	if seq != n.seq {
		n.mu.Unlock()
		return
	}
	n.current.Visible = false
	n.timer = nil
	hook := n.onChange
	n.mu.Unlock()

	if hook != nil {
		hook()
	}
}

// Current returns the slot contents.
func (n *Notifier) Current() Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}
