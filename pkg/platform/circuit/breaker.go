// Package circuit provides a small circuit breaker used to stop hammering a
// failing dependency.
package circuit

import (
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means the dependency is healthy and calls flow normally.
	StateClosed State = iota
	// StateOpen means the circuit has tripped and calls should take the fallback path.
	StateOpen
)

func (s State) String() string {
	if s == StateOpen {
		return "open"
	}
	return "closed"
}

// StateChange represents a circuit breaker state transition.
type StateChange struct {
	Opened bool
	Closed bool
}

// Breaker counts consecutive failures. After FailureThreshold failures the
// circuit opens. While open, Allow lets a single probe through every
// cooldown period; SuccessThreshold consecutive successes close it again.
type Breaker struct {
	mu               sync.Mutex
	state            State
	name             string
	failureCount     int
	successCount     int
	failureThreshold int
	successThreshold int
	cooldown         time.Duration
	lastProbe        time.Time
	now              func() time.Time
	onChange         func(name string, to State)
}

// Option configures a Breaker instance.
type Option func(*Breaker)

// WithFailureThreshold sets the number of consecutive failures to open the circuit.
// Default is 5.
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.failureThreshold = n
		}
	}
}

// WithSuccessThreshold sets the number of consecutive successes to close the circuit.
// Default is 3.
func WithSuccessThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.successThreshold = n
		}
	}
}

// WithCooldown sets how often an open circuit lets a probe call through.
// Default is 5s.
func WithCooldown(d time.Duration) Option {
	return func(b *Breaker) {
		if d > 0 {
			b.cooldown = d
		}
	}
}

// WithOnStateChange registers a callback invoked after every transition.
// The callback runs outside the breaker's lock.
func WithOnStateChange(fn func(name string, to State)) Option {
	return func(b *Breaker) {
		b.onChange = fn
	}
}

// WithClock overrides the time source; used by tests.
func WithClock(now func() time.Time) Option {
	return func(b *Breaker) {
		if now != nil {
			b.now = now
		}
	}
}

// New creates a circuit breaker with the given name and options.
func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:             name,
		state:            StateClosed,
		failureThreshold: 5,
		successThreshold: 3,
		cooldown:         5 * time.Second,
		now:              time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Name returns the circuit breaker's name for logging/metrics.
func (b *Breaker) Name() string {
	return b.name
}

// IsOpen returns true if the circuit is open (tripped).
func (b *Breaker) IsOpen() bool {
	return b.State() == StateOpen
}

// State returns the current circuit state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Allow reports whether a call should go to the dependency. A closed circuit
// always allows; an open one allows one probe per cooldown.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateClosed {
		return true
	}
	now := b.now()
	if now.Sub(b.lastProbe) >= b.cooldown {
		b.lastProbe = now
		return true
	}
	return false
}

// RecordFailure records a failed call and reports whether the circuit is
// open afterwards.
func (b *Breaker) RecordFailure() (open bool, change StateChange) {
	b.mu.Lock()
	b.failureCount++
	b.successCount = 0

	if b.state == StateOpen {
		b.mu.Unlock()
		return true, StateChange{}
	}
	if b.failureCount < b.failureThreshold {
		b.mu.Unlock()
		return false, StateChange{}
	}

	b.state = StateOpen
	b.lastProbe = b.now()
	b.mu.Unlock()

	b.notify(StateOpen)
	return true, StateChange{Opened: true}
}

// RecordSuccess records a successful call and reports whether the circuit is
// closed afterwards.
func (b *Breaker) RecordSuccess() (closed bool, change StateChange) {
	b.mu.Lock()
	if b.state == StateClosed {
		b.failureCount = 0
		b.mu.Unlock()
		return true, StateChange{}
	}

	b.successCount++
	if b.successCount < b.successThreshold {
		b.mu.Unlock()
		return false, StateChange{}
	}

	b.state = StateClosed
	b.failureCount = 0
	b.successCount = 0
	b.mu.Unlock()

	b.notify(StateClosed)
	return true, StateChange{Closed: true}
}

// Reset resets the circuit breaker to closed state with zero counts.
func (b *Breaker) Reset() {
	b.mu.Lock()
	wasOpen := b.state == StateOpen
	b.state = StateClosed
	b.failureCount = 0
	b.successCount = 0
	b.mu.Unlock()

	if wasOpen {
		b.notify(StateClosed)
	}
}

func (b *Breaker) notify(to State) {
	if b.onChange != nil {
		b.onChange(b.name, to)
	}
}
