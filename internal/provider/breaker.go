package provider

import (
	"context"
	"errors"
	"sync"
	"time"
)

// CircuitState represents the state of a circuit breaker.
type CircuitState string

const (
	CircuitClosed   CircuitState = "CLOSED"    // Normal operation
	CircuitOpen     CircuitState = "OPEN"      // Failing, rejecting requests
	CircuitHalfOpen CircuitState = "HALF_OPEN" // Admitting a single trial call
)

// breaker trips after a run of consecutive KindOther failures. Skippable
// outcomes (not found, auth denied, rate limited) are answers from a healthy
// provider and do not count. Cancelled calls say nothing about the provider
// and are ignored.
type breaker struct {
	threshold int
	cooldown  time.Duration
	now       func() time.Time

	mu       sync.Mutex
	state    CircuitState
	failures int
	openedAt time.Time
	trial    bool // a half-open trial call is in flight
}

func newBreaker(threshold int, cooldown time.Duration) *breaker {
	return &breaker{
		threshold: threshold,
		cooldown:  cooldown,
		now:       time.Now,
		state:     CircuitClosed,
	}
}

// allow returns ErrCircuitOpen while the breaker is open and the cooldown
// has not elapsed. Once it has, exactly one trial call is admitted until
// its outcome is recorded. A disabled breaker (threshold <= 0) always allows.
func (b *breaker) allow() error {
	if b.threshold <= 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitOpen:
		if b.now().Sub(b.openedAt) < b.cooldown {
			return ErrCircuitOpen
		}
		b.state = CircuitHalfOpen
		b.trial = true
	case CircuitHalfOpen:
		if b.trial {
			return ErrCircuitOpen
		}
		b.trial = true
	}
	return nil
}

// record feeds the outcome of a call into the breaker.
func (b *breaker) record(err error) {
	if b.threshold <= 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.trial = false
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}

	if Classify(err) != KindOther {
		b.state = CircuitClosed
		b.failures = 0
		return
	}

	if b.state == CircuitHalfOpen {
		b.trip()
		return
	}

	b.failures++
	if b.failures >= b.threshold {
		b.trip()
	}
}

func (b *breaker) trip() {
	b.state = CircuitOpen
	b.openedAt = b.now()
	b.failures = 0
}

// State returns the current circuit state.
func (b *breaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
