package infra

import (
	"errors"
	"sync"
	"time"
)

// Circuit breaker guarding the POS backend HTTP client. When the backend
// is down every caja screen would otherwise wait out a full timeout per
// request; the breaker fast-fails instead (Closed → Open → Half-Open).
// Fast-fail is not a retry: failed calls still surface immediately.

// BreakerState is the current state of the circuit.
type BreakerState int

const (
	BreakerClosed   BreakerState = iota // requests flow normally
	BreakerOpen                         // fast-fail everything
	BreakerHalfOpen                     // one probe allowed through
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	}
	return "unknown"
}

// ErrBreakerOpen is returned while the circuit is open.
var ErrBreakerOpen = errors.New("backend no disponible (circuit breaker abierto)")

// Breaker trips open after a run of consecutive failures and probes the
// backend again once openFor has elapsed.
type Breaker struct {
	mu        sync.Mutex
	state     BreakerState
	failures  int
	successes int
	trippedAt time.Time

	maxFailures int
	minProbes   int
	openFor     time.Duration
}

// NewBreaker creates a closed Breaker. Non-positive parameters get
// defaults (5 failures to trip, 2 probe successes to close, 30s open window).
func NewBreaker(maxFailures, minProbes int, openFor time.Duration) *Breaker {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	if minProbes <= 0 {
		minProbes = 2
	}
	if openFor <= 0 {
		openFor = 30 * time.Second
	}
	return &Breaker{maxFailures: maxFailures, minProbes: minProbes, openFor: openFor}
}

// State returns the current state, transitioning open → half-open once the
// open window has elapsed.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == BreakerOpen && time.Since(b.trippedAt) >= b.openFor {
		b.state = BreakerHalfOpen
		b.successes = 0
	}
	return b.state
}

// Do runs fn unless the circuit is open, recording the outcome.
func (b *Breaker) Do(fn func() error) error {
	if b.State() == BreakerOpen {
		return ErrBreakerOpen
	}

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.failures++
		b.trippedAt = time.Now()
		if b.state == BreakerHalfOpen || b.failures >= b.maxFailures {
			b.state = BreakerOpen
			b.failures = 0
		}
		return err
	}

	switch b.state {
	case BreakerClosed:
		b.failures = 0
	case BreakerHalfOpen:
		b.successes++
		if b.successes >= b.minProbes {
			b.state = BreakerClosed
			b.failures = 0
			b.successes = 0
		}
	}
	return nil
}
