package infra

import (
	"errors"
	"sync"
	"time"
)

// ── Circuit Breaker ───────────────────────────────────────────────────────────
// Guards the SMTP relay used for low-stock alerts so a dead relay does not
// stall the worker pool on every job.
//
//   - Closed:    sends pass through
//   - Open:      sends fail fast until OpenTimeout elapses
//   - Half-Open: one probe is allowed; success closes, failure reopens

type CBState int

const (
	CBClosed CBState = iota
	CBOpen
	CBHalfOpen
)

func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitBreakerConfig struct {
	FailureThreshold int
	OpenTimeout      time.Duration
	// Now is overridable in tests.
	Now func() time.Time
}

type CircuitBreaker struct {
	mu        sync.Mutex
	state     CBState
	failures  int
	openedAt  time.Time
	threshold int
	timeout   time.Duration
	now       func() time.Time
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &CircuitBreaker{
		threshold: cfg.FailureThreshold,
		timeout:   cfg.OpenTimeout,
		now:       cfg.Now,
	}
}

// State returns the current state, moving open → half-open once the timeout passed.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.stateLocked()
}

func (cb *CircuitBreaker) stateLocked() CBState {
	if cb.state == CBOpen && cb.now().Sub(cb.openedAt) >= cb.timeout {
		cb.state = CBHalfOpen
	}
	return cb.state
}

// Execute runs fn unless the breaker is open.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	if cb.stateLocked() == CBOpen {
		cb.mu.Unlock()
		return ErrCircuitOpen
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err == nil {
		cb.state = CBClosed
		cb.failures = 0
		return nil
	}
	cb.failures++
	if cb.state == CBHalfOpen || cb.failures >= cb.threshold {
		cb.state = CBOpen
		cb.openedAt = cb.now()
		cb.failures = 0
	}
	return err
}
