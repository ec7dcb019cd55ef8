package utils

import (
	"context"
	"sync"
	"time"

	"ticket-sales/internal/status"
)

// CircuitBreaker guards calls to an unreliable external dependency. It trips
// to open after failureMax consecutive failures, rejects calls while open,
// and allows a single trial call once resetTimeout has elapsed.
type CircuitBreaker struct {
	name         string
	failureMax   uint32
	resetTimeout time.Duration

	mutex               sync.Mutex
	state               State
	consecutiveFailures uint32
	openedAt            time.Time
	trialInFlight       bool
}

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

func NewCircuitBreaker(name string, failureMax uint32, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		name:         name,
		failureMax:   failureMax,
		resetTimeout: resetTimeout,
		state:        StateClosed,
	}
}

// Execute invokes req if the breaker permits it. While open it fails
// immediately with status.ErrBreakerOpen and req is never called. The
// breaker's lock covers only the bookkeeping before and after the call; req
// itself runs unlocked so a slow dependency never blocks other callers'
// accounting.
func (cb *CircuitBreaker) Execute(_ context.Context, req func() (any, error)) (any, error) {
	if err := cb.beforeRequest(); err != nil {
		return nil, err
	}

	defer func() {
		if e := recover(); e != nil {
			cb.afterRequest(false)
			panic(e)
		}
	}()

	result, err := req()
	cb.afterRequest(err == nil)
	return result, err
}

// Name returns the breaker's name (one breaker per protected dependency).
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// State reports the current state.
func (cb *CircuitBreaker) State() State {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	if cb.state == StateOpen && !cb.trialInFlight && time.Since(cb.openedAt) >= cb.resetTimeout {
		return StateHalfOpen
	}
	return cb.state
}

func (cb *CircuitBreaker) beforeRequest() error {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	switch cb.state {
	case StateClosed:
		return nil

	case StateOpen:
		if time.Since(cb.openedAt) < cb.resetTimeout {
			return status.ErrBreakerOpen
		}
		// Reset window elapsed: this caller becomes the single trial.
		cb.state = StateHalfOpen
		cb.trialInFlight = true
		return nil

	case StateHalfOpen:
		if cb.trialInFlight {
			return status.ErrBreakerOpen
		}
		cb.trialInFlight = true
		return nil
	}

	return nil
}

func (cb *CircuitBreaker) afterRequest(success bool) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	if success {
		cb.state = StateClosed
		cb.consecutiveFailures = 0
		cb.trialInFlight = false
		return
	}

	switch cb.state {
	case StateHalfOpen:
		// Failed trial: reopen and restart the reset window.
		cb.state = StateOpen
		cb.openedAt = time.Now()
		cb.trialInFlight = false

	case StateClosed:
		cb.consecutiveFailures++
		if cb.consecutiveFailures >= cb.failureMax {
			cb.state = StateOpen
			cb.openedAt = time.Now()
		}
	}
}
