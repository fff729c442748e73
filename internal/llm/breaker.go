package llm

import (
	"sync"
	"time"
)

// breakerState mirrors the classic three-state circuit breaker.
type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerHalfOpen
)

// breaker trips a provider out of the fallback rotation after repeated
// failures, then probes it again after a cooldown.
// One breaker instance is owned per provider name by Client.
type breaker struct {
	mu          sync.Mutex
	state       breakerState
	failures    int
	threshold   int
	cooldown    time.Duration
	openedAt    time.Time
}

func newBreaker(threshold int, cooldown time.Duration) *breaker {
	if threshold <= 0 {
		threshold = 3
	}
	return &breaker{threshold: threshold, cooldown: cooldown}
}

// Allow reports whether a call may proceed, transitioning open -> half-open
// once the cooldown has elapsed.
func (b *breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case breakerOpen:
		if time.Since(b.openedAt) >= b.cooldown {
			b.state = breakerHalfOpen
			return true
		}
		return false
	default:
		return true
	}
}

// RecordSuccess closes the breaker and resets the failure count.
func (b *breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = breakerClosed
	b.failures = 0
}

// IsOpen reports whether the breaker is currently tripped.
func (b *breaker) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state == breakerOpen
}

// RecordFailure increments the failure count, tripping the breaker open once
// the threshold is reached (or immediately, if a half-open probe failed).
func (b *breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == breakerHalfOpen {
		b.state = breakerOpen
		b.openedAt = time.Now()
		return
	}

	b.failures++
	if b.failures >= b.threshold {
		b.state = breakerOpen
		b.openedAt = time.Now()
	}
}
