package recovery

import (
	"errors"
	"sync/atomic"
	"time"
)

// ErrCircuitOpen is returned without touching the store while the breaker
// is open. Its message carries the "circuit breaker" marker so it is
// classified as a network failure.
var ErrCircuitOpen = errors.New("circuit breaker open: data store temporarily unavailable")

// State is the observable breaker position.
type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half_open"
)

// Breaker counts consecutive transient failures. Once the count reaches the
// threshold it rejects calls until the cooldown elapses. After that exactly
// one caller takes the trial lease; everyone else is still rejected until the
// trial call closes the breaker or re-opens it. A trial that never reports
// loses its lease after another cooldown.
//
// All state lives in atomics so concurrent requests can share one Breaker.
type Breaker struct {
	threshold int64
	cooldown  time.Duration
	now       func() time.Time

	failures   atomic.Int64
	openUntil  atomic.Int64 // unix nanos; 0 when closed
	trialUntil atomic.Int64 // unix nanos; lease held by the half-open trial call
}

// NewBreaker returns a closed breaker. A threshold <= 0 disables it.
func NewBreaker(threshold int, cooldown time.Duration) *Breaker {
	return &Breaker{
		threshold: int64(threshold),
		cooldown:  cooldown,
		now:       time.Now,
	}
}

// Allow reports whether a call may reach the store.
func (b *Breaker) Allow() bool {
	if b.threshold <= 0 {
		return true
	}
	until := b.openUntil.Load()
	if until == 0 {
		return true
	}
	now := b.now().UnixNano()
	if now < until {
		return false
	}

	lease := b.trialUntil.Load()
	if now < lease {
		return false
	}
	return b.trialUntil.CompareAndSwap(lease, now+int64(b.cooldown))
}

// RecordFailure counts one transient failure and reports whether the
// breaker is open afterwards.
func (b *Breaker) RecordFailure() bool {
	if b.threshold <= 0 {
		return false
	}
	if b.failures.Add(1) < b.threshold {
		return false
	}
	b.openUntil.Store(b.now().Add(b.cooldown).UnixNano())
	b.trialUntil.Store(0)
	return true
}

// RecordSuccess closes the breaker. Any answer from the store counts,
// including logical errors such as "not found".
func (b *Breaker) RecordSuccess() {
	b.failures.Store(0)
	b.openUntil.Store(0)
	b.trialUntil.Store(0)
}

// ConsecutiveFailures returns the current failure streak.
func (b *Breaker) ConsecutiveFailures() int64 {
	return b.failures.Load()
}

// State returns the breaker position at this instant.
func (b *Breaker) State() State {
	if b.threshold <= 0 || b.failures.Load() < b.threshold {
		return StateClosed
	}
	if b.now().UnixNano() < b.openUntil.Load() {
		return StateOpen
	}
	return StateHalfOpen
}
