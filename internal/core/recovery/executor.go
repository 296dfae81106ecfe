package recovery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
)

const (
	defaultMaxRetries = 3
	defaultBaseDelay  = 200 * time.Millisecond
	defaultMaxDelay   = 2 * time.Second
)

// Options tunes the retry curve. Zero values take the defaults.
type Options struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// Observer receives executor events, typically to feed metrics.
type Observer interface {
	Retried(attempt int, err error)
	Exhausted(attempts int, err error)
	Rejected()
	BreakerOpened()
}

type nopObserver struct{}

func (nopObserver) Retried(int, error)   {}
func (nopObserver) Exhausted(int, error) {}
func (nopObserver) Rejected()            {}
func (nopObserver) BreakerOpened()       {}

// ExhaustedError is returned when every attempt failed transiently.
// It stays classifiable as a network failure.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("network request failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

func (e *ExhaustedError) Transient() bool { return true }

// Executor wraps single store operations with retry and the shared breaker.
type Executor struct {
	opts     Options
	breaker  *Breaker
	observer Observer
	log      zerolog.Logger
}

// NewExecutor builds an Executor. breaker may be shared across executors;
// a nil breaker disables fail-fast.
func NewExecutor(opts Options, breaker *Breaker, observer Observer, log zerolog.Logger) *Executor {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	} else if opts.MaxRetries == 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = defaultBaseDelay
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = defaultMaxDelay
	}
	if breaker == nil {
		breaker = NewBreaker(0, 0)
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Executor{opts: opts, breaker: breaker, observer: observer, log: log}
}

// Breaker exposes the shared breaker, e.g. for the readiness check.
func (e *Executor) Breaker() *Breaker { return e.breaker }

func (e *Executor) backoff() retry.Backoff {
	b := retry.NewExponential(e.opts.BaseDelay)
	b = retry.WithJitterPercent(10, b)
	b = retry.WithCappedDuration(e.opts.MaxDelay, b)
	return retry.WithMaxRetries(uint64(e.opts.MaxRetries), b)
}

// Run executes op. Transient failures are retried up to MaxRetries times;
// anything else is returned immediately. While the breaker is open op is
// not called and ErrCircuitOpen is returned.
func (e *Executor) Run(ctx context.Context, op func(ctx context.Context) error) error {
	attempts := 0

	err := retry.Do(ctx, e.backoff(), func(ctx context.Context) error {
		if !e.breaker.Allow() {
			e.observer.Rejected()
			return ErrCircuitOpen
		}

		attempts++
		err := op(ctx)
		switch {
		case err == nil:
			e.breaker.RecordSuccess()
			return nil
		case IsTransient(err):
			if e.breaker.RecordFailure() {
				e.observer.BreakerOpened()
			}
			if attempts <= e.opts.MaxRetries {
				e.observer.Retried(attempts, err)
				e.log.Warn().Err(err).Int("attempt", attempts).Msg("transient store failure, retrying")
			}
			return retry.RetryableError(err)
		default:
			e.breaker.RecordSuccess()
			return err
		}
	})
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrCircuitOpen) || !IsTransient(err) || attempts == 0 {
		return err
	}

	e.observer.Exhausted(attempts, err)
	e.log.Error().Err(err).Int("attempts", attempts).Msg("store operation gave up")
	return &ExhaustedError{Attempts: attempts, Err: err}
}

// Do is Run for operations that produce a value.
func Do[T any](ctx context.Context, e *Executor, op func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := e.Run(ctx, func(ctx context.Context) error {
		v, err := op(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
