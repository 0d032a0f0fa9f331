package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/juju/clock"
	"github.com/juju/retry"

	"github.com/custodia-labs/legis/internal/core/domain"
	"github.com/custodia-labs/legis/internal/core/ports/driven"
	"github.com/custodia-labs/legis/internal/logger"
	"github.com/custodia-labs/legis/internal/telemetry"
)

// AttemptRecorder receives the outcome of every upstream attempt.
// HealthMonitor implements it.
type AttemptRecorder interface {
	RecordSuccess()
	RecordFailure(kind domain.FailureKind)
}

// Retrier runs upstream calls under a retry policy. Every attempt is
// admitted by the rate limiter, bounded by the policy's attempt timeout
// and reported to the attempt recorder.
type Retrier struct {
	limiter  driven.RateLimiter
	recorder AttemptRecorder
	clock    clock.Clock
	jitter   func(limit time.Duration) time.Duration
}

// NewRetrier creates a retrier. recorder may be nil.
func NewRetrier(limiter driven.RateLimiter, recorder AttemptRecorder, clk clock.Clock) *Retrier {
	if clk == nil {
		clk = clock.WallClock
	}
	return &Retrier{
		limiter:  limiter,
		recorder: recorder,
		clock:    clk,
		jitter:   randomJitter,
	}
}

func randomJitter(limit time.Duration) time.Duration {
	if limit <= 0 {
		return 0
	}
	return rand.N(limit)
}

// UpstreamCall performs one attempt.
type UpstreamCall func(ctx context.Context) (*domain.RawResponse, error)

// Execute runs call until it succeeds, fails terminally, or the policy's
// attempts are used up. Terminal failures are returned as-is without
// waiting. Exhaustion returns a *domain.RetriesExhaustedError wrapping the
// last failure.
func (r *Retrier) Execute(
	ctx context.Context,
	class domain.RequestClass,
	policy domain.RetryPolicy,
	call UpstreamCall,
) (*domain.RawResponse, error) {
	policy = policy.Normalised()
	log := logger.FromContext(ctx)

	var (
		resp     *domain.RawResponse
		lastErr  error
		attempts int
	)

	err := retry.Call(retry.CallArgs{
		Func: func() error {
			attempts++
			out, err := r.attempt(ctx, class, policy, call)
			resp, lastErr = out, err
			return err
		},
		IsFatalError: func(err error) bool {
			if ctx.Err() != nil {
				return true
			}
			var admitErr *admissionError
			if errors.As(err, &admitErr) {
				return true
			}
			return !domain.ClassifyFailure(err).Retryable()
		},
		NotifyFunc: func(err error, attempt int) {
			log.Debug("upstream attempt failed", "class", string(class), "attempt", attempt, "error", err)
		},
		Attempts: policy.MaxAttempts,
		Delay:    policy.BaseDelay,
		BackoffFunc: func(_ time.Duration, attempt int) time.Duration {
			return policy.Delay(attempt) + r.jitter(policy.Jitter)
		},
		Clock: r.clock,
		Stop:  ctx.Done(),
	})

	switch {
	case err == nil:
		return resp, nil
	case retry.IsAttemptsExceeded(err):
		return nil, &domain.RetriesExhaustedError{Attempts: attempts, Last: lastErr}
	case retry.IsRetryStopped(err):
		return nil, fmt.Errorf("retry stopped after %d attempts: %w", attempts, ctx.Err())
	default:
		var admitErr *admissionError
		if errors.As(err, &admitErr) {
			return nil, admitErr.err
		}
		return nil, err
	}
}

func (r *Retrier) attempt(
	ctx context.Context,
	class domain.RequestClass,
	policy domain.RetryPolicy,
	call UpstreamCall,
) (*domain.RawResponse, error) {
	if r.limiter != nil {
		if _, err := r.limiter.Admit(ctx, class); err != nil {
			return nil, &admissionError{err: err}
		}
	}

	attemptCtx, cancel := context.WithTimeout(ctx, policy.AttemptTimeout)
	resp, err := call(attemptCtx)
	timedOut := errors.Is(attemptCtx.Err(), context.DeadlineExceeded)
	cancel()

	if err != nil && ctx.Err() != nil {
		// Cancelled by the caller: not an upstream outcome.
		return nil, ctx.Err()
	}

	var upErr *domain.UpstreamError
	if err != nil && timedOut && !errors.As(err, &upErr) {
		err = &domain.UpstreamError{Kind: domain.FailureTimeout, Err: err}
	}

	r.observe(ctx, class, err)
	return resp, err
}

func (r *Retrier) observe(ctx context.Context, class domain.RequestClass, err error) {
	if err == nil {
		telemetry.RecordUpstreamAttempt(ctx, string(class), "ok")
		if r.recorder != nil {
			r.recorder.RecordSuccess()
		}
		return
	}

	kind := domain.ClassifyFailure(err)
	telemetry.RecordUpstreamAttempt(ctx, string(class), string(kind))

	if kind == domain.FailureRateLimited && r.limiter != nil {
		var upErr *domain.UpstreamError
		var retryAfter time.Duration
		if errors.As(err, &upErr) {
			retryAfter = upErr.RetryAfter
		}
		r.limiter.ReportRateLimited(class, retryAfter)
	}

	if r.recorder == nil {
		return
	}
	// Only transient failures say anything about upstream health; a 404
	// or a rejected key is a well-formed answer.
	if kind.Retryable() {
		r.recorder.RecordFailure(kind)
	} else {
		r.recorder.RecordSuccess()
	}
}

// admissionError marks a failure to get through the rate limiter, which is
// never retried.
type admissionError struct {
	err error
}

func (e *admissionError) Error() string { return "admission: " + e.err.Error() }

func (e *admissionError) Unwrap() error { return e.err }
