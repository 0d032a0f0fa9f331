package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/legis/internal/core/domain"
)

func testPolicy() domain.RetryPolicy {
	return domain.RetryPolicy{
		MaxAttempts:    4,
		BaseDelay:      100 * time.Millisecond,
		Multiplier:     2,
		Jitter:         50 * time.Millisecond,
		AttemptTimeout: time.Second,
	}
}

func newTestRetrier(limiter *mockLimiter, recorder AttemptRecorder, clk *stepClock, jitter time.Duration) *Retrier {
	r := NewRetrier(limiter, recorder, clk)
	r.jitter = func(limit time.Duration) time.Duration {
		return min(jitter, limit)
	}
	return r
}

func countingCall(calls *int, errs ...error) UpstreamCall {
	return func(context.Context) (*domain.RawResponse, error) {
		i := *calls
		*calls++
		if i < len(errs) && errs[i] != nil {
			return nil, errs[i]
		}
		return &domain.RawResponse{StatusCode: 200}, nil
	}
}

func TestRetrier_SuccessFirstAttempt(t *testing.T) {
	clk := newStepClock()
	limiter := &mockLimiter{}
	recorder := &mockRecorder{}
	r := newTestRetrier(limiter, recorder, clk, 0)

	calls := 0
	resp, err := r.Execute(context.Background(), domain.ClassBill, testPolicy(), countingCall(&calls))

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, 1, calls)
	assert.Empty(t, clk.Waits())
	assert.Equal(t, 1, limiter.Admitted())
	assert.Equal(t, 1, recorder.successes)
}

// A call that always fails transiently is attempted exactly MaxAttempts
// times with exponentially growing waits.
func TestRetrier_RetryBound(t *testing.T) {
	clk := newStepClock()
	limiter := &mockLimiter{}
	recorder := &mockRecorder{}
	r := newTestRetrier(limiter, recorder, clk, 7*time.Millisecond)

	calls := 0
	always := []error{serverError(), serverError(), serverError(), serverError(), serverError()}
	_, err := r.Execute(context.Background(), domain.ClassBill, testPolicy(), countingCall(&calls, always...))

	var exhausted *domain.RetriesExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 4, exhausted.Attempts)
	assert.ErrorIs(t, err, domain.ErrTransientUpstream)
	assert.Equal(t, 4, calls)
	assert.Equal(t, 4, limiter.Admitted(), "every attempt is admitted")

	assert.Equal(t, []time.Duration{
		107 * time.Millisecond,
		207 * time.Millisecond,
		407 * time.Millisecond,
	}, clk.Waits())

	assert.Len(t, recorder.failures, 4)
	assert.Zero(t, recorder.successes)
}

func TestRetrier_WaitsAtLeastBackoff(t *testing.T) {
	clk := newStepClock()
	r := NewRetrier(&mockLimiter{}, nil, clk)
	policy := testPolicy()

	calls := 0
	_, err := r.Execute(context.Background(), domain.ClassBill, policy,
		countingCall(&calls, serverError(), serverError(), serverError(), serverError()))
	require.Error(t, err)

	waits := clk.Waits()
	require.Len(t, waits, policy.MaxAttempts-1)
	for i, w := range waits {
		base := policy.Delay(i + 1)
		assert.GreaterOrEqual(t, w, base)
		assert.Less(t, w, base+policy.Jitter)
	}
}

func TestRetrier_RecoversAfterTransientFailures(t *testing.T) {
	clk := newStepClock()
	recorder := &mockRecorder{}
	r := newTestRetrier(&mockLimiter{}, recorder, clk, 0)

	calls := 0
	resp, err := r.Execute(context.Background(), domain.ClassBill, testPolicy(),
		countingCall(&calls, serverError(), unreachableError()))

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []domain.FailureKind{domain.FailureServer, domain.FailureUnreachable}, recorder.failures)
	assert.Equal(t, 1, recorder.successes)
}

func TestRetrier_TerminalFailureNotRetried(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"not found", notFoundError()},
		{"auth", &domain.UpstreamError{Kind: domain.FailureAuth, StatusCode: 403}},
		{"malformed", &domain.UpstreamError{Kind: domain.FailureMalformed}},
		{"unknown error", errors.New("boom")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clk := newStepClock()
			recorder := &mockRecorder{}
			r := newTestRetrier(&mockLimiter{}, recorder, clk, 0)

			calls := 0
			_, err := r.Execute(context.Background(), domain.ClassBill, testPolicy(), countingCall(&calls, tt.err))

			require.Error(t, err)
			assert.Equal(t, 1, calls)
			assert.Empty(t, clk.Waits())
			assert.ErrorIs(t, err, tt.err)

			var exhausted *domain.RetriesExhaustedError
			assert.False(t, errors.As(err, &exhausted))

			assert.Empty(t, recorder.failures, "terminal answers are not health failures")
			assert.Equal(t, 1, recorder.successes)
		})
	}
}

func TestRetrier_RateLimitedReportsToLimiter(t *testing.T) {
	clk := newStepClock()
	limiter := &mockLimiter{}
	r := newTestRetrier(limiter, &mockRecorder{}, clk, 0)

	calls := 0
	rateLimited := &domain.UpstreamError{Kind: domain.FailureRateLimited, StatusCode: 429, RetryAfter: 3 * time.Second}
	_, err := r.Execute(context.Background(), domain.ClassMember, testPolicy(), countingCall(&calls, rateLimited))

	require.NoError(t, err)
	assert.Equal(t, 2, calls, "429 is retried")
	assert.Equal(t, []time.Duration{3 * time.Second}, limiter.rateLimited)
}

func TestRetrier_AttemptTimeoutIsTransient(t *testing.T) {
	clk := newStepClock()
	recorder := &mockRecorder{}
	r := newTestRetrier(&mockLimiter{}, recorder, clk, 0)
	policy := testPolicy()
	policy.MaxAttempts = 2
	policy.AttemptTimeout = 10 * time.Millisecond

	calls := 0
	_, err := r.Execute(context.Background(), domain.ClassBill, policy, func(ctx context.Context) (*domain.RawResponse, error) {
		calls++
		<-ctx.Done()
		return nil, ctx.Err()
	})

	var exhausted *domain.RetriesExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 2, calls)
	assert.Equal(t, domain.FailureTimeout, domain.ClassifyFailure(err))
	assert.Equal(t, []domain.FailureKind{domain.FailureTimeout, domain.FailureTimeout}, recorder.failures)
}

func TestRetrier_AdmissionFailureNotRetried(t *testing.T) {
	clk := newStepClock()
	admitErr := errors.New("queue closed")
	r := newTestRetrier(&mockLimiter{admitErr: admitErr}, &mockRecorder{}, clk, 0)

	calls := 0
	_, err := r.Execute(context.Background(), domain.ClassBill, testPolicy(), countingCall(&calls))

	assert.ErrorIs(t, err, admitErr)
	assert.Zero(t, calls)
}

func TestRetrier_CallerCancellation(t *testing.T) {
	clk := newStepClock()
	recorder := &mockRecorder{}
	r := newTestRetrier(&mockLimiter{}, recorder, clk, 0)
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	_, err := r.Execute(ctx, domain.ClassBill, testPolicy(), func(ctx context.Context) (*domain.RawResponse, error) {
		calls++
		cancel()
		return nil, ctx.Err()
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
	assert.Empty(t, recorder.failures, "own cancellation is not recorded")
	assert.Zero(t, recorder.successes)
}

func TestRetrier_NormalisesPolicy(t *testing.T) {
	clk := newStepClock()
	r := newTestRetrier(&mockLimiter{}, nil, clk, 0)

	calls := 0
	_, err := r.Execute(context.Background(), domain.ClassBill, domain.RetryPolicy{}, countingCall(&calls, serverError(), serverError()))

	var exhausted *domain.RetriesExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 1, calls, "zero policy means a single attempt")
}

func TestRandomJitter(t *testing.T) {
	assert.Zero(t, randomJitter(0))
	assert.Zero(t, randomJitter(-time.Second))
	for range 100 {
		j := randomJitter(10 * time.Millisecond)
		assert.GreaterOrEqual(t, j, time.Duration(0))
		assert.Less(t, j, 10*time.Millisecond)
	}
}
