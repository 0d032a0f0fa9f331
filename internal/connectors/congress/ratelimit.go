package congress

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/juju/clock"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/legis/internal/core/domain"
	"github.com/custodia-labs/legis/internal/core/ports/driven"
	"github.com/custodia-labs/legis/internal/telemetry"
)

// Ensure RateLimiter implements the interface.
var _ driven.RateLimiter = (*RateLimiter)(nil)

// SharedBudget is the budget name used when budgets are not segmented.
const SharedBudget = "shared"

// RateLimiter implements dual-strategy rate limiting for the congress.gov API.
//
// A token bucket paces requests, and a log of admission times enforces the
// hard ceiling: at most N admissions in any window [t, t+W). After a 429 the
// ceiling is halved for one window and admissions stop until Retry-After.
type RateLimiter struct {
	clock     clock.Clock
	ceiling   int
	window    time.Duration
	burst     int
	segmented bool

	mu      sync.Mutex
	budgets map[string]*budget
}

// budget is one independently limited request stream.
type budget struct {
	name   string
	turn   chan struct{} // FIFO: holder of the token is the next to be admitted
	bucket *rate.Limiter

	// guarded by RateLimiter.mu
	admitted     []time.Time
	penaltyUntil time.Time
	blockedUntil time.Time
	waiting      int
	total        int64
}

// NewRateLimiter creates a rate limiter from settings.
func NewRateLimiter(settings domain.RateLimitSettings, clk clock.Clock) *RateLimiter {
	d := domain.DefaultSettings().RateLimit
	if settings.RequestsPerWindow <= 0 {
		settings.RequestsPerWindow = d.RequestsPerWindow
	}
	if settings.Window <= 0 {
		settings.Window = d.Window
	}
	if settings.Burst <= 0 {
		settings.Burst = 1
	}
	if clk == nil {
		clk = clock.WallClock
	}
	return &RateLimiter{
		clock:     clk,
		ceiling:   settings.RequestsPerWindow,
		window:    settings.Window,
		burst:     settings.Burst,
		segmented: settings.Segmented,
		budgets:   make(map[string]*budget),
	}
}

// Admit blocks until a request of the given class may be sent.
func (r *RateLimiter) Admit(ctx context.Context, class domain.RequestClass) (domain.Ticket, error) {
	b := r.budget(class)
	start := r.clock.Now()

	r.mu.Lock()
	b.waiting++
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		b.waiting--
		r.mu.Unlock()
	}()

	select {
	case <-b.turn:
	case <-ctx.Done():
		return domain.Ticket{}, ctx.Err()
	}
	defer func() { b.turn <- struct{}{} }()

	counted := false
	for {
		r.mu.Lock()
		now := r.clock.Now()
		wait := r.waitLocked(b, now)
		if wait <= 0 {
			b.admitted = append(b.admitted, now)
			b.total++
			r.mu.Unlock()
			return domain.Ticket{
				ID:         uuid.NewString(),
				Class:      class,
				Budget:     b.name,
				AdmittedAt: now,
				Waited:     now.Sub(start),
			}, nil
		}
		r.mu.Unlock()

		if !counted {
			telemetry.RecordRateLimitWait(b.name)
			counted = true
		}
		select {
		case <-ctx.Done():
			return domain.Ticket{}, ctx.Err()
		case <-r.clock.After(wait):
		}
	}
}

// ReportRateLimited halves the budget's ceiling for one window and blocks
// admissions for retryAfter.
func (r *RateLimiter) ReportRateLimited(class domain.RequestClass, retryAfter time.Duration) {
	b := r.budget(class)

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	b.penaltyUntil = now.Add(r.window)
	if retryAfter > 0 {
		if until := now.Add(retryAfter); until.After(b.blockedUntil) {
			b.blockedUntil = until
		}
	}
}

// Stats returns the state of every budget, sorted by name.
func (r *RateLimiter) Stats() []domain.RateBudgetStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	stats := make([]domain.RateBudgetStats, 0, len(r.budgets))
	for _, b := range r.budgets {
		r.pruneLocked(b, now)
		s := domain.RateBudgetStats{
			Budget:        b.name,
			Ceiling:       r.ceiling,
			Effective:     r.effectiveLocked(b, now),
			Window:        r.window,
			InWindow:      len(b.admitted),
			Waiting:       b.waiting,
			TotalAdmitted: b.total,
		}
		if now.Before(b.penaltyUntil) {
			s.PenaltyUntil = b.penaltyUntil
		}
		if now.Before(b.blockedUntil) {
			s.BlockedUntil = b.blockedUntil
		}
		stats = append(stats, s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Budget < stats[j].Budget })
	return stats
}

// budget returns the budget for a class, creating it on first use.
func (r *RateLimiter) budget(class domain.RequestClass) *budget {
	name := SharedBudget
	if r.segmented {
		name = class.Family()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.budgets[name]; ok {
		return b
	}
	perSecond := float64(r.ceiling) / r.window.Seconds()
	b := &budget{
		name:   name,
		turn:   make(chan struct{}, 1),
		bucket: rate.NewLimiter(rate.Limit(perSecond), r.burst),
	}
	b.turn <- struct{}{}
	r.budgets[name] = b
	return b
}

// waitLocked returns how long the budget must wait before admitting at
// now, consuming a pacing token when it returns zero.
func (r *RateLimiter) waitLocked(b *budget, now time.Time) time.Duration {
	if now.Before(b.blockedUntil) {
		return b.blockedUntil.Sub(now)
	}

	r.pruneLocked(b, now)
	if limit := r.effectiveLocked(b, now); len(b.admitted) >= limit {
		oldest := b.admitted[len(b.admitted)-limit]
		return oldest.Add(r.window).Sub(now)
	}

	if b.bucket.AllowN(now, 1) {
		return 0
	}
	missing := 1 - b.bucket.TokensAt(now)
	wait := time.Duration(missing / float64(b.bucket.Limit()) * float64(time.Second))
	return max(wait, time.Millisecond)
}

// pruneLocked drops admissions that have left the window.
func (r *RateLimiter) pruneLocked(b *budget, now time.Time) {
	cutoff := now.Add(-r.window)
	i := 0
	for i < len(b.admitted) && !b.admitted[i].After(cutoff) {
		i++
	}
	b.admitted = b.admitted[i:]
}

func (r *RateLimiter) effectiveLocked(b *budget, now time.Time) int {
	if now.Before(b.penaltyUntil) {
		return max(1, r.ceiling/2)
	}
	return r.ceiling
}
