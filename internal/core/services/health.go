package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/juju/clock"

	"github.com/custodia-labs/legis/internal/core/domain"
	"github.com/custodia-labs/legis/internal/core/ports/driven"
	"github.com/custodia-labs/legis/internal/core/ports/driving"
	"github.com/custodia-labs/legis/internal/logger"
	"github.com/custodia-labs/legis/internal/telemetry"
)

// Ensure HealthMonitor implements the interface.
var _ driving.HealthService = (*HealthMonitor)(nil)

// HealthMonitor tracks recent upstream outcomes and decides the routing
// mode. Mode reads are lock-free; all state changes go through one mutex.
//
// Live -> Degraded when the failure ratio over the window crosses the
// threshold or the upstream is repeatedly unreachable. Degraded -> Static
// on an unreachable failure, on a run of consecutive failures, or on any
// failure once the grace period has passed without a success. The only way
// back to Live is a successful probe; time passing never changes the mode.
type HealthMonitor struct {
	settings domain.HealthSettings
	clock    clock.Clock
	upstream driven.Upstream
	limiter  driven.RateLimiter

	mode atomic.Value // domain.HealthMode

	mu                     sync.Mutex
	window                 []bool // true is a failure
	next                   int
	filled                 int
	consecutiveFailures    int
	consecutiveUnreachable int
	degradedSince          time.Time
	successSinceDegraded   bool
	lastTransition         time.Time
	lastSuccess            time.Time
	lastProbe              time.Time
	lastProbeErr           string
	hooks                  []func(domain.Transition)
}

// NewHealthMonitor creates a monitor in live mode.
// upstream and limiter are only needed for probing and may be nil in tests
// that drive the monitor through the Record methods.
func NewHealthMonitor(
	settings domain.HealthSettings,
	clk clock.Clock,
	upstream driven.Upstream,
	limiter driven.RateLimiter,
) *HealthMonitor {
	if settings.WindowSize <= 0 {
		settings.WindowSize = domain.DefaultSettings().Health.WindowSize
	}
	if settings.MinSamples <= 0 || settings.MinSamples > settings.WindowSize {
		settings.MinSamples = settings.WindowSize
	}
	if clk == nil {
		clk = clock.WallClock
	}
	m := &HealthMonitor{
		settings:       settings,
		clock:          clk,
		upstream:       upstream,
		limiter:        limiter,
		window:         make([]bool, settings.WindowSize),
		lastTransition: clk.Now(),
	}
	m.mode.Store(domain.ModeLive)
	return m
}

// Mode returns the current mode.
func (m *HealthMonitor) Mode() domain.HealthMode {
	return m.mode.Load().(domain.HealthMode)
}

// OnTransition registers fn to be called after every mode change.
// Hooks run outside the monitor's lock, in registration order.
func (m *HealthMonitor) OnTransition(fn func(domain.Transition)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, fn)
}

// Status returns the current health state.
func (m *HealthMonitor) Status() domain.HealthStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	failures := 0
	for i := 0; i < m.filled; i++ {
		if m.window[i] {
			failures++
		}
	}
	status := domain.HealthStatus{
		Mode:                m.Mode(),
		WindowSize:          len(m.window),
		Successes:           m.filled - failures,
		Failures:            failures,
		ConsecutiveFailures: m.consecutiveFailures,
		LastTransition:      m.lastTransition,
		LastSuccess:         m.lastSuccess,
		LastProbe:           m.lastProbe,
		LastProbeError:      m.lastProbeErr,
	}
	if m.filled > 0 {
		status.FailureRatio = float64(failures) / float64(m.filled)
	}
	return status
}

// RateBudgets returns the state of every outbound rate budget.
func (m *HealthMonitor) RateBudgets() []domain.RateBudgetStats {
	if m.limiter == nil {
		return []domain.RateBudgetStats{}
	}
	return m.limiter.Stats()
}

// RecordSuccess records an ordinary call that reached the upstream.
// In degraded mode it resets the failure run but does not change the mode.
func (m *HealthMonitor) RecordSuccess() {
	m.mu.Lock()
	m.push(false)
	m.consecutiveFailures = 0
	m.consecutiveUnreachable = 0
	m.lastSuccess = m.clock.Now()
	if m.Mode() == domain.ModeDegraded {
		m.successSinceDegraded = true
	}
	m.mu.Unlock()
}

// RecordFailure records a transient failure of an ordinary call.
func (m *HealthMonitor) RecordFailure(kind domain.FailureKind) {
	m.mu.Lock()
	t := m.recordFailureLocked(kind)
	m.mu.Unlock()
	m.fire(t)
}

// RecordProbe records the outcome of a canary request. A nil error is the
// only event that returns the monitor to live mode.
func (m *HealthMonitor) RecordProbe(err error) {
	m.mu.Lock()
	now := m.clock.Now()
	m.lastProbe = now

	var t *domain.Transition
	if err == nil {
		m.lastProbeErr = ""
		m.lastSuccess = now
		if m.Mode() != domain.ModeLive {
			t = m.transition(domain.ModeLive, "probe succeeded")
		}
	} else {
		m.lastProbeErr = err.Error()
		t = m.recordFailureLocked(domain.ClassifyFailure(err))
	}
	m.mu.Unlock()
	m.fire(t)
}

// Probe sends one canary request through the rate limiter and records it.
func (m *HealthMonitor) Probe(ctx context.Context) (domain.HealthStatus, error) {
	if m.upstream == nil {
		return m.Status(), fmt.Errorf("probe: %w", domain.ErrUnavailable)
	}
	if m.limiter != nil {
		if _, err := m.limiter.Admit(ctx, domain.ClassProbe); err != nil {
			return m.Status(), fmt.Errorf("probe admission: %w", err)
		}
	}

	_, err := m.upstream.Fetch(ctx, domain.ProbeQuery())
	if err != nil && ctx.Err() != nil {
		// Our own cancellation says nothing about the upstream.
		return m.Status(), ctx.Err()
	}
	m.RecordProbe(err)
	logger.FromContext(ctx).Debug("upstream probe", "mode", m.Mode().String(), "error", err)
	return m.Status(), err
}

// Run probes the upstream every probe interval while not live, until ctx
// is done.
func (m *HealthMonitor) Run(ctx context.Context) {
	interval := m.settings.ProbeInterval
	if interval <= 0 {
		interval = domain.DefaultSettings().Health.ProbeInterval
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.clock.After(interval):
			if m.Mode() != domain.ModeLive {
				_, _ = m.Probe(ctx)
			}
		}
	}
}

// push must be called with mu held.
func (m *HealthMonitor) push(failure bool) {
	m.window[m.next] = failure
	m.next = (m.next + 1) % len(m.window)
	if m.filled < len(m.window) {
		m.filled++
	}
}

// recordFailureLocked must be called with mu held.
func (m *HealthMonitor) recordFailureLocked(kind domain.FailureKind) *domain.Transition {
	m.push(true)
	m.consecutiveFailures++
	if kind == domain.FailureUnreachable {
		m.consecutiveUnreachable++
	} else {
		m.consecutiveUnreachable = 0
	}

	switch m.Mode() {
	case domain.ModeLive:
		if m.consecutiveUnreachable >= m.unreachableThreshold() {
			return m.transition(domain.ModeDegraded,
				fmt.Sprintf("%d consecutive unreachable failures", m.consecutiveUnreachable))
		}
		if m.filled >= m.settings.MinSamples {
			if ratio := m.failureRatio(); ratio > m.settings.FailureThreshold {
				return m.transition(domain.ModeDegraded,
					fmt.Sprintf("failure ratio %.2f over %d attempts", ratio, m.filled))
			}
		}
	case domain.ModeDegraded:
		switch {
		case kind == domain.FailureUnreachable:
			return m.transition(domain.ModeStatic, "upstream unreachable")
		case m.settings.StaticAfterFailures > 0 && m.consecutiveFailures >= m.settings.StaticAfterFailures:
			return m.transition(domain.ModeStatic,
				fmt.Sprintf("%d consecutive failures", m.consecutiveFailures))
		case !m.successSinceDegraded && m.clock.Now().Sub(m.degradedSince) >= m.settings.GracePeriod:
			return m.transition(domain.ModeStatic, "no success within grace period")
		}
	}
	return nil
}

func (m *HealthMonitor) unreachableThreshold() int {
	if m.settings.UnreachableThreshold <= 0 {
		return 1
	}
	return m.settings.UnreachableThreshold
}

// failureRatio must be called with mu held.
func (m *HealthMonitor) failureRatio() float64 {
	failures := 0
	for i := 0; i < m.filled; i++ {
		if m.window[i] {
			failures++
		}
	}
	return float64(failures) / float64(m.filled)
}

// transition must be called with mu held.
func (m *HealthMonitor) transition(to domain.HealthMode, reason string) *domain.Transition {
	now := m.clock.Now()
	t := &domain.Transition{From: m.Mode(), To: to, At: now, Reason: reason}

	m.mode.Store(to)
	m.lastTransition = now
	switch to {
	case domain.ModeDegraded:
		m.degradedSince = now
		m.successSinceDegraded = false
	case domain.ModeLive:
		// Start over so stale failures cannot flip the mode straight back.
		m.window = make([]bool, len(m.window))
		m.next, m.filled = 0, 0
		m.consecutiveFailures = 0
		m.consecutiveUnreachable = 0
	}
	return t
}

func (m *HealthMonitor) fire(t *domain.Transition) {
	if t == nil {
		return
	}
	logger.Warn("upstream mode %s -> %s: %s", t.From, t.To, t.Reason)
	telemetry.RecordHealthTransition(t.From.String(), t.To.String())

	m.mu.Lock()
	hooks := make([]func(domain.Transition), len(m.hooks))
	copy(hooks, m.hooks)
	m.mu.Unlock()

	for _, fn := range hooks {
		fn(*t)
	}
}
