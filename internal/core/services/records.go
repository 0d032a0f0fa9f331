package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/legis/internal/core/domain"
	"github.com/custodia-labs/legis/internal/core/ports/driven"
	"github.com/custodia-labs/legis/internal/core/ports/driving"
	"github.com/custodia-labs/legis/internal/logger"
	"github.com/custodia-labs/legis/internal/telemetry"
)

// Ensure RecordService implements the interface.
var _ driving.RecordService = (*RecordService)(nil)

// errStaticMode is the live-side cause reported when static mode bypassed the upstream.
var errStaticMode = errors.New("upstream bypassed in static mode")

// RecordService is the data access facade. It routes each query to the
// cache, the upstream or the static snapshot according to the health mode,
// and hands back canonical values with their origin.
type RecordService struct {
	upstream driven.Upstream
	canon    driven.Canonicalizer
	cache    driven.CacheStore
	snapshot driven.SnapshotStore
	health   *HealthMonitor
	retrier  *Retrier
	settings domain.Settings

	inflight singleflight.Group
}

// NewRecordService creates the facade. snapshot is optional; without it a
// failed live lookup is reported as unavailable.
func NewRecordService(
	upstream driven.Upstream,
	canon driven.Canonicalizer,
	cache driven.CacheStore,
	snapshot driven.SnapshotStore,
	health *HealthMonitor,
	retrier *Retrier,
	settings domain.Settings,
) *RecordService {
	return &RecordService{
		upstream: upstream,
		canon:    canon,
		cache:    cache,
		snapshot: snapshot,
		health:   health,
		retrier:  retrier,
		settings: settings,
	}
}

// GetBill returns a bill by ID ("118-hr-1234").
func (s *RecordService) GetBill(ctx context.Context, id string) (domain.Result[domain.Bill], error) {
	billID, err := domain.ParseBillID(id)
	if err != nil {
		return domain.Result[domain.Bill]{}, err
	}
	return fetch(ctx, s, lookup[domain.Bill]{
		query:     domain.BillQuery(billID),
		canonical: s.canon.Bill,
		static: func(ctx context.Context, snap driven.SnapshotStore) (domain.Bill, error) {
			return snap.Bill(ctx, billID.String())
		},
	})
}

// ListBills returns a page of the bills of a congress.
func (s *RecordService) ListBills(
	ctx context.Context,
	congress int,
	page domain.Page,
) (domain.Result[[]domain.Bill], error) {
	if congress <= 0 {
		return domain.Result[[]domain.Bill]{}, fmt.Errorf("%w: congress %d", domain.ErrInvalidInput, congress)
	}
	page = page.Normalised()
	return fetch(ctx, s, lookup[[]domain.Bill]{
		query:     domain.BillListQuery(congress, page),
		canonical: s.canon.Bills,
		static: func(ctx context.Context, snap driven.SnapshotStore) ([]domain.Bill, error) {
			return snap.Bills(ctx, congress, page)
		},
	})
}

// GetMember returns a member by bioguide ID.
func (s *RecordService) GetMember(ctx context.Context, bioguideID string) (domain.Result[domain.Member], error) {
	if strings.TrimSpace(bioguideID) == "" {
		return domain.Result[domain.Member]{}, fmt.Errorf("%w: empty bioguide id", domain.ErrInvalidInput)
	}
	q := domain.MemberQuery(bioguideID)
	return fetch(ctx, s, lookup[domain.Member]{
		query:     q,
		canonical: s.canon.Member,
		static: func(ctx context.Context, snap driven.SnapshotStore) (domain.Member, error) {
			return snap.Member(ctx, q.SnapshotKey)
		},
	})
}

// MembersByState returns the current members representing a state.
func (s *RecordService) MembersByState(ctx context.Context, state string) (domain.Result[[]domain.Member], error) {
	code := strings.ToUpper(strings.TrimSpace(state))
	if len(code) != 2 {
		return domain.Result[[]domain.Member]{}, fmt.Errorf("%w: state %q", domain.ErrInvalidInput, state)
	}
	return fetch(ctx, s, lookup[[]domain.Member]{
		query:     domain.MembersByStateQuery(code),
		canonical: s.canon.Members,
		static: func(ctx context.Context, snap driven.SnapshotStore) ([]domain.Member, error) {
			return snap.MembersByState(ctx, code)
		},
	})
}

// GetCommittee returns a committee by chamber and system code.
func (s *RecordService) GetCommittee(
	ctx context.Context,
	chamber, code string,
) (domain.Result[domain.Committee], error) {
	if !domain.IsChamber(chamber) {
		return domain.Result[domain.Committee]{}, fmt.Errorf("%w: chamber %q", domain.ErrInvalidInput, chamber)
	}
	if strings.TrimSpace(code) == "" {
		return domain.Result[domain.Committee]{}, fmt.Errorf("%w: empty committee code", domain.ErrInvalidInput)
	}
	return fetch(ctx, s, lookup[domain.Committee]{
		query:     domain.CommitteeQuery(chamber, code),
		canonical: s.canon.Committee,
		static: func(ctx context.Context, snap driven.SnapshotStore) (domain.Committee, error) {
			return snap.Committee(ctx, chamber, code)
		},
	})
}

// ListCommittees returns the committees of a chamber.
func (s *RecordService) ListCommittees(ctx context.Context, chamber string) (domain.Result[[]domain.Committee], error) {
	if !domain.IsChamber(chamber) {
		return domain.Result[[]domain.Committee]{}, fmt.Errorf("%w: chamber %q", domain.ErrInvalidInput, chamber)
	}
	return fetch(ctx, s, lookup[[]domain.Committee]{
		query:     domain.CommitteeListQuery(chamber),
		canonical: s.canon.Committees,
		static: func(ctx context.Context, snap driven.SnapshotStore) ([]domain.Committee, error) {
			return snap.Committees(ctx, chamber)
		},
	})
}

// Invalidate drops cached results whose signature starts with prefix.
func (s *RecordService) Invalidate(prefix string) int {
	if prefix == "" {
		prefix = "/"
	}
	n := s.cache.InvalidatePrefix(prefix)
	logger.Debug("invalidated %d cache entries under %q", n, prefix)
	return n
}

// Mode returns the current upstream health mode.
func (s *RecordService) Mode() domain.HealthMode {
	return s.health.Mode()
}

// lookup describes how one logical query is answered by each source.
type lookup[T any] struct {
	query     domain.Query
	canonical func(domain.Object) (T, []domain.Diagnostic)
	static    func(context.Context, driven.SnapshotStore) (T, error)
}

// cached is what the cache stores for a query: the canonical value and the
// diagnostics produced while building it.
type cached[T any] struct {
	value       T
	diagnostics []domain.Diagnostic
}

// copy returns the entry's contents detached from the cached instance, so
// callers may modify what they are handed.
func (c cached[T]) copy() (T, []domain.Diagnostic) {
	return domain.CloneRecords(c.value), slices.Clone(c.diagnostics)
}

func fetch[T any](ctx context.Context, s *RecordService, l lookup[T]) (domain.Result[T], error) {
	sig := l.query.Signature()
	ctx = logger.WithLogger(ctx, logger.FromContext(ctx).With("signature", sig.String()))
	log := logger.FromContext(ctx)

	res := domain.Result[T]{Signature: sig, Mode: s.health.Mode(), Diagnostics: []domain.Diagnostic{}}

	if res.Mode == domain.ModeStatic {
		value, err := fromSnapshot(ctx, s, l)
		if err != nil {
			return res, &domain.UnavailableError{Signature: sig, Live: errStaticMode, Static: err}
		}
		telemetry.RecordSnapshotServed(ctx, "static_mode")
		res.Value = value
		res.Origin = domain.OriginStatic
		res.CacheBypassed = true
		res.Degraded = true
		return res, nil
	}

	if entry, ok := s.cache.Get(sig); ok {
		if c, ok := entry.Value.(cached[T]); ok {
			res.Value, res.Diagnostics = c.copy()
			res.Origin = domain.OriginCache
			res.Degraded = res.Mode != domain.ModeLive
			return res, nil
		}
	}

	// The load runs detached from ctx so that a caller giving up does not
	// cancel work other callers share, and the result still reaches the cache.
	detached := context.WithoutCancel(ctx)
	ch := s.inflight.DoChan(sig.String(), func() (any, error) {
		return loadLive(detached, s, l)
	})

	select {
	case <-ctx.Done():
		return res, ctx.Err()
	case out := <-ch:
		res.Mode = s.health.Mode()
		if out.Err == nil {
			res.Value, res.Diagnostics = out.Val.(cached[T]).copy()
			res.Origin = domain.OriginLive
			res.Degraded = res.Mode != domain.ModeLive
			return res, nil
		}

		liveErr := out.Err
		value, err := fromSnapshot(ctx, s, l)
		if err != nil {
			log.Debug("no data from either source", "live_error", liveErr, "static_error", err)
			return res, &domain.UnavailableError{Signature: sig, Live: liveErr, Static: err}
		}
		log.Info("serving snapshot after live failure", "error", liveErr)
		telemetry.RecordSnapshotServed(ctx, "fallback")
		res.Value = value
		res.Origin = domain.OriginStatic
		res.Degraded = true
		return res, nil
	}
}

func loadLive[T any](ctx context.Context, s *RecordService, l lookup[T]) (cached[T], error) {
	policy := s.settings.Retry.Normal
	if s.health.Mode() == domain.ModeDegraded {
		policy = s.settings.Retry.Degraded
	}

	raw, err := s.retrier.Execute(ctx, l.query.Class, policy, func(ctx context.Context) (*domain.RawResponse, error) {
		return s.upstream.Fetch(ctx, l.query)
	})
	if err != nil {
		return cached[T]{}, err
	}

	value, diagnostics := l.canonical(raw.Body)
	if diagnostics == nil {
		diagnostics = []domain.Diagnostic{}
	}
	if len(diagnostics) > 0 {
		logger.FromContext(ctx).Debug("canonicalized with diagnostics", "count", len(diagnostics))
	}

	c := cached[T]{value: value, diagnostics: diagnostics}
	s.cache.Put(l.query.Signature(), c, s.settings.Cache.TTL(l.query.Class))
	return c, nil
}

func fromSnapshot[T any](ctx context.Context, s *RecordService, l lookup[T]) (T, error) {
	var zero T
	if s.snapshot == nil {
		return zero, domain.ErrSnapshotUnavailable
	}
	return l.static(ctx, s.snapshot)
}
