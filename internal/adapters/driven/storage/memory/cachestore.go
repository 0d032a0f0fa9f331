package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/jellydator/ttlcache/v3"
	"github.com/juju/clock"

	"github.com/custodia-labs/legis/internal/core/domain"
	"github.com/custodia-labs/legis/internal/core/ports/driven"
	"github.com/custodia-labs/legis/internal/telemetry"
)

// Ensure CacheStore implements the interface.
var _ driven.CacheStore = (*CacheStore)(nil)

// Default cache sizing.
const (
	DefaultCapacity = 4096
	DefaultShards   = 16
)

// CacheStore is a bounded, sharded, in-memory cache of canonical values.
//
// Signatures are spread across shards by hash so lookups for unrelated
// records never contend. Each shard is an LRU with its own share of the
// capacity. Validity is judged against the injected clock; an entry whose
// TTL has run out is treated as absent and removed on sight.
type CacheStore struct {
	clock  clock.Clock
	shards []*cacheShard

	mu      sync.Mutex
	running bool
}

type cacheShard struct {
	mu       sync.Mutex
	items    *ttlcache.Cache[string, domain.CacheEntry]
	capacity int
	clock    clock.Clock
}

// NewCacheStore creates a cache holding at most capacity entries split
// across the given number of shards. Non-positive values select defaults.
func NewCacheStore(capacity, shards int, clk clock.Clock) *CacheStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if shards <= 0 {
		shards = DefaultShards
	}
	if shards > capacity {
		shards = capacity
	}
	if clk == nil {
		clk = clock.WallClock
	}

	perShard := (capacity + shards - 1) / shards

	s := &CacheStore{clock: clk, shards: make([]*cacheShard, shards)}
	for i := range s.shards {
		items := ttlcache.New[string, domain.CacheEntry](
			ttlcache.WithCapacity[string, domain.CacheEntry](uint64(perShard)),
			ttlcache.WithDisableTouchOnHit[string, domain.CacheEntry](),
		)
		items.OnEviction(func(_ context.Context, reason ttlcache.EvictionReason, _ *ttlcache.Item[string, domain.CacheEntry]) {
			if reason == ttlcache.EvictionReasonCapacityReached {
				telemetry.RecordCacheEviction("capacity")
			}
		})
		s.shards[i] = &cacheShard{items: items, capacity: perShard, clock: clk}
	}
	return s
}

// Start runs the background expiry sweep of every shard until Close.
func (s *CacheStore) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	for _, sh := range s.shards {
		go sh.items.Start()
	}
}

// Close stops the background expiry sweep, if it was started.
func (s *CacheStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	s.running = false
	for _, sh := range s.shards {
		sh.items.Stop()
	}
	return nil
}

// Get returns the entry for sig if present and valid now.
func (s *CacheStore) Get(sig domain.RequestSignature) (domain.CacheEntry, bool) {
	entry, ok := s.shard(sig).get(string(sig))
	telemetry.RecordCacheLookup(ok)
	return entry, ok
}

// Put stores value under sig for ttl. A non-positive ttl stores nothing.
func (s *CacheStore) Put(sig domain.RequestSignature, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	s.shard(sig).put(domain.CacheEntry{
		Signature: sig,
		Value:     value,
		StoredAt:  s.clock.Now(),
		TTL:       ttl,
	})
}

// Invalidate removes the entry for sig.
func (s *CacheStore) Invalidate(sig domain.RequestSignature) {
	sh := s.shard(sig)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if sh.items.Has(string(sig)) {
		sh.items.Delete(string(sig))
		telemetry.RecordCacheEviction("invalidated")
	}
}

// InvalidatePrefix removes every entry whose signature starts with prefix.
func (s *CacheStore) InvalidatePrefix(prefix string) int {
	removed := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		for _, key := range sh.items.Keys() {
			if strings.HasPrefix(key, prefix) {
				sh.items.Delete(key)
				removed++
			}
		}
		sh.mu.Unlock()
	}
	for range removed {
		telemetry.RecordCacheEviction("invalidated")
	}
	return removed
}

// Len returns the number of stored entries, expired or not.
func (s *CacheStore) Len() int {
	n := 0
	for _, sh := range s.shards {
		n += sh.items.Len()
	}
	return n
}

func (s *CacheStore) shard(sig domain.RequestSignature) *cacheShard {
	return s.shards[xxhash.Sum64String(string(sig))%uint64(len(s.shards))]
}

func (sh *cacheShard) get(key string) (domain.CacheEntry, bool) {
	sh.mu.Lock()
	defer sh.mu.Unlock()

	item := sh.items.Get(key)
	if item == nil {
		return domain.CacheEntry{}, false
	}
	entry := item.Value()
	if !entry.Valid(sh.clock.Now()) {
		sh.items.Delete(key)
		telemetry.RecordCacheEviction("expired")
		return domain.CacheEntry{}, false
	}
	return entry, true
}

func (sh *cacheShard) put(entry domain.CacheEntry) {
	key := string(entry.Signature)

	sh.mu.Lock()
	defer sh.mu.Unlock()

	// Expired entries go before any live entry is evicted for room.
	if !sh.items.Has(key) && sh.items.Len() >= sh.capacity {
		sh.purgeExpiredLocked()
	}
	sh.items.Set(key, entry, entry.TTL)
}

func (sh *cacheShard) purgeExpiredLocked() {
	now := sh.clock.Now()
	var expired []string
	sh.items.Range(func(item *ttlcache.Item[string, domain.CacheEntry]) bool {
		if !item.Value().Valid(now) {
			expired = append(expired, item.Key())
		}
		return true
	})
	for _, key := range expired {
		sh.items.Delete(key)
		telemetry.RecordCacheEviction("expired")
	}
}
