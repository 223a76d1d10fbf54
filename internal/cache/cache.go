// Package cache holds the last successfully built observation for a
// bounded window, so bursts of requests don't multiply load on the
// upstream feed.
package cache

import (
	"sync"
	"time"

	"github.com/couchcryptid/buoy-report-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

// ReportCache is a single-slot TTL cache. A write replaces the slot
// wholesale; a read returns the entry only while it is younger than the
// TTL. There is no explicit invalidation: an entry is superseded by the
// next write or expires by the age check at read time.
type ReportCache struct {
	ttl   time.Duration
	clock clockwork.Clock

	mu    sync.Mutex
	entry *entry
}

type entry struct {
	observation domain.Observation
	storedAt    time.Time
}

// New creates a ReportCache with the given time-to-live.
func New(ttl time.Duration) *ReportCache {
	return NewWithClock(ttl, clockwork.NewRealClock())
}

// NewWithClock creates a ReportCache with an injected time source, so tests
// can advance time deterministically.
func NewWithClock(ttl time.Duration, clock clockwork.Clock) *ReportCache {
	return &ReportCache{ttl: ttl, clock: clock}
}

// Read returns the stored observation while its age is below the TTL.
func (c *ReportCache) Read() (domain.Observation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entry == nil {
		return domain.Observation{}, false
	}
	if c.clock.Since(c.entry.storedAt) >= c.ttl {
		return domain.Observation{}, false
	}
	return c.entry.observation, true
}

// Write replaces the stored entry with a fresh one stamped now.
func (c *ReportCache) Write(o domain.Observation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entry = &entry{observation: o, storedAt: c.clock.Now()}
}
