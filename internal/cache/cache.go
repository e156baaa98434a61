// internal/cache/cache.go
//
// Bounded, dirty-aware frame cache.
//
// Context
// -------
// FrameCache maps animation frame numbers to merged ghost geometry and to
// lazily-built render batches.  A map plus container/list gives O(1) lookup
// with explicit LRU recency, the same mechanical shape as the template LRU
// this package replaced.  Both Add and GetBatch count as a recency touch.
//
// The dirty set rides alongside the entries: a frame present in the map but
// marked dirty is never served, so stale geometry can sit in memory until
// the background precacher overwrites it without ever reaching the screen.
//
// Ownership
// ---------
// One FrameCache per session.  All methods take the internal mutex, so the
// interactive draw path and the precache goroutine may call in freely.
//
// Notes
// -----
//   - Eviction is immediate: Add never returns with size > capacity.
//   - Oxford commas, two spaces after periods.
package cache

import (
	"container/list"
	"sync"

	"go.uber.org/zap"

	"github.com/yanizio/onionskin/internal/batch"
	"github.com/yanizio/onionskin/internal/geometry"
	"github.com/yanizio/onionskin/internal/metrics"
	"golang.org/x/sync/singleflight"
)

// DefaultCapacity bounds the cache when no override is configured.
const DefaultCapacity = 500

// noFrame is the lastServed sentinel meaning "no onion set computed yet."
const noFrame = -999

// FrameCache is the two-tier geometry/batch cache.
type FrameCache struct {
	mu         sync.Mutex
	cap        int
	ll         *list.List               // front = most recently touched
	dict       map[int]*list.Element    // frame → element holding *entry
	dirty      map[int]struct{}         // frames that must not be served
	hits       uint64
	misses     uint64
	lastServed int

	sfg singleflight.Group
	log *zap.SugaredLogger
}

// New returns a FrameCache bounded to capacity entries.  A non-positive
// capacity falls back to DefaultCapacity.
func New(capacity int, log *zap.SugaredLogger) *FrameCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if log == nil {
		log = zap.S()
	}
	return &FrameCache{
		cap:        capacity,
		ll:         list.New(),
		dict:       make(map[int]*list.Element, capacity),
		dirty:      make(map[int]struct{}),
		lastServed: noFrame,
		log:        log,
	}
}

// IsCached reports whether frame holds servable geometry: present and not
// dirty.  No side effects, no recency touch.
func (c *FrameCache) IsCached(frame int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isCachedLocked(frame)
}

func (c *FrameCache) isCachedLocked(frame int) bool {
	if _, d := c.dirty[frame]; d {
		return false
	}
	_, ok := c.dict[frame]
	return ok
}

// Add stores geometry for frame, clears its dirty flag and any stale batch
// in the same step, and evicts LRU entries until the bound holds.  Empty
// geometry is rejected without touching any state.
func (c *FrameCache) Add(frame int, g geometry.Geometry) {
	if g.Empty() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.misses++
	metrics.CacheMissesTotal.Inc()

	if ele, ok := c.dict[frame]; ok {
		ele.Value = &entry{frame: frame, geom: g}
		c.ll.MoveToFront(ele)
	} else {
		c.dict[frame] = c.ll.PushFront(&entry{frame: frame, geom: g})
	}
	delete(c.dirty, frame)

	for c.ll.Len() > c.cap {
		last := c.ll.Back()
		ent := last.Value.(*entry)
		c.ll.Remove(last)
		delete(c.dict, ent.frame)
		metrics.CacheEvictTotal.Inc()
		c.log.Debugw("frame evicted", "frame", ent.frame, "reason", "lru")
	}

	c.updateGauges()
}

// GetBatch returns the render batch for frame, building and memoizing it on
// first use.  Dirty or absent frames return nil.  A failed build returns
// nil without caching a sentinel, so the next call retries.
func (c *FrameCache) GetBatch(frame int) *batch.Batch {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, d := c.dirty[frame]; d {
		return nil
	}
	ele, ok := c.dict[frame]
	if !ok {
		return nil
	}
	ent := ele.Value.(*entry)

	if ent.batch != nil {
		c.hits++
		metrics.CacheHitsTotal.Inc()
		c.ll.MoveToFront(ele)
		return ent.batch
	}

	b, err := batch.Build(ent.geom)
	if err != nil {
		c.log.Debugw("batch build failed", "frame", frame, "err", err)
		return nil
	}
	ent.batch = b
	c.hits++
	metrics.CacheHitsTotal.Inc()
	c.ll.MoveToFront(ele)
	return b
}

// Stats returns a consistent snapshot of the cache counters.
func (c *FrameCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Size:     c.ll.Len(),
		Capacity: c.cap,
		Hits:     c.hits,
		Misses:   c.misses,
		Dirty:    len(c.dirty),
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total) * 100
	}
	return s
}

// LastServed returns the frame the last onion set was computed for, or
// false when none has been yet.
func (c *FrameCache) LastServed() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastServed, c.lastServed != noFrame
}

// SetLastServed records the frame the current onion set was computed for.
func (c *FrameCache) SetLastServed(frame int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastServed = frame
}

// updateGauges pushes size and dirty counts to Prometheus.  Caller holds mu.
func (c *FrameCache) updateGauges() {
	metrics.CachedFrames.Set(float64(c.ll.Len()))
	metrics.DirtyFrames.Set(float64(len(c.dirty)))
}
