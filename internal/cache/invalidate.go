// internal/cache/invalidate.go
//
// Dirty-marking and eviction policies.
//
// Context
// -------
// Two distinct pressures act on the cache and must not be conflated:
//
//   - staleness    → dirty-marking; geometry stays resident but is never
//     served until the frame is re-added
//   - memory       → hard eviction; geometry and batch are gone
//
// MarkAllDirty is the coarse hammer the gateway swings on any geometry
// change.  InvalidateNear and EvictDistant are the frame-distance variants
// for callers that know a change, or the working set, is localized in time.
package cache

import (
	"container/list"

	"github.com/yanizio/onionskin/internal/metrics"
)

// MarkDirty flags one frame as stale and drops its built batch.  The raw
// geometry stays until evicted or overwritten.
func (c *FrameCache) MarkDirty(frame int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.markDirtyLocked(frame)
	c.updateGauges()
}

func (c *FrameCache) markDirtyLocked(frame int) {
	c.dirty[frame] = struct{}{}
	if ele, ok := c.dict[frame]; ok {
		ele.Value.(*entry).batch = nil
	}
}

// MarkAllDirty flags every cached frame and drops every built batch.  Used
// when the exact affected range is unknown or too costly to compute.
func (c *FrameCache) MarkAllDirty() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for frame, ele := range c.dict {
		c.dirty[frame] = struct{}{}
		ele.Value.(*entry).batch = nil
	}
	c.updateGauges()
}

// InvalidateNear dirties every cached frame within radius of center.
func (c *FrameCache) InvalidateNear(center, radius int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for frame := range c.dict {
		if abs(frame-center) <= radius {
			c.markDirtyLocked(frame)
		}
	}
	c.updateGauges()
}

// EvictDistant hard-removes every entry farther than keepRadius from
// center.  This is memory relief, not staleness: dirty flags on retained
// entries are untouched.
func (c *FrameCache) EvictDistant(center, keepRadius int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var evict []*list.Element
	for ele := c.ll.Front(); ele != nil; ele = ele.Next() {
		if abs(ele.Value.(*entry).frame-center) > keepRadius {
			evict = append(evict, ele)
		}
	}
	for _, ele := range evict {
		ent := ele.Value.(*entry)
		c.ll.Remove(ele)
		delete(c.dict, ent.frame)
		metrics.CacheEvictTotal.Inc()
		c.log.Debugw("frame evicted", "frame", ent.frame, "reason", "distance",
			"center", center, "keep_radius", keepRadius)
	}
	c.updateGauges()
}

// Clear empties entries and the dirty set, and resets stats and the
// last-served marker.  Used on file load and when the tracked set changes.
func (c *FrameCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ll.Init()
	c.dict = make(map[int]*list.Element, c.cap)
	c.dirty = make(map[int]struct{})
	c.hits = 0
	c.misses = 0
	c.lastServed = noFrame
	c.updateGauges()
	c.log.Debugw("cache cleared")
}

// abs is integer absolute value.
func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
