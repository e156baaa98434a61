// internal/gateway/gateway.go
//
// Host-notification adapter.
//
// Context
// -------
// Hosts deliver three kinds of events: a file was loaded, tracked geometry
// changed, and the current frame moved.  The gateway translates those into
// cache and scheduler operations.  The tracked object set itself lives in
// the session; the gateway keeps only an xxhash fingerprint of it, so a
// no-op update (same membership, any order) never clears the cache.
//
// Invalidation policy is deliberately coarse: any geometry change to a
// tracked object dirties every cached frame.  The cache offers
// InvalidateNear for callers that can bound a change in time, but
// correctness under unknown edit scope wins by default.
package gateway

import (
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/yanizio/onionskin/internal/cache"
	"github.com/yanizio/onionskin/internal/precache"
)

// Session is the slice of host state the gateway reads and updates.
type Session interface {
	Objects() []string
	SetObjects(names []string)
}

// Gateway routes host events into the cache core.
type Gateway struct {
	mu         sync.Mutex
	trackedSum uint64

	cache   *cache.FrameCache
	sched   *precache.Scheduler
	session Session
	log     *zap.SugaredLogger
}

// New wires a gateway to its collaborators.
func New(c *cache.FrameCache, sch *precache.Scheduler, s Session, log *zap.SugaredLogger) *Gateway {
	if log == nil {
		log = zap.S()
	}
	return &Gateway{
		trackedSum: fingerprint(s.Objects()),
		cache:      c,
		sched:      sch,
		session:    s,
		log:        log,
	}
}

// OnLoad handles a file load: all cached state belongs to the previous
// file, so everything goes, tracked set included.
func (g *Gateway) OnLoad() {
	g.mu.Lock()
	g.trackedSum = 0
	g.mu.Unlock()

	g.session.SetObjects(nil)
	g.sched.Stop()
	g.cache.Clear()
	g.log.Infow("cache cleared on load")
}

// SetTracked replaces the tracked object set.  A no-op update (identical
// membership) leaves the cache intact; a real change clears it, since
// every cached frame merged the old set.
func (g *Gateway) SetTracked(names []string) {
	sum := fingerprint(names)

	g.mu.Lock()
	if sum == g.trackedSum {
		g.mu.Unlock()
		return
	}
	g.trackedSum = sum
	g.mu.Unlock()

	g.session.SetObjects(names)
	g.cache.Clear()
	g.log.Infow("tracked set changed", "objects", len(names))
}

// OnGeometryChanged handles an edit notification.  An empty affected set
// means the host could not attribute the change, which invalidates
// conservatively.  Otherwise only an overlap with the tracked set does.
func (g *Gateway) OnGeometryChanged(affected []string) {
	tracked := g.session.Objects()
	if len(tracked) == 0 {
		return
	}

	hit := len(affected) == 0
	if !hit {
		set := make(map[string]struct{}, len(tracked))
		for _, n := range tracked {
			set[n] = struct{}{}
		}
		for _, n := range affected {
			if _, ok := set[n]; ok {
				hit = true
				break
			}
		}
	}
	if !hit {
		return
	}

	g.cache.MarkAllDirty()
	g.log.Debugw("cache dirtied on geometry change", "affected", len(affected))
}

// OnFrameChanged handles a playhead move: kick the background precacher
// with the playback direction.  The scheduler reads the new position from
// the session itself.
func (g *Gateway) OnFrameChanged(newFrame, direction int) {
	_ = newFrame
	g.sched.Start(direction)
}

// fingerprint hashes the sorted, deduplicated membership so order and
// repeats don't produce spurious cache clears.
func fingerprint(names []string) uint64 {
	if len(names) == 0 {
		return 0
	}
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)

	d := xxhash.New()
	var prev string
	for i, n := range sorted {
		if i > 0 && n == prev {
			continue
		}
		prev = n
		_, _ = d.WriteString(n)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}
