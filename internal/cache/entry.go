// internal/cache/entry.go
//
// Frame cache entry and stats snapshot.
//
// Context
// -------
// Each cached frame holds the raw merged geometry and, once the draw path
// has asked for it, the derived render batch.  The two tiers invalidate
// independently: marking a frame dirty drops only the batch, while the
// geometry stays resident until the frame is evicted or re-added.  Recency
// lives in the cache's intrusive list, not here.
//
// Notes
// -----
//   - Geometry is immutable once stored; rebuilding a batch never writes
//     back into it.
//   - Oxford commas, two spaces after periods.
package cache

import (
	"github.com/yanizio/onionskin/internal/batch"
	"github.com/yanizio/onionskin/internal/geometry"
)

//
// Cache entry
//

type entry struct {
	frame int
	geom  geometry.Geometry
	batch *batch.Batch // nil until first draw, dropped on invalidation
}

//
// Stats snapshot
//

// Stats is the read-only view surfaced to the stats endpoint and UI.
type Stats struct {
	Size     int     `json:"size"`
	Capacity int     `json:"capacity"`
	Hits     uint64  `json:"hits"`
	Misses   uint64  `json:"misses"`
	HitRate  float64 `json:"hit_rate"` // percentage, 0 when no accesses yet
	Dirty    int     `json:"dirty"`
}
