// internal/cache/fill.go
//
// Provider-backed fill path.
//
// Context
// -------
// Both the interactive draw path and the background precacher fill misses
// through Ensure.  A singleflight group keyed by frame number collapses
// concurrent requests for the same frame into one provider call, the same
// discipline the tenant loader this cache descends from applied to site
// loads.
//
// Failure policy: extraction errors leave the frame uncached and are
// reported to the caller; empty extractions are a legitimate "nothing to
// draw" and are skipped silently.  Neither is fatal to the feature.
package cache

import (
	"context"
	"strconv"

	"github.com/yanizio/onionskin/internal/geometry"
	"github.com/yanizio/onionskin/internal/metrics"
)

// Ensure makes frame servable if the provider can produce geometry for it.
// Returns true when the frame is cached on return (already cached, or
// filled now), false when extraction failed or produced nothing.
func (c *FrameCache) Ensure(ctx context.Context, p geometry.Provider, objects []string, frame int) (bool, error) {
	if c.IsCached(frame) {
		return true, nil
	}

	type result struct{ cached bool }

	v, err, _ := c.sfg.Do(strconv.Itoa(frame), func() (any, error) {
		// Double-check after the singleflight barrier.
		if c.IsCached(frame) {
			return result{cached: true}, nil
		}

		g, err := p.Extract(ctx, objects, frame)
		if err != nil {
			metrics.ExtractionErrorsTotal.Inc()
			c.log.Warnw("geometry extraction failed", "frame", frame, "err", err)
			return result{}, err
		}
		if g.Empty() {
			return result{}, nil
		}

		c.Add(frame, g)
		return result{cached: true}, nil
	})
	if err != nil {
		return false, err
	}
	return v.(result).cached, nil
}
