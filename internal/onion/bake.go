// internal/onion/bake.go
//
// Synchronous full-range cache fills.
//
// Bake walks the whole effective frame range at the configured step and
// caches every missing frame, so playback hits warm cache from the first
// scrub.  Unlike the background precacher this blocks until done; it is
// meant for an explicit "bake" action, not the draw path.
package onion

import "context"

// Bake caches every not-yet-cached frame in the effective range and
// returns how many frames it filled.  The session frame is restored on all
// exit paths, including cancellation.
func (v *View) Bake(ctx context.Context) (int, error) {
	start, end := v.session.FrameRange()
	step := v.cfg().Ghost.FrameStep
	if step < 1 {
		step = 1
	}

	orig := v.session.CurrentFrame()
	defer func() {
		if v.session.CurrentFrame() != orig {
			if err := v.session.SetFrame(orig); err != nil {
				v.log.Warnw("frame restore failed", "frame", orig, "err", err)
			}
		}
	}()

	baked := 0
	for frame := start; frame <= end; frame += step {
		if err := ctx.Err(); err != nil {
			return baked, err
		}
		if v.cache.IsCached(frame) {
			continue
		}
		if err := v.session.SetFrame(frame); err != nil {
			return baked, err
		}
		cached, err := v.cache.Ensure(ctx, v.provider, v.session.Objects(), frame)
		if err != nil {
			// Extraction failures skip the frame, matching the draw path.
			continue
		}
		if cached {
			baked++
		}
	}

	v.log.Infow("bake complete", "frames", baked, "start", start, "end", end)
	return baked, nil
}

// Rebake clears the cache first, then bakes the full range.
func (v *View) Rebake(ctx context.Context) (int, error) {
	v.cache.Clear()
	return v.Bake(ctx)
}
