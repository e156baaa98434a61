// internal/onion/view.go
//
// Onion-skin view coordinator.
//
// Context
// -------
// View sits between the host's draw callback and the frame cache.  On each
// interactive draw it computes the ghost set for the current frame, makes
// sure those frames are cached (skipping all work when the playhead hasn't
// moved), and hands render-ready batches plus per-ghost colors to the
// Renderer.  Actual pixel work stays behind the Renderer interface; this
// package never touches a GPU.
//
// Ghosts draw farthest-first so nearer ghosts composite on top.
package onion

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/yanizio/onionskin/internal/batch"
	"github.com/yanizio/onionskin/internal/cache"
	"github.com/yanizio/onionskin/internal/config"
	"github.com/yanizio/onionskin/internal/falloff"
	"github.com/yanizio/onionskin/internal/geometry"
)

// Session is the host state the view reads and borrows.
type Session interface {
	CurrentFrame() int
	SetFrame(frame int) error
	Enabled() bool
	Objects() []string
	FrameRange() (start, end int)
}

// Renderer consumes built batches.  Side effects are pixels only.
type Renderer interface {
	Draw(b *batch.Batch, color [4]float32)
}

// Ghost is one onion-skin frame to draw.
type Ghost struct {
	Frame  int
	Before bool    // true for frames behind the playhead
	T      float32 // normalized distance fraction in (0,1]
	Dist   int     // absolute frame distance
}

// View coordinates ghost caching and drawing for one session.
type View struct {
	cache    *cache.FrameCache
	provider geometry.Provider
	session  Session
	cfg      func() *config.Config
	log      *zap.SugaredLogger
}

// New wires a view to its collaborators.
func New(c *cache.FrameCache, p geometry.Provider, s Session, cfg func() *config.Config, log *zap.SugaredLogger) *View {
	if log == nil {
		log = zap.S()
	}
	return &View{cache: c, provider: p, session: s, cfg: cfg, log: log}
}

// NeededFrames computes the ghost set around current, honoring frame step,
// show-before/show-after, and the effective frame range.  Empty when
// current sits outside an explicit range.
func (v *View) NeededFrames(current int) []Ghost {
	c := v.cfg()
	start, end := v.session.FrameRange()

	if c.Range.Use && (current < start || current > end) {
		return nil
	}

	step := c.Ghost.FrameStep
	if step < 1 {
		step = 1
	}

	var ghosts []Ghost

	if c.Ghost.ShowBefore && c.Ghost.FramesBefore > 0 {
		inv := 1 / float32(c.Ghost.FramesBefore)
		for i := step; i <= c.Ghost.FramesBefore; i += step {
			if f := current - i; f >= start {
				ghosts = append(ghosts, Ghost{Frame: f, Before: true, T: float32(i) * inv, Dist: i})
			}
		}
	}
	if c.Ghost.ShowAfter && c.Ghost.FramesAfter > 0 {
		inv := 1 / float32(c.Ghost.FramesAfter)
		for i := step; i <= c.Ghost.FramesAfter; i += step {
			if f := current + i; f <= end {
				ghosts = append(ghosts, Ghost{Frame: f, T: float32(i) * inv, Dist: i})
			}
		}
	}
	return ghosts
}

// EnsureCached fills the cache for every ghost of the current frame.  A
// repeat call for an unchanged playhead is free: the last-served marker
// short-circuits it.  The session frame is restored on all exit paths.
func (v *View) EnsureCached(ctx context.Context) {
	current := v.session.CurrentFrame()
	if last, ok := v.cache.LastServed(); ok && last == current {
		return
	}
	v.cache.SetLastServed(current)

	defer func() {
		if v.session.CurrentFrame() != current {
			if err := v.session.SetFrame(current); err != nil {
				v.log.Warnw("frame restore failed", "frame", current, "err", err)
			}
		}
	}()

	for _, gh := range v.NeededFrames(current) {
		if _, err := v.cache.Ensure(ctx, v.provider, v.session.Objects(), gh.Frame); err != nil {
			// Per-frame failures degrade to a missing ghost, never abort.
			continue
		}
	}
}

// Draw renders the onion set for the current frame.  Dirty or uncached
// ghosts are skipped silently; the overlay degrades rather than fails.
func (v *View) Draw(ctx context.Context, r Renderer) {
	c := v.cfg()
	if !c.Ghost.Enabled || !v.session.Enabled() || len(v.session.Objects()) == 0 {
		return
	}

	v.EnsureCached(ctx)

	ghosts := v.NeededFrames(v.session.CurrentFrame())
	if len(ghosts) == 0 {
		return
	}
	sort.SliceStable(ghosts, func(i, j int) bool { return ghosts[i].Dist > ghosts[j].Dist })

	curve := falloff.Curve(c.Ghost.FalloffCurve)

	for _, gh := range ghosts {
		b := v.cache.GetBatch(gh.Frame)
		if b == nil {
			continue
		}

		base := c.Ghost.ColorAfter
		if gh.Before {
			base = c.Ghost.ColorBefore
		}
		color := [4]float32{
			base[0], base[1], base[2],
			falloff.Alpha(base[3], gh.T, c.Ghost.OpacityFalloff, curve),
		}
		r.Draw(b, color)
	}
}
