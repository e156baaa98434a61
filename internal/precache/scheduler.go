// internal/precache/scheduler.go
//
// Background precache scheduler.
//
// Context
// -------
// The scheduler opportunistically fills the frame cache for frames the
// animator is about to step to.  It is an explicit Idle/Running state
// machine driven by Tick: each tick does at most one frame's worth of work,
// so interactive drawing is never starved.  Run binds the machine to a real
// ticker; tests drive Tick by hand for deterministic coverage.
//
// Workflow
// --------
//  1. Start(direction) computes a candidate queue (closest frames first)
//     and flips to Running; an empty queue stays Idle.
//  2. Each Tick pops one candidate, borrows the session's current frame to
//     evaluate geometry, fills the cache, and restores the frame on every
//     exit path.
//  3. The machine self-cancels to Idle the moment the session goes invalid
//     (feature disabled, tracked set emptied), discarding the queue.
//
// Notes
// -----
//   - Candidate ordering is greedy nearest-first, not globally optimal; the
//     user's next few frame-steps are the highest-value misses to avoid.
//   - Oxford commas, two spaces after periods.
package precache

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/onionskin/internal/cache"
	"github.com/yanizio/onionskin/internal/geometry"
	"github.com/yanizio/onionskin/internal/metrics"
)

// DefaultTickInterval spaces background fills so interactive work stays
// responsive.
const DefaultTickInterval = 50 * time.Millisecond

// maxBatch caps the candidate queue per computation.
const maxBatch = 10

// lookAheadPad extends the look-ahead window past the ghost range so the
// next few steps land on warm frames.
const lookAheadPad = 5

// Session is the shared host state the scheduler borrows: the current frame
// position, the tracked object set, and the valid frame range.
type Session interface {
	CurrentFrame() int
	SetFrame(frame int) error
	Enabled() bool
	Objects() []string
	FrameRange() (start, end int)
}

// Tunables is the configuration slice candidate computation reads.
type Tunables struct {
	FramesBefore int
	FramesAfter  int
	FrameStep    int
}

// Scheduler fills the cache between interactive frames.
type Scheduler struct {
	mu      sync.Mutex
	running bool
	pending []int

	cache    *cache.FrameCache
	provider geometry.Provider
	session  Session
	tunables func() Tunables
	log      *zap.SugaredLogger
}

// New wires a scheduler to its collaborators.  tunables is called on every
// candidate computation so config reloads take effect mid-session.
func New(c *cache.FrameCache, p geometry.Provider, s Session, tunables func() Tunables, log *zap.SugaredLogger) *Scheduler {
	if log == nil {
		log = zap.S()
	}
	return &Scheduler{
		cache:    c,
		provider: p,
		session:  s,
		tunables: tunables,
		log:      log,
	}
}

// Running reports whether a precache run is in flight.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Start requests a precache run biased by playback direction (negative =
// backward, positive = forward, 0 = both).  A run already in flight, an
// invalid session, or an empty candidate list leaves the state unchanged.
func (s *Scheduler) Start(direction int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	if !s.sessionValidLocked() {
		return
	}

	pending := s.candidatesLocked(direction)
	if len(pending) == 0 {
		return
	}

	s.pending = pending
	s.running = true
	metrics.PrecacheRunsTotal.Inc()
	s.log.Debugw("precache started", "direction", direction, "candidates", len(pending))
}

// Stop force-cancels the run: the queue is discarded and the state flips to
// Idle before the next unit of work.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked("stopped")
}

func (s *Scheduler) stopLocked(reason string) {
	if s.running {
		s.log.Debugw("precache idle", "reason", reason)
	}
	s.running = false
	s.pending = nil
}

// Tick performs one unit of background work and reports whether the
// scheduler is still Running afterward.  Safe to call while Idle.
func (s *Scheduler) Tick(ctx context.Context) bool {
	s.mu.Lock()

	if !s.running {
		s.mu.Unlock()
		return false
	}
	if !s.sessionValidLocked() {
		s.stopLocked("session invalid")
		s.mu.Unlock()
		return false
	}

	if len(s.pending) == 0 {
		s.pending = s.candidatesLocked(0)
		if len(s.pending) == 0 {
			s.stopLocked("exhausted")
			s.mu.Unlock()
			return false
		}
	}

	frame := s.pending[0]
	s.pending = s.pending[1:]
	s.mu.Unlock()

	if err := s.cacheFrame(ctx, frame); err != nil {
		s.log.Debugw("precache frame failed", "frame", frame, "err", err)
	}
	return true
}

// Run drives Tick from a real ticker until ctx is canceled.  Hosts with
// their own event loop call Tick directly instead.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Tick(ctx)
		}
	}
}

// cacheFrame borrows the session's current frame, fills the cache for
// frame, and restores the original position on every exit path.
func (s *Scheduler) cacheFrame(ctx context.Context, frame int) error {
	orig := s.session.CurrentFrame()
	defer func() {
		if s.session.CurrentFrame() != orig {
			if err := s.session.SetFrame(orig); err != nil {
				s.log.Warnw("frame restore failed", "frame", orig, "err", err)
			}
		}
	}()

	if err := s.session.SetFrame(frame); err != nil {
		return err
	}
	cached, err := s.cache.Ensure(ctx, s.provider, s.session.Objects(), frame)
	if err != nil {
		return err
	}
	if cached {
		metrics.PrecacheFramesTotal.Inc()
	}
	return nil
}

// sessionValidLocked checks the conditions under which background work may
// continue.  Caller holds mu.
func (s *Scheduler) sessionValidLocked() bool {
	return s.session.Enabled() && len(s.session.Objects()) > 0
}

// candidatesLocked computes the next batch of frames worth caching.
// Caller holds mu.
func (s *Scheduler) candidatesLocked(direction int) []int {
	start, end := s.session.FrameRange()
	return Candidates(s.tunables(), s.session.CurrentFrame(), direction, start, end, s.cache.IsCached)
}

// Candidates enumerates not-yet-cached frames around current, biased by
// playback direction, sorted closest-first, and capped at maxBatch.  Pure
// apart from the isCached probe.
func Candidates(t Tunables, current, direction, rangeStart, rangeEnd int, isCached func(int) bool) []int {
	step := t.FrameStep
	if step < 1 {
		step = 1
	}

	lookAhead := t.FramesBefore
	if t.FramesAfter > lookAhead {
		lookAhead = t.FramesAfter
	}
	lookAhead += lookAheadPad

	var frames []int

	if direction >= 0 {
		for i := step; i <= lookAhead; i += step {
			if f := current + i; f <= rangeEnd && !isCached(f) {
				frames = append(frames, f)
			}
		}
	}
	if direction <= 0 {
		for i := step; i <= lookAhead; i += step {
			if f := current - i; f >= rangeStart && !isCached(f) {
				frames = append(frames, f)
			}
		}
	}

	sort.SliceStable(frames, func(i, j int) bool {
		return abs(frames[i]-current) < abs(frames[j]-current)
	})

	if len(frames) > maxBatch {
		frames = frames[:maxBatch]
	}
	return frames
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
