// internal/session/session.go
//
// In-memory host session state.
//
// Context
// -------
// The "session" is the slice of host state the cache core borrows: the
// current frame position, the tracked object list, the scene frame range,
// and the enabled flag.  A real host integration would back these with its
// native scene; this in-memory implementation serves the demo binary and
// the tests, and defines the reference semantics for the borrow-and-restore
// discipline the precacher relies on.
//
// The effective frame range is the configured explicit range when enabled,
// otherwise the scene range.
package session

import (
	"sync"

	"github.com/yanizio/onionskin/internal/config"
)

// Session is a concurrency-safe in-memory host session.
type Session struct {
	mu      sync.Mutex
	frame   int
	objects []string
	start   int
	end     int
	enabled bool

	cfg func() *config.Config
}

// New returns a session spanning the configured range, enabled per config.
// cfg is consulted live so reloads take effect.
func New(cfg func() *config.Config) *Session {
	c := cfg()
	return &Session{
		frame:   c.Range.Start,
		start:   c.Range.Start,
		end:     c.Range.End,
		enabled: c.Ghost.Enabled,
		cfg:     cfg,
	}
}

// CurrentFrame returns the playhead position.
func (s *Session) CurrentFrame() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// SetFrame moves the playhead.  Never fails in memory; a host-backed
// session may reject frames outside its domain.
func (s *Session) SetFrame(frame int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = frame
	return nil
}

// Enabled reports whether the onion-skin feature is active.
func (s *Session) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// SetEnabled toggles the feature.
func (s *Session) SetEnabled(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = on
}

// Objects returns a copy of the tracked object names.
func (s *Session) Objects() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.objects))
	copy(out, s.objects)
	return out
}

// SetObjects replaces the tracked object names.
func (s *Session) SetObjects(names []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = make([]string, len(names))
	copy(s.objects, names)
}

// SetSceneRange sets the scene's own frame range.
func (s *Session) SetSceneRange(start, end int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.start, s.end = start, end
}

// FrameRange returns the effective frame domain: the configured explicit
// range when in use, otherwise the scene range.
func (s *Session) FrameRange() (int, int) {
	if c := s.cfg(); c != nil && c.Range.Use {
		return c.Range.Start, c.Range.End
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.start, s.end
}
