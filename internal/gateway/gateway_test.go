// internal/gateway/gateway_test.go
//
// Unit-tests for the host-notification adapter: load clears, tracked-set
// fingerprinting, and the coarse geometry-change invalidation policy.
//
// Run: go test ./internal/gateway -v

package gateway

import (
	"testing"

	"github.com/yanizio/onionskin/internal/cache"
	"github.com/yanizio/onionskin/internal/geometry"
	"github.com/yanizio/onionskin/internal/precache"
)

// fakeSession satisfies both the gateway's and the scheduler's view of the
// host session.
type fakeSession struct {
	frame   int
	objects []string
}

func (f *fakeSession) CurrentFrame() int         { return f.frame }
func (f *fakeSession) SetFrame(frame int) error  { f.frame = frame; return nil }
func (f *fakeSession) Enabled() bool             { return true }
func (f *fakeSession) Objects() []string         { return f.objects }
func (f *fakeSession) SetObjects(names []string) { f.objects = names }
func (f *fakeSession) FrameRange() (int, int)    { return 1, 250 }

func tri(seed float32) geometry.Geometry {
	return geometry.Geometry{
		Verts:   [][3]float32{{seed, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		Indices: []uint32{0, 1, 2},
		Kind:    geometry.Triangles,
	}
}

func newGateway(sess *fakeSession) (*Gateway, *cache.FrameCache, *precache.Scheduler) {
	fc := cache.New(50, nil)
	sched := precache.New(fc, geometry.Synthetic{}, sess, func() precache.Tunables {
		return precache.Tunables{FramesBefore: 3, FramesAfter: 3, FrameStep: 1}
	}, nil)
	return New(fc, sched, sess, nil), fc, sched
}

func TestOnLoadClearsEverything(t *testing.T) {
	sess := &fakeSession{frame: 10, objects: []string{"a"}}
	gw, fc, sched := newGateway(sess)

	fc.Add(5, tri(1))
	sched.Start(0)

	gw.OnLoad()

	if fc.Stats().Size != 0 {
		t.Fatalf("cache not cleared on load")
	}
	if sched.Running() {
		t.Fatalf("scheduler still running after load")
	}
	if len(sess.Objects()) != 0 {
		t.Fatalf("tracked set survived load")
	}
}

func TestSetTrackedClearsOnRealChange(t *testing.T) {
	sess := &fakeSession{frame: 10}
	gw, fc, _ := newGateway(sess)

	gw.SetTracked([]string{"cube", "sphere"})
	fc.Add(5, tri(1))

	// Same membership, different order and a duplicate: no clear.
	gw.SetTracked([]string{"sphere", "cube", "cube"})
	if fc.Stats().Size != 1 {
		t.Fatalf("no-op tracked update cleared the cache")
	}

	// Real change: clear.
	gw.SetTracked([]string{"cube"})
	if fc.Stats().Size != 0 {
		t.Fatalf("tracked change did not clear the cache")
	}
	if got := sess.Objects(); len(got) != 1 || got[0] != "cube" {
		t.Fatalf("session objects = %v", got)
	}
}

func TestOnGeometryChangedCoarseInvalidation(t *testing.T) {
	sess := &fakeSession{frame: 10}
	gw, fc, _ := newGateway(sess)
	gw.SetTracked([]string{"cube"})

	fc.Add(5, tri(1))
	fc.Add(6, tri(2))

	// Untracked object: no invalidation.
	gw.OnGeometryChanged([]string{"lamp"})
	if !fc.IsCached(5) || !fc.IsCached(6) {
		t.Fatalf("untracked change dirtied the cache")
	}

	// Tracked object: everything goes dirty, entries stay resident.
	gw.OnGeometryChanged([]string{"cube"})
	if fc.IsCached(5) || fc.IsCached(6) {
		t.Fatalf("tracked change did not dirty the cache")
	}
	if s := fc.Stats(); s.Size != 2 || s.Dirty != 2 {
		t.Fatalf("stats = size %d, dirty %d, want 2, 2", s.Size, s.Dirty)
	}
}

func TestOnGeometryChangedUnattributed(t *testing.T) {
	sess := &fakeSession{frame: 10}
	gw, fc, _ := newGateway(sess)
	gw.SetTracked([]string{"cube"})
	fc.Add(5, tri(1))

	// The host could not say what changed: invalidate conservatively.
	gw.OnGeometryChanged(nil)
	if fc.IsCached(5) {
		t.Fatalf("unattributed change left cache servable")
	}
}

func TestOnGeometryChangedNothingTracked(t *testing.T) {
	sess := &fakeSession{frame: 10}
	gw, fc, _ := newGateway(sess)
	fc.Add(5, tri(1))

	gw.OnGeometryChanged(nil)
	if !fc.IsCached(5) {
		t.Fatalf("change with empty tracked set dirtied the cache")
	}
}

func TestOnFrameChangedStartsScheduler(t *testing.T) {
	sess := &fakeSession{frame: 100, objects: []string{"a"}}
	gw, _, sched := newGateway(sess)

	gw.OnFrameChanged(100, 1)
	if !sched.Running() {
		t.Fatalf("frame change did not start the precacher")
	}
}
