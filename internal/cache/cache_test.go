// internal/cache/cache_test.go
//
// Unit-tests for the frame cache: capacity bound, LRU ordering, dirty
// precedence, batch memoization, and stats bookkeeping.
//
// Run: go test ./internal/cache -v

package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/yanizio/onionskin/internal/geometry"
)

// tri returns a one-triangle geometry whose first vertex is seeded so two
// calls with different seeds are distinguishable by fingerprint.
func tri(seed float32) geometry.Geometry {
	return geometry.Geometry{
		Verts:   [][3]float32{{seed, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		Indices: []uint32{0, 1, 2},
		Kind:    geometry.Triangles,
	}
}

func TestAddAndColdStart(t *testing.T) {
	c := New(10, nil)

	c.Add(5, tri(1))

	if !c.IsCached(5) {
		t.Fatalf("IsCached(5) = false after Add")
	}
	if b := c.GetBatch(5); b == nil {
		t.Fatalf("GetBatch(5) = nil after Add")
	} else if b.VertexCount() != 3 || b.IndexCount() != 3 {
		t.Fatalf("batch counts = %d verts, %d indices", b.VertexCount(), b.IndexCount())
	}

	s := c.Stats()
	if s.Misses != 1 || s.Hits != 1 {
		t.Fatalf("stats = %d misses, %d hits, want 1, 1", s.Misses, s.Hits)
	}
}

func TestEmptyGeometryRejected(t *testing.T) {
	c := New(10, nil)
	before := c.Stats()

	c.Add(7, geometry.Geometry{Kind: geometry.Triangles})

	after := c.Stats()
	if after != before {
		t.Fatalf("stats changed on empty add: %+v → %+v", before, after)
	}
	if c.IsCached(7) {
		t.Fatalf("empty geometry was cached")
	}
}

func TestCapacityInvariant(t *testing.T) {
	c := New(4, nil)
	for f := 0; f < 50; f++ {
		c.Add(f, tri(float32(f)))
		if s := c.Stats(); s.Size > 4 {
			t.Fatalf("size %d exceeds capacity after add %d", s.Size, f)
		}
	}
}

func TestLRUEvictsOldest(t *testing.T) {
	c := New(3, nil)
	for f := 1; f <= 4; f++ {
		c.Add(f, tri(float32(f)))
	}
	if c.IsCached(1) {
		t.Fatalf("frame 1 should have been evicted")
	}
	for f := 2; f <= 4; f++ {
		if !c.IsCached(f) {
			t.Fatalf("frame %d unexpectedly evicted", f)
		}
	}
}

func TestGetBatchPromotesRecency(t *testing.T) {
	c := New(3, nil)
	c.Add(1, tri(1))
	c.Add(2, tri(2))
	c.Add(3, tri(3))

	// Touch the oldest frame, then overflow: the untouched frame 2 goes.
	if c.GetBatch(1) == nil {
		t.Fatalf("GetBatch(1) = nil")
	}
	c.Add(4, tri(4))

	if !c.IsCached(1) {
		t.Fatalf("touched frame 1 was evicted")
	}
	if c.IsCached(2) {
		t.Fatalf("least-recently-touched frame 2 survived")
	}
}

func TestDirtyPrecedence(t *testing.T) {
	c := New(10, nil)
	c.Add(5, tri(1))

	c.MarkDirty(5)

	if c.IsCached(5) {
		t.Fatalf("dirty frame reported as cached")
	}
	if c.GetBatch(5) != nil {
		t.Fatalf("dirty frame served a batch")
	}
	if s := c.Stats(); s.Size != 1 || s.Dirty != 1 {
		t.Fatalf("stats = size %d, dirty %d, want 1, 1", s.Size, s.Dirty)
	}
}

func TestAddClearsDirtyAtomically(t *testing.T) {
	c := New(10, nil)
	c.Add(5, tri(1))
	c.MarkDirty(5)

	c.Add(5, tri(2))

	if !c.IsCached(5) {
		t.Fatalf("re-added frame still dirty")
	}
	if s := c.Stats(); s.Dirty != 0 {
		t.Fatalf("dirty count = %d after re-add", s.Dirty)
	}
}

func TestDirtyThenRedrawUsesNewGeometry(t *testing.T) {
	c := New(10, nil)
	c.Add(5, tri(1))
	first := c.GetBatch(5)

	c.MarkAllDirty()
	if c.IsCached(5) {
		t.Fatalf("IsCached(5) = true after MarkAllDirty")
	}

	c.Add(5, tri(99))
	second := c.GetBatch(5)
	if second == nil {
		t.Fatalf("GetBatch(5) = nil after re-add")
	}
	if first == second {
		t.Fatalf("stale batch served after re-add")
	}
	if string(first.VertexData()) == string(second.VertexData()) {
		t.Fatalf("batch still derived from old geometry")
	}
}

func TestBatchMemoized(t *testing.T) {
	c := New(10, nil)
	c.Add(5, tri(1))

	b1 := c.GetBatch(5)
	b2 := c.GetBatch(5)
	if b1 == nil || b1 != b2 {
		t.Fatalf("batch not memoized: %p vs %p", b1, b2)
	}
	if s := c.Stats(); s.Hits != 2 {
		t.Fatalf("hits = %d, want 2", s.Hits)
	}
}

func TestBatchBuildFailureNotCached(t *testing.T) {
	c := New(10, nil)
	// Index 9 is out of range; Add stores it (only emptiness is checked),
	// and the build fails at draw time.
	c.Add(5, geometry.Geometry{
		Verts:   [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Indices: []uint32{0, 1, 9},
		Kind:    geometry.Triangles,
	})

	if c.GetBatch(5) != nil {
		t.Fatalf("malformed geometry produced a batch")
	}
	// No hit was recorded, and the next call retries the build.
	if s := c.Stats(); s.Hits != 0 {
		t.Fatalf("hits = %d after failed build, want 0", s.Hits)
	}
	if c.GetBatch(5) != nil {
		t.Fatalf("retry unexpectedly produced a batch")
	}
}

func TestInvalidateNear(t *testing.T) {
	c := New(10, nil)
	for _, f := range []int{10, 50, 100, 105} {
		c.Add(f, tri(float32(f)))
	}

	c.InvalidateNear(100, 10)

	if c.IsCached(100) || c.IsCached(105) {
		t.Fatalf("frames near center not dirtied")
	}
	if !c.IsCached(10) || !c.IsCached(50) {
		t.Fatalf("distant frames dirtied")
	}
}

func TestEvictDistant(t *testing.T) {
	c := New(10, nil)
	for _, f := range []int{40, 70, 100, 140} {
		c.Add(f, tri(float32(f)))
	}

	c.EvictDistant(100, 50)

	if c.IsCached(40) {
		t.Fatalf("frame 40 (distance 60) survived keepRadius 50")
	}
	for _, f := range []int{70, 100, 140} {
		if !c.IsCached(f) {
			t.Fatalf("frame %d (within keepRadius) was evicted", f)
		}
	}
	if s := c.Stats(); s.Size != 3 {
		t.Fatalf("size = %d after EvictDistant, want 3", s.Size)
	}
}

func TestEvictDistantKeepsDirtyFlags(t *testing.T) {
	c := New(10, nil)
	c.Add(100, tri(1))
	c.Add(200, tri(2))
	c.MarkDirty(100)

	c.EvictDistant(100, 50)

	if c.IsCached(100) {
		t.Fatalf("retained frame lost its dirty flag")
	}
	if c.IsCached(200) {
		t.Fatalf("distant frame survived")
	}
}

func TestClearResetsEverything(t *testing.T) {
	c := New(10, nil)
	c.Add(5, tri(1))
	c.GetBatch(5)
	c.MarkDirty(5)
	c.SetLastServed(5)

	c.Clear()

	s := c.Stats()
	if s.Size != 0 || s.Hits != 0 || s.Misses != 0 || s.Dirty != 0 || s.HitRate != 0 {
		t.Fatalf("stats not reset: %+v", s)
	}
	if _, ok := c.LastServed(); ok {
		t.Fatalf("lastServed survived Clear")
	}
}

func TestHitRate(t *testing.T) {
	c := New(10, nil)
	if s := c.Stats(); s.HitRate != 0 {
		t.Fatalf("hit rate = %v with no accesses", s.HitRate)
	}

	c.Add(1, tri(1)) // miss
	c.GetBatch(1)    // hit
	c.GetBatch(1)    // hit

	if s := c.Stats(); s.HitRate < 66 || s.HitRate > 67 {
		t.Fatalf("hit rate = %v, want ~66.7", s.HitRate)
	}
}

func TestEnsureFillsAndDedupes(t *testing.T) {
	c := New(10, nil)

	calls := 0
	p := geometry.ProviderFunc(func(_ context.Context, _ []string, frame int) (geometry.Geometry, error) {
		calls++
		return tri(float32(frame)), nil
	})

	cached, err := c.Ensure(context.Background(), p, []string{"a"}, 5)
	if err != nil || !cached {
		t.Fatalf("Ensure = %v, %v", cached, err)
	}
	// Second call is a no-op: the frame is already servable.
	cached, err = c.Ensure(context.Background(), p, []string{"a"}, 5)
	if err != nil || !cached {
		t.Fatalf("second Ensure = %v, %v", cached, err)
	}
	if calls != 1 {
		t.Fatalf("provider called %d times, want 1", calls)
	}
}

func TestEnsureExtractionFailure(t *testing.T) {
	c := New(10, nil)
	boom := errors.New("depsgraph unavailable")
	p := geometry.ProviderFunc(func(context.Context, []string, int) (geometry.Geometry, error) {
		return geometry.Geometry{}, boom
	})

	cached, err := c.Ensure(context.Background(), p, nil, 5)
	if cached || !errors.Is(err, boom) {
		t.Fatalf("Ensure = %v, %v, want false, boom", cached, err)
	}
	if c.IsCached(5) {
		t.Fatalf("failed extraction left frame cached")
	}
}

func TestEnsureEmptyExtraction(t *testing.T) {
	c := New(10, nil)
	p := geometry.ProviderFunc(func(context.Context, []string, int) (geometry.Geometry, error) {
		return geometry.Geometry{}, nil
	})

	cached, err := c.Ensure(context.Background(), p, nil, 5)
	if err != nil {
		t.Fatalf("empty extraction returned error: %v", err)
	}
	if cached || c.IsCached(5) {
		t.Fatalf("empty extraction was cached")
	}
	if s := c.Stats(); s.Misses != 0 {
		t.Fatalf("empty extraction counted as miss")
	}
}
