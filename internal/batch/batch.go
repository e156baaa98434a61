// internal/batch/batch.go
//
// Render-ready batch derived from raw geometry.
//
// Context
// -------
// A Batch is what the draw path actually consumes: the vertex positions
// packed into one contiguous little-endian float32 buffer, the index buffer
// packed the same way, and the primitive topology.  Building one is cheap
// but not free, so the frame cache memoizes the result per frame and drops
// it independently of the raw geometry on invalidation.
//
// Build is a pure function.  It owns no cache, mutates nothing it was
// given, and fails loudly on malformed input so the caller can treat the
// frame as "batch unavailable this tick" and retry on the next draw.
package batch

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/yanizio/onionskin/internal/geometry"
)

// Build failure sentinels.  Callers match with errors.Is; none of these is
// fatal to the feature.
var (
	ErrUnsupportedKind = errors.New("batch: unsupported primitive kind")
	ErrIndexCount      = errors.New("batch: index count not a multiple of primitive stride")
	ErrIndexRange      = errors.New("batch: index references vertex beyond buffer")
)

// Batch is the immutable upload-ready form of one frame's geometry.
type Batch struct {
	kind        geometry.Kind
	vertexCount int
	indexCount  int
	vertexData  []byte // len = vertexCount * 12
	indexData   []byte // len = indexCount * 4
}

// Build packs and validates geometry into a Batch.
func Build(g geometry.Geometry) (*Batch, error) {
	stride := g.Kind.Stride()
	if stride == 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedKind, g.Kind)
	}
	if len(g.Indices)%stride != 0 {
		return nil, fmt.Errorf("%w: %d indices, stride %d", ErrIndexCount, len(g.Indices), stride)
	}

	vb := make([]byte, 0, len(g.Verts)*12)
	var tmp [4]byte
	for _, v := range g.Verts {
		for _, f := range v {
			binary.LittleEndian.PutUint32(tmp[:], math.Float32bits(f))
			vb = append(vb, tmp[:]...)
		}
	}

	ib := make([]byte, 0, len(g.Indices)*4)
	n := uint32(len(g.Verts))
	for _, i := range g.Indices {
		if i >= n {
			return nil, fmt.Errorf("%w: index %d, %d vertices", ErrIndexRange, i, n)
		}
		binary.LittleEndian.PutUint32(tmp[:], i)
		ib = append(ib, tmp[:]...)
	}

	return &Batch{
		kind:        g.Kind,
		vertexCount: len(g.Verts),
		indexCount:  len(g.Indices),
		vertexData:  vb,
		indexData:   ib,
	}, nil
}

// Kind returns the primitive topology.
func (b *Batch) Kind() geometry.Kind { return b.kind }

// VertexCount returns the number of packed positions.
func (b *Batch) VertexCount() int { return b.vertexCount }

// IndexCount returns the number of packed indices.
func (b *Batch) IndexCount() int { return b.indexCount }

// VertexData returns the packed position buffer.  Callers must not modify it.
func (b *Batch) VertexData() []byte { return b.vertexData }

// IndexData returns the packed index buffer.  Callers must not modify it.
func (b *Batch) IndexData() []byte { return b.indexData }
