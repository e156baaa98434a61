// internal/geometry/geometry.go
//
// Raw geometry model for onion-skin ghosts.
//
// Context
// -------
// The cache stores one merged Geometry per animation frame: every tracked
// object's evaluated mesh, flattened into a single vertex buffer plus a
// single index buffer.  Positions are world-space [3]float32; indices are
// flat uint32 with a stride implied by the primitive kind (2 for lines,
// 3 for triangles).  Geometry is immutable once handed to the cache.
//
// Notes
// -----
//   - Fingerprint uses xxhash over the raw buffer bytes so the gateway can
//     detect "nothing actually changed" without comparing slices.
//   - Oxford commas, two spaces after periods.
package geometry

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

//
// Primitive kind
//

// Kind tags the primitive topology of an index buffer.
type Kind uint8

const (
	// Lines indexes vertices in pairs (wireframe ghosts).
	Lines Kind = iota
	// Triangles indexes vertices in triples (solid ghosts).
	Triangles
)

// Stride returns the number of indices per primitive, or 0 for an
// unrecognized kind.
func (k Kind) Stride() int {
	switch k {
	case Lines:
		return 2
	case Triangles:
		return 3
	default:
		return 0
	}
}

// String returns the canonical name used in logs and the stats endpoint.
func (k Kind) String() string {
	switch k {
	case Lines:
		return "LINES"
	case Triangles:
		return "TRIANGLES"
	default:
		return "UNKNOWN"
	}
}

//
// Geometry
//

// Geometry is the merged, world-space mesh snapshot for one frame.
type Geometry struct {
	Verts   [][3]float32
	Indices []uint32
	Kind    Kind
}

// Empty reports whether there is nothing to draw.  An empty extraction is a
// legitimate result (no tracked meshes at that frame), not an error.
func (g Geometry) Empty() bool {
	return len(g.Verts) == 0 || len(g.Indices) == 0
}

// Primitives returns the primitive count implied by the index buffer.
func (g Geometry) Primitives() int {
	s := g.Kind.Stride()
	if s == 0 {
		return 0
	}
	return len(g.Indices) / s
}

// Fingerprint hashes the vertex and index buffers plus the kind tag.  Two
// geometries with equal fingerprints render identically.
func (g Geometry) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [12]byte
	for _, v := range g.Verts {
		binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(v[0]))
		binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(v[1]))
		binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(v[2]))
		_, _ = d.Write(buf[:])
	}
	for _, i := range g.Indices {
		binary.LittleEndian.PutUint32(buf[0:4], i)
		_, _ = d.Write(buf[:4])
	}
	_, _ = d.Write([]byte{byte(g.Kind)})
	return d.Sum64()
}
