// internal/geometry/synthetic.go
//
// Synthetic mesh provider.
//
// Context
// -------
// A real deployment plugs a host-side evaluator in behind Provider.  The
// demo binary and the tests need something deterministic that still looks
// like animation, so Synthetic generates one deforming grid per tracked
// object: a wave travels across the grid as the frame number advances, and
// each object's grid is offset so merged buffers exercise the index-offset
// path the same way a multi-object scene would.
package geometry

import (
	"context"
	"math"
)

// Synthetic procedurally generates per-frame geometry.  Deterministic for a
// given (objects, frame) pair.
type Synthetic struct {
	// Rows and Cols size each object's grid.  Zero values fall back to 8x8.
	Rows, Cols int

	// Wireframe selects line primitives instead of triangles.
	Wireframe bool
}

// Extract builds one deformed grid per object and merges them.  It never
// fails; an empty object list yields empty geometry.
func (s Synthetic) Extract(_ context.Context, objects []string, frame int) (Geometry, error) {
	rows, cols := s.Rows, s.Cols
	if rows < 2 {
		rows = 8
	}
	if cols < 2 {
		cols = 8
	}

	var g Geometry
	g.Kind = Triangles
	if s.Wireframe {
		g.Kind = Lines
	}

	for n := range objects {
		base := uint32(len(g.Verts))
		off := float32(n) * float32(cols) * 1.5
		phase := float64(frame) * 0.25

		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				x := off + float32(c)
				y := float32(r)
				z := float32(math.Sin(phase + float64(r+c)*0.5))
				g.Verts = append(g.Verts, [3]float32{x, y, z})
			}
		}

		for r := 0; r < rows-1; r++ {
			for c := 0; c < cols-1; c++ {
				i := base + uint32(r*cols+c)
				if s.Wireframe {
					g.Indices = append(g.Indices,
						i, i+1,
						i, i+uint32(cols),
					)
				} else {
					g.Indices = append(g.Indices,
						i, i+1, i+uint32(cols),
						i+1, i+uint32(cols)+1, i+uint32(cols),
					)
				}
			}
		}
	}
	return g, nil
}
