// internal/geometry/provider.go
//
// Provider is the boundary to the host's mesh evaluation.  The cache core
// never touches host scene state directly; it asks a Provider for the merged
// geometry of the tracked objects at a given frame and stores whatever comes
// back.
package geometry

import "context"

// Provider evaluates the tracked objects at a frame and returns their merged
// world-space geometry.
//
// An empty Geometry with a nil error means "nothing to draw at that frame,"
// which callers skip silently.  A non-nil error means evaluation itself
// failed (host context lost, object in a broken state); callers leave the
// frame uncached and carry on.
type Provider interface {
	Extract(ctx context.Context, objects []string, frame int) (Geometry, error)
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc func(ctx context.Context, objects []string, frame int) (Geometry, error)

// Extract calls f.
func (f ProviderFunc) Extract(ctx context.Context, objects []string, frame int) (Geometry, error) {
	return f(ctx, objects, frame)
}
