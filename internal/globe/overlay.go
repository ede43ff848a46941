package globe

import (
	"cogentcore.org/core/math32"

	"github.com/renderix/heliosphere/internal/geo"
)

// Overlay anchors the regional data patch (the air-quality texture) at a
// fixed coordinate. The placement is memoized: the anchor never changes at
// runtime, so position and orientation are computed once on first use.
// Patch opacity is a separate visual parameter owned by the front end.
type Overlay struct {
	anchor        geo.Coordinate
	radius        float32
	surfaceOffset float32

	computed bool
	pos      math32.Vector3
	rot      math32.Quat
}

// NewOverlay creates an overlay placement for the given anchor.
func NewOverlay(anchor geo.Coordinate, radius, surfaceOffset float32) *Overlay {
	return &Overlay{
		anchor:        anchor,
		radius:        radius,
		surfaceOffset: surfaceOffset,
	}
}

// Placement returns the patch position on the sphere and the rotation that
// lays it tangent to the surface.
func (o *Overlay) Placement() (math32.Vector3, math32.Quat) {
	if !o.computed {
		o.pos = geo.Project(o.anchor, o.radius+o.surfaceOffset)
		o.rot = geo.SurfaceOrientation(o.pos)
		o.computed = true
	}
	return o.pos, o.rot
}

// Anchor returns the overlay's geographic anchor.
func (o *Overlay) Anchor() geo.Coordinate {
	return o.anchor
}
