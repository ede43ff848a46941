// Package geo maps geographic coordinates onto the render sphere.
package geo

import "cogentcore.org/core/math32"

// Coordinate is a geographic position in degrees.
// Latitude is in [-90, 90], longitude in [-180, 180].
type Coordinate struct {
	Lat float32 `json:"lat"`
	Lon float32 `json:"lon"`
}

// Project converts a coordinate to a Cartesian position on a sphere of the
// given radius. The mapping uses polar angle phi = 90° - lat and azimuth
// theta = lon + 180°, with the left-handed sign convention
//
//	x = -(r·sinφ·cosθ)  y = r·cosφ  z = r·sinφ·sinθ
//
// which keeps the globe texture seam aligned with the scene origin used by
// the rendering layer. The convention must not change.
func Project(coord Coordinate, radius float32) math32.Vector3 {
	phi := math32.DegToRad(90 - coord.Lat)
	theta := math32.DegToRad(coord.Lon + 180)

	sinPhi := math32.Sin(phi)

	return math32.Vec3(
		-(radius * sinPhi * math32.Cos(theta)),
		radius*math32.Cos(phi),
		radius*sinPhi*math32.Sin(theta),
	)
}

// SurfaceOrientation returns the rotation that takes the canonical up axis
// (0,1,0) onto the outward surface normal at pos, i.e. pos normalized.
// Applying it to a flat object makes the object lie tangent to the sphere
// instead of pointing in a fixed world direction.
func SurfaceOrientation(pos math32.Vector3) math32.Quat {
	var q math32.Quat
	q.SetFromUnitVectors(math32.Vec3(0, 1, 0), pos.Normal())
	return q
}
