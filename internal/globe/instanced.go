package globe

import (
	"sync"

	"cogentcore.org/core/math32"

	"github.com/renderix/heliosphere/internal/geo"
)

// Per-instance local scale by size class.
const (
	scaleSmall  = 0.6
	scaleMedium = 1.0
	scaleLarge  = 1.6
)

// DefaultSmoothing is the per-frame exponential smoothing factor for the
// batch scale.
const DefaultSmoothing = 0.1

// InstancedStations holds the per-instance transforms for the station
// marker batch. The transforms are computed once at construction, since
// station coordinates never change; only the aggregate batch scale is
// recomputed per frame. With hundreds of stations that split is what keeps
// the frame loop cheap.
type InstancedStations struct {
	records    []StationRecord
	positions  []math32.Vector3
	transforms []math32.Matrix4
	alpha      float32

	// batchScale is stepped by the frame loop and read by the HTTP and
	// WebSocket goroutines.
	mu         sync.Mutex
	batchScale float32
}

// NewInstancedStations projects every record onto a sphere of the given
// radius, lifted by surfaceOffset so markers sit just above the globe
// texture, and orients each marker tangent to the surface.
func NewInstancedStations(records []StationRecord, radius, surfaceOffset, alpha float32) *InstancedStations {
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultSmoothing
	}

	s := &InstancedStations{
		records:    records,
		positions:  make([]math32.Vector3, len(records)),
		transforms: make([]math32.Matrix4, len(records)),
		batchScale: 1,
		alpha:      alpha,
	}

	for i, r := range records {
		pos := geo.Project(r.Coord, radius+surfaceOffset)
		rot := geo.SurfaceOrientation(pos)
		sc := localScale(r.Size)

		s.positions[i] = pos
		s.transforms[i].SetTransform(pos, rot, math32.Vec3(sc, sc, sc))
	}

	return s
}

// Step advances the smoothed batch scale one frame toward the target
// implied by the control value: target = 1 + pvScale·2. Snapping directly
// to the target would jump visibly on each discrete gesture increment, so
// the scale eases instead. Returns the new batch scale.
func (s *InstancedStations) Step(pvScale float64) float32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := 1 + float32(pvScale)*2
	s.batchScale += (target - s.batchScale) * s.alpha
	return s.batchScale
}

// BatchScale returns the current smoothed batch scale.
func (s *InstancedStations) BatchScale() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batchScale
}

// Transforms returns the per-instance transform matrices. The slice is the
// internal one computed at construction; callers must treat it as
// read-only.
func (s *InstancedStations) Transforms() []math32.Matrix4 {
	return s.transforms
}

// Positions returns the per-instance surface positions.
func (s *InstancedStations) Positions() []math32.Vector3 {
	return s.positions
}

// Records returns the station catalog backing this batch.
func (s *InstancedStations) Records() []StationRecord {
	return s.records
}

// Len returns the instance count.
func (s *InstancedStations) Len() int {
	return len(s.records)
}

func localScale(size SizeClass) float32 {
	switch size {
	case SizeLarge:
		return scaleLarge
	case SizeMedium:
		return scaleMedium
	default:
		return scaleSmall
	}
}
