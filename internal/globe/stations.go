// Package globe places the PV station catalog and the data overlay on the
// render sphere.
package globe

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/renderix/heliosphere/internal/geo"
)

// Kubuqi desert PV base bounding box, Inner Mongolia.
const (
	RegionLatMin = 39.9
	RegionLatMax = 40.6
	RegionLonMin = 107.9
	RegionLonMax = 109.4
)

// KubuqiAnchor is the fixed anchor for the regional data overlay.
var KubuqiAnchor = geo.Coordinate{Lat: 40.2, Lon: 108.7}

// SizeClass buckets stations by footprint.
type SizeClass string

const (
	SizeSmall  SizeClass = "small"
	SizeMedium SizeClass = "medium"
	SizeLarge  SizeClass = "large"
)

// StationRecord describes one PV installation. Records are immutable for
// the lifetime of a run.
type StationRecord struct {
	ID      string         `json:"id"`
	Coord   geo.Coordinate `json:"coord"`
	AreaKm2 float64        `json:"areaKm2"`
	Size    SizeClass      `json:"size"`
}

// GenerateCatalog produces n station records scattered over the Kubuqi
// bounding box. Generation is fully deterministic for a given seed: IDs are
// name-based UUIDs and positions come from a seeded source, so the same
// deployment renders the same world on every run.
func GenerateCatalog(n int, seed int64) []StationRecord {
	rng := rand.New(rand.NewSource(seed))

	records := make([]StationRecord, n)
	for i := range records {
		size := rollSize(rng)

		records[i] = StationRecord{
			ID: uuid.NewSHA1(uuid.NameSpaceOID, fmt.Appendf(nil, "kubuqi-station-%04d", i)).String(),
			Coord: geo.Coordinate{
				Lat: RegionLatMin + rng.Float32()*(RegionLatMax-RegionLatMin),
				Lon: RegionLonMin + rng.Float32()*(RegionLonMax-RegionLonMin),
			},
			AreaKm2: footprint(rng, size),
			Size:    size,
		}
	}

	return records
}

// rollSize draws a size class: half the stations are small, a fifth large.
func rollSize(rng *rand.Rand) SizeClass {
	switch r := rng.Float64(); {
	case r < 0.5:
		return SizeSmall
	case r < 0.8:
		return SizeMedium
	default:
		return SizeLarge
	}
}

// footprint draws a plausible installation area for the size class.
func footprint(rng *rand.Rand, size SizeClass) float64 {
	switch size {
	case SizeLarge:
		return 20 + rng.Float64()*40
	case SizeMedium:
		return 5 + rng.Float64()*15
	default:
		return 0.5 + rng.Float64()*4
	}
}
