package globe

import "testing"

func TestGenerateCatalog_Deterministic(t *testing.T) {
	a := GenerateCatalog(50, 7)
	b := GenerateCatalog(50, 7)

	if len(a) != 50 || len(b) != 50 {
		t.Fatalf("expected 50 records, got %d and %d", len(a), len(b))
	}

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("record %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestGenerateCatalog_DifferentSeeds(t *testing.T) {
	a := GenerateCatalog(10, 1)
	b := GenerateCatalog(10, 2)

	same := true
	for i := range a {
		if a[i].Coord != b[i].Coord {
			same = false
			break
		}
	}
	if same {
		t.Error("expected different seeds to scatter stations differently")
	}
}

func TestGenerateCatalog_WithinRegion(t *testing.T) {
	for _, r := range GenerateCatalog(200, 42) {
		if r.Coord.Lat < RegionLatMin || r.Coord.Lat > RegionLatMax {
			t.Errorf("station %s latitude %f outside region", r.ID, r.Coord.Lat)
		}
		if r.Coord.Lon < RegionLonMin || r.Coord.Lon > RegionLonMax {
			t.Errorf("station %s longitude %f outside region", r.ID, r.Coord.Lon)
		}
		if r.AreaKm2 <= 0 {
			t.Errorf("station %s has non-positive footprint %f", r.ID, r.AreaKm2)
		}
		if r.ID == "" {
			t.Error("station has empty id")
		}
	}
}

func TestGenerateCatalog_SizeClassesPresent(t *testing.T) {
	seen := map[SizeClass]int{}
	for _, r := range GenerateCatalog(300, 99) {
		seen[r.Size]++
	}

	for _, size := range []SizeClass{SizeSmall, SizeMedium, SizeLarge} {
		if seen[size] == 0 {
			t.Errorf("expected at least one %s station in 300 draws", size)
		}
	}
}
