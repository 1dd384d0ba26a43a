package geo

import (
	"reflect"
	"testing"
)

func zigzag(n int) []Point {
	pts := make([]Point, n)
	for i := range pts {
		lon := 0.0
		if i%2 == 1 {
			lon = 0.001 * float64(i%5)
		}
		pts[i] = Point{Lat: float64(i) * 0.01, Lon: lon}
	}
	return pts
}

func TestSimplifyVWPointCount(t *testing.T) {
	pts := zigzag(20)

	for _, k := range []int{2, 5, 10, 19} {
		got := SimplifyVW(pts, k)
		if len(got) != k {
			t.Errorf("SimplifyVW(n=20, target=%d) returned %d points", k, len(got))
		}
		// endpoints survive
		if got[0] != pts[0] || got[len(got)-1] != pts[len(pts)-1] {
			t.Errorf("SimplifyVW(target=%d) dropped an endpoint", k)
		}
	}

	// no-op when already at or below target
	small := zigzag(4)
	if got := SimplifyVW(small, 10); len(got) != 4 {
		t.Errorf("SimplifyVW should not change input below target, got %d", len(got))
	}
}

func TestSimplifyRDPIdempotent(t *testing.T) {
	pts := zigzag(50)
	for _, tol := range []float64{0.0001, 0.001, 0.01} {
		once := SimplifyRDP(pts, tol)
		twice := SimplifyRDP(once, tol)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("RDP not idempotent at tolerance %v: %d then %d points", tol, len(once), len(twice))
		}
	}
}

func TestSimplifyRDPCollinear(t *testing.T) {
	// Collinear points collapse to the two endpoints.
	line := []Point{{0, 0}, {1, 1}, {2, 2}, {3, 3}, {4, 4}}
	got := SimplifyRDP(line, 0.001)
	if len(got) != 2 {
		t.Fatalf("collinear line simplified to %d points, want 2", len(got))
	}
	if got[0] != line[0] || got[1] != line[4] {
		t.Errorf("unexpected endpoints: %+v", got)
	}
}

func TestSimplifyRDPVerticalChord(t *testing.T) {
	// Equal latitude on the chord endpoints exercises the epsilon nudge.
	line := []Point{{0, 0}, {0.5, 3}, {0, 6}}
	got := SimplifyRDP(line, 0.1)
	if len(got) != 3 {
		t.Errorf("significant deviation on a vertical chord was dropped: %+v", got)
	}
}

func TestSimplifyRDPMulti(t *testing.T) {
	lines := [][]Point{
		{{0, 0}, {1, 1}, {2, 2}},
		zigzag(10),
	}
	got := SimplifyRDPMulti(lines, 0.001)
	if len(got) != 2 {
		t.Fatalf("expected 2 sub-lines, got %d", len(got))
	}
	if len(got[0]) != 2 {
		t.Errorf("collinear sub-line not simplified: %d points", len(got[0]))
	}
}
