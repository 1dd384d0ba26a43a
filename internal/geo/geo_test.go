package geo

import (
	"errors"
	"math"
	"testing"
)

func TestCanonicalizeDegrees(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"12.3456789ABC", 12.3456789},
		{"-73.98570", -73.9857},
		{"+40.7484", 40.7484},
		{"51", 51},
		{"12.34567891234", 12.3456789},
		{"0.00000014", 0.0000001},
	}
	for _, c := range cases {
		got, err := CanonicalizeDegrees(c.in)
		if err != nil {
			t.Errorf("CanonicalizeDegrees(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("CanonicalizeDegrees(%q) = %v, want %v", c.in, got, c.want)
		}
	}

	for _, bad := range []string{"", "abc", ".5", "-.7", "N40.7", "--12"} {
		if _, err := CanonicalizeDegrees(bad); !errors.Is(err, ErrInvalidCoordinate) {
			t.Errorf("CanonicalizeDegrees(%q) should fail with ErrInvalidCoordinate, got %v", bad, err)
		}
	}
}

func TestNewCoordinateRange(t *testing.T) {
	if _, err := NewCoordinate(91, 0); !errors.Is(err, ErrInvalidCoordinate) {
		t.Error("latitude 91 should be rejected")
	}
	if _, err := NewCoordinate(0, -181); !errors.Is(err, ErrInvalidCoordinate) {
		t.Error("longitude -181 should be rejected")
	}
	if _, err := NewCoordinate(math.NaN(), 0); !errors.Is(err, ErrInvalidCoordinate) {
		t.Error("NaN latitude should be rejected")
	}
	c, err := NewCoordinate(40.7484, -73.9857)
	if err != nil {
		t.Fatalf("valid coordinate rejected: %v", err)
	}
	if c.Latitude != 40.7484 || c.Longitude != -73.9857 {
		t.Errorf("unexpected coordinate %+v", c)
	}
}

func TestDistanceSymmetryAndIdentity(t *testing.T) {
	a := Point{Lat: 40.7484, Lon: -73.9857}
	b := Point{Lat: 48.8584, Lon: 2.2945}

	if d := Distance(a, a); d != 0 {
		t.Errorf("Distance(a,a) = %v, want 0", d)
	}
	if d1, d2 := Distance(a, b), Distance(b, a); math.Abs(d1-d2) > 1e-9 {
		t.Errorf("distance not symmetric: %v vs %v", d1, d2)
	}

	// Empire State Building to Eiffel Tower is about 5,837 km.
	d := Distance(a, b)
	if d < 5.7e6 || d > 6.0e6 {
		t.Errorf("NYC-Paris distance = %v m, expected ≈5.84e6", d)
	}
}

func TestInRadiusMonotonicity(t *testing.T) {
	a := Point{Lat: 40.7484, Lon: -73.9857}
	b := Point{Lat: 40.7493, Lon: -73.9857} // ~100 m north

	if InRadius(a, b, 50) {
		t.Error("points ~100m apart should not be within 50m")
	}
	if !InRadius(a, b, 150) {
		t.Error("points ~100m apart should be within 150m")
	}
	// monotone: any radius above a passing one also passes
	for _, m := range []float64{200, 1000, 1e6} {
		if !InRadius(a, b, m) {
			t.Errorf("InRadius failed at %v after passing at 150", m)
		}
	}
	// zero radius falls back to the 50m default
	if !InRadius(a, a, 0) {
		t.Error("identical points should be within the default radius")
	}
}

func TestBoundingBox(t *testing.T) {
	if _, ok := BoundingBox(nil, false); ok {
		t.Error("empty input should report not-ok")
	}

	pts := []Point{{Lat: 1, Lon: 10}, {Lat: -2, Lon: 14}, {Lat: 3, Lon: 12}}
	b, ok := BoundingBox(pts, false)
	if !ok {
		t.Fatal("expected a box")
	}
	want := Box{MinLat: -2, MinLon: 10, MaxLat: 3, MaxLon: 14}
	if b != want {
		t.Errorf("BoundingBox = %+v, want %+v", b, want)
	}

	flipped, _ := BoundingBox(pts, true)
	if flipped.MinLat != want.MinLon || flipped.MinLon != want.MinLat {
		t.Errorf("flip did not swap ordering: %+v", flipped)
	}
}

func TestRadiusBoxPrefilter(t *testing.T) {
	center := Point{Lat: 40.7484, Lon: -73.9857}
	box := RadiusBox(center, 500)

	if !box.Contains(center) {
		t.Error("center must be inside its own radius box")
	}
	// Every point within the radius must be inside the box (the box may
	// contain extra points; that is what the precise check is for).
	inside := Point{Lat: 40.7510, Lon: -73.9830}
	if InRadius(center, inside, 500) && !box.Contains(inside) {
		t.Error("radius box excluded a point within the radius")
	}
}
