package geo

import "math"

// Box is a rectangular latitude/longitude extent.
type Box struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Contains reports whether p lies inside the box, borders included.
func (b Box) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

// BoundingBox returns the minimal box enclosing all points. With flip set the
// returned values swap latitude and longitude ordering (lon-first), which some
// map APIs expect. Returns ok=false on empty input.
func BoundingBox(points []Point, flip bool) (Box, bool) {
	if len(points) == 0 {
		return Box{}, false
	}
	b := Box{
		MinLat: points[0].Lat, MaxLat: points[0].Lat,
		MinLon: points[0].Lon, MaxLon: points[0].Lon,
	}
	for _, p := range points[1:] {
		b.MinLat = math.Min(b.MinLat, p.Lat)
		b.MaxLat = math.Max(b.MaxLat, p.Lat)
		b.MinLon = math.Min(b.MinLon, p.Lon)
		b.MaxLon = math.Max(b.MaxLon, p.Lon)
	}
	if flip {
		b.MinLat, b.MinLon = b.MinLon, b.MinLat
		b.MaxLat, b.MaxLon = b.MaxLon, b.MaxLat
	}
	return b, true
}

// RadiusBox returns a rectangular approximation of the circle around center
// with the given radius in meters. It is a fast pre-filter for index range
// scans; callers needing exactness follow up with InRadius.
func RadiusBox(center Point, radiusM float64) Box {
	latDelta := radiusM / EarthRadiusM * 180 / math.Pi
	lonScale := math.Cos(center.Lat * math.Pi / 180)
	if lonScale < 0.01 {
		lonScale = 0.01 // near the poles every longitude is close
	}
	lonDelta := latDelta / lonScale
	return Box{
		MinLat: center.Lat - latDelta,
		MinLon: center.Lon - lonDelta,
		MaxLat: center.Lat + latDelta,
		MaxLon: center.Lon + lonDelta,
	}
}
