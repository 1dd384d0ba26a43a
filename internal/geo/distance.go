package geo

import "math"

// EarthRadiusM is the equatorial radius used for all spherical math.
const EarthRadiusM = 6378100.0

// DefaultRadiusM is the containment radius assumed when a caller gives none.
const DefaultRadiusM = 50.0

// Distance calculates the great-circle distance between two points in meters
// using the spherical law of cosines. Precision degrades near antipodal
// points; that limit is accepted.
func Distance(p1, p2 Point) float64 {
	if p1 == p2 {
		return 0
	}
	φ1 := p1.Lat * math.Pi / 180
	φ2 := p2.Lat * math.Pi / 180
	Δλ := (p2.Lon - p1.Lon) * math.Pi / 180

	c := math.Sin(φ1)*math.Sin(φ2) + math.Cos(φ1)*math.Cos(φ2)*math.Cos(Δλ)
	// Clamp rounding drift before Acos.
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	return EarthRadiusM * math.Acos(c)
}

// InRadius reports whether p2 lies within radiusM meters of p1.
// A radius of 0 or less falls back to DefaultRadiusM.
func InRadius(p1, p2 Point, radiusM float64) bool {
	if radiusM <= 0 {
		radiusM = DefaultRadiusM
	}
	return Distance(p1, p2) <= radiusM
}
