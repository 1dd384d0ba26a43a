package resolve

import "github.com/geofacts/geofacts/internal/geo"

// Zone is a named circular geofence that overrides normal address resolution
// for privacy at caller-defined sensitive locations.
type Zone struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"latitude"`
	Lon     float64 `json:"longitude"`
	RadiusM float64 `json:"radius"`
}

// Center returns the zone's center point.
func (z Zone) Center() geo.Point {
	return geo.Point{Lat: z.Lat, Lon: z.Lon}
}

// Contains reports whether c falls within the zone. A zero radius takes the
// 50 m default.
func (z Zone) Contains(c geo.Coordinate) bool {
	return geo.InRadius(z.Center(), c.Point(), z.RadiusM)
}

// zoneFor returns the first configured zone containing c. The cheap radius
// box screens before the great-circle check.
func zoneFor(zones []Zone, c geo.Coordinate) (Zone, bool) {
	for _, z := range zones {
		r := z.RadiusM
		if r <= 0 {
			r = geo.DefaultRadiusM
		}
		if !geo.RadiusBox(z.Center(), r).Contains(c.Point()) {
			continue
		}
		if z.Contains(c) {
			return z, true
		}
	}
	return Zone{}, false
}
