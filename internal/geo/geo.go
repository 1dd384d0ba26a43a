// Package geo provides the geometric primitives the resolver and taxonomy
// build on: coordinate canonicalization, great-circle distance, bounding
// boxes, radius containment and polyline simplification.
package geo

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// ErrInvalidCoordinate reports malformed or out-of-range coordinate input.
// It is never sent to a provider.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Point represents a geographic coordinate pair in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Coordinate is a canonicalized location. Altitude is nil when unknown.
// Values are immutable once built; providers receive copies.
type Coordinate struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Altitude  *float64 `json:"altitude,omitempty"`
}

// Point returns the coordinate as a Point.
func (c Coordinate) Point() Point {
	return Point{Lat: c.Latitude, Lon: c.Longitude}
}

// Key returns a canonical string key for indexing this coordinate in caches.
func (c Coordinate) Key() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," +
		strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// leading signed degrees, optionally a dot and fraction
var degreeRe = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?`)

// CanonicalizeDegrees extracts the leading signed-degree value from s,
// tolerating trailing garbage, and rounds it to 7 decimal places.
// Strings without a leading numeric prefix fail; they are never coerced to 0.
func CanonicalizeDegrees(s string) (float64, error) {
	m := degreeRe.FindString(s)
	if m == "" {
		return 0, fmt.Errorf("%w: %q is not a decimal degree", ErrInvalidCoordinate, s)
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidCoordinate, s, err)
	}
	return RoundDegrees(v), nil
}

// RoundDegrees rounds a degree value to 7 decimal places (~1 cm).
func RoundDegrees(v float64) float64 {
	return math.Round(v*1e7) / 1e7
}

// NewCoordinate validates and canonicalizes a latitude/longitude pair.
func NewCoordinate(lat, lon float64) (Coordinate, error) {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return Coordinate{}, fmt.Errorf("%w: non-finite value", ErrInvalidCoordinate)
	}
	if lat < -90 || lat > 90 {
		return Coordinate{}, fmt.Errorf("%w: latitude %f out of range", ErrInvalidCoordinate, lat)
	}
	if lon < -180 || lon > 180 {
		return Coordinate{}, fmt.Errorf("%w: longitude %f out of range", ErrInvalidCoordinate, lon)
	}
	return Coordinate{Latitude: RoundDegrees(lat), Longitude: RoundDegrees(lon)}, nil
}

// ParseCoordinate canonicalizes a latitude/longitude pair given as strings,
// for example from query parameters or tracker payloads.
func ParseCoordinate(latStr, lonStr string) (Coordinate, error) {
	lat, err := CanonicalizeDegrees(latStr)
	if err != nil {
		return Coordinate{}, err
	}
	lon, err := CanonicalizeDegrees(lonStr)
	if err != nil {
		return Coordinate{}, err
	}
	return NewCoordinate(lat, lon)
}
