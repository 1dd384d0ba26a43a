// Package refdata declares the lookup contracts for static reference data
// the host loads (airport tables and similar). Loading and parsing those
// datasets is the host's concern; this package only fixes the shape consumers
// depend on.
package refdata

import "github.com/geofacts/geofacts/internal/geo"

// Airport is one aerodrome record.
type Airport struct {
	IATA         string    `json:"iata,omitempty"`
	ICAO         string    `json:"icao,omitempty"`
	GPSCode      string    `json:"gps_code,omitempty"`
	Name         string    `json:"name"`
	Municipality string    `json:"municipality,omitempty"`
	CountryCode  string    `json:"country_code,omitempty"`
	Point        geo.Point `json:"point"`
}

// AirportLookup resolves airports by their identifying codes or by
// municipality. Implementations return ok=false for unknown keys; they never
// invent records.
type AirportLookup interface {
	ByCode(code string) (Airport, bool)
	ByMunicipality(name string) ([]Airport, bool)
}
