// Package provider defines the capability model shared by every outbound
// data source: capability kinds, the per-capability interfaces, the typed
// fetch client and the process-wide registry.
package provider

import (
	"context"

	"github.com/geofacts/geofacts/internal/geo"
	"github.com/geofacts/geofacts/internal/normalize"
)

// Kind identifies a provider capability.
type Kind string

const (
	KindGeocode   Kind = "geocode"
	KindWeather   Kind = "weather"
	KindMap       Kind = "map"
	KindElevation Kind = "elevation"
	KindLocation  Kind = "location"
)

// Kinds lists every capability kind.
var Kinds = []Kind{KindGeocode, KindWeather, KindMap, KindElevation, KindLocation}

// Provider is the identity every capability implementation carries.
// Implementations are immutable after construction; location state is always
// a call parameter, never provider state, so instances are safe to share
// across concurrent resolutions.
type Provider interface {
	// Slug is the stable configuration identifier.
	Slug() string
	// Name is the human-readable display name.
	Name() string
	// Kind is the capability this provider serves.
	Kind() Kind
	// Regions returns the ISO alpha-2 country codes this provider is
	// restricted to, or nil when it is global.
	Regions() []string
}

// GeocodeProvider converts coordinates into a canonical address record.
type GeocodeProvider interface {
	Provider
	ReverseLookup(ctx context.Context, c geo.Coordinate) (normalize.AddressRecord, error)
}

// WeatherProvider reports current conditions at a coordinate.
type WeatherProvider interface {
	Provider
	Conditions(ctx context.Context, c geo.Coordinate) (normalize.ConditionsRecord, error)
}

// StationWeatherProvider is implemented by weather providers that can also be
// addressed by a fixed observation-station ID.
type StationWeatherProvider interface {
	WeatherProvider
	StationConditions(ctx context.Context, stationID string) (normalize.ConditionsRecord, error)
}

// ElevationProvider reports elevation in meters at a coordinate.
type ElevationProvider interface {
	Provider
	Elevation(ctx context.Context, c geo.Coordinate) (float64, error)
}

// MapOptions control static map rendering.
type MapOptions struct {
	Zoom   int
	Width  int
	Height int
}

// MapProvider produces a static map URL for a coordinate. No outbound call is
// made; the host embeds or fetches the URL itself.
type MapProvider interface {
	Provider
	StaticMapURL(c geo.Coordinate, opts MapOptions) (string, error)
}

// LocationProvider reports the last known position of a tracked subject.
type LocationProvider interface {
	Provider
	LastPosition(ctx context.Context, subject string) (geo.Coordinate, error)
}

// Identity is a ready-made Provider implementation for embedding.
type Identity struct {
	ProviderSlug string
	ProviderName string
	ProviderKind Kind
	RegionCodes  []string
}

func (id Identity) Slug() string      { return id.ProviderSlug }
func (id Identity) Name() string      { return id.ProviderName }
func (id Identity) Kind() Kind        { return id.ProviderKind }
func (id Identity) Regions() []string { return id.RegionCodes }
