// Package resolve orchestrates resolution requests: provider selection,
// geofence overrides, caching, normalization and the single fallback hop.
package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/geofacts/geofacts/internal/cache"
	"github.com/geofacts/geofacts/internal/geo"
	"github.com/geofacts/geofacts/internal/normalize"
	"github.com/geofacts/geofacts/internal/provider"
)

// Options tune one resolution call.
type Options struct {
	// Provider overrides the configured active provider by slug.
	Provider string
	// CacheTTL enables caching of the result for this call site; zero
	// disables the cache entirely.
	CacheTTL time.Duration
}

// Config carries the host-supplied resolver settings.
type Config struct {
	HomeCountry string
	Zones       []Zone
	// Debug retains raw provider payloads on address records.
	Debug bool
}

// Resolver is safe for concurrent use: the registry is read-only after
// startup and all location state travels as call parameters.
type Resolver struct {
	registry *provider.Registry
	cache    cache.Cache
	cfg      Config
}

// New builds a Resolver. cache may be nil when no call site caches.
func New(registry *provider.Registry, c cache.Cache, cfg Config) *Resolver {
	return &Resolver{registry: registry, cache: c, cfg: cfg}
}

var stationIDRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_:-]{0,63}$`)

// ResolveAddress reverse-geocodes a coordinate into a canonical address
// record. A coordinate inside a configured zone short-circuits to a synthetic
// protected record before any provider is consulted.
func (r *Resolver) ResolveAddress(ctx context.Context, c geo.Coordinate, opts Options) (normalize.AddressRecord, error) {
	if z, ok := zoneFor(r.cfg.Zones, c); ok {
		return normalize.AddressRecord{
			DisplayName: z.Name,
			Latitude:    z.Lat,
			Longitude:   z.Lon,
			Visibility:  normalize.VisibilityProtected,
		}, nil
	}

	p, err := r.selectProvider(provider.KindGeocode, opts)
	if err != nil {
		return normalize.AddressRecord{}, err
	}

	var rec normalize.AddressRecord
	key := cache.Key(string(provider.KindGeocode), p.Slug(), c.Key())
	if r.cacheGet(ctx, key, opts.CacheTTL, &rec) {
		return rec, nil
	}

	err = r.withFallback(provider.KindGeocode, p, func(p provider.Provider) error {
		gp, ok := p.(provider.GeocodeProvider)
		if !ok {
			return fmt.Errorf("%w: %q is not a geocode provider", provider.ErrNoProvider, p.Slug())
		}
		got, callErr := gp.ReverseLookup(ctx, c)
		if callErr != nil {
			return callErr
		}
		rec = got
		return nil
	})
	if err != nil {
		return normalize.AddressRecord{}, err
	}

	rec.Finish(r.cfg.HomeCountry)
	if !r.cfg.Debug {
		rec.Raw = nil
	}
	r.cacheSet(ctx, key, opts.CacheTTL, rec)
	return rec, nil
}

// ResolveConditions reports normalized current conditions at a coordinate.
// Inside a zone the zone center is substituted so the precise location never
// reaches a third-party API.
func (r *Resolver) ResolveConditions(ctx context.Context, c geo.Coordinate, opts Options) (normalize.ConditionsRecord, error) {
	c = r.privacyCoordinate(c)

	p, err := r.selectProvider(provider.KindWeather, opts)
	if err != nil {
		return normalize.ConditionsRecord{}, err
	}

	var rec normalize.ConditionsRecord
	key := cache.Key(string(provider.KindWeather), p.Slug(), c.Key())
	if r.cacheGet(ctx, key, opts.CacheTTL, &rec) {
		return rec, nil
	}

	err = r.withFallback(provider.KindWeather, p, func(p provider.Provider) error {
		wp, ok := p.(provider.WeatherProvider)
		if !ok {
			return fmt.Errorf("%w: %q is not a weather provider", provider.ErrNoProvider, p.Slug())
		}
		got, callErr := wp.Conditions(ctx, c)
		if callErr != nil {
			return callErr
		}
		rec = got
		return nil
	})
	if err != nil {
		return normalize.ConditionsRecord{}, err
	}

	rec.FillDerived()
	normalize.ApplyAstronomy(&rec, c.Latitude, c.Longitude, time.Now())
	r.cacheSet(ctx, key, opts.CacheTTL, rec)
	return rec, nil
}

// ResolveStationConditions reports conditions at a fixed observation station.
func (r *Resolver) ResolveStationConditions(ctx context.Context, stationID string, opts Options) (normalize.ConditionsRecord, error) {
	if !stationIDRe.MatchString(stationID) {
		return normalize.ConditionsRecord{}, fmt.Errorf("%w: malformed station id %q", provider.ErrValidation, stationID)
	}

	p, err := r.selectProvider(provider.KindWeather, opts)
	if err != nil {
		return normalize.ConditionsRecord{}, err
	}

	var rec normalize.ConditionsRecord
	key := cache.Key(string(provider.KindWeather), p.Slug(), "station:"+stationID)
	if r.cacheGet(ctx, key, opts.CacheTTL, &rec) {
		return rec, nil
	}

	err = r.withFallback(provider.KindWeather, p, func(p provider.Provider) error {
		sp, ok := p.(provider.StationWeatherProvider)
		if !ok {
			return fmt.Errorf("%w: %q cannot look up stations", provider.ErrNoProvider, p.Slug())
		}
		got, callErr := sp.StationConditions(ctx, stationID)
		if callErr != nil {
			return callErr
		}
		rec = got
		return nil
	})
	if err != nil {
		return normalize.ConditionsRecord{}, err
	}

	rec.FillDerived()
	r.cacheSet(ctx, key, opts.CacheTTL, rec)
	return rec, nil
}

// ResolveElevation reports elevation in meters at a coordinate. Zone
// containment substitutes the zone center, as with conditions.
func (r *Resolver) ResolveElevation(ctx context.Context, c geo.Coordinate, opts Options) (float64, error) {
	c = r.privacyCoordinate(c)

	p, err := r.selectProvider(provider.KindElevation, opts)
	if err != nil {
		return 0, err
	}

	var elevation float64
	key := cache.Key(string(provider.KindElevation), p.Slug(), c.Key())
	if r.cacheGet(ctx, key, opts.CacheTTL, &elevation) {
		return elevation, nil
	}

	err = r.withFallback(provider.KindElevation, p, func(p provider.Provider) error {
		ep, ok := p.(provider.ElevationProvider)
		if !ok {
			return fmt.Errorf("%w: %q is not an elevation provider", provider.ErrNoProvider, p.Slug())
		}
		got, callErr := ep.Elevation(ctx, c)
		if callErr != nil {
			return callErr
		}
		elevation = got
		return nil
	})
	if err != nil {
		return 0, err
	}

	r.cacheSet(ctx, key, opts.CacheTTL, elevation)
	return elevation, nil
}

// ResolveTimezone reports the IANA timezone at a coordinate, as resolved by
// the active weather provider.
func (r *Resolver) ResolveTimezone(ctx context.Context, c geo.Coordinate, opts Options) (string, error) {
	rec, err := r.ResolveConditions(ctx, c, opts)
	if err != nil {
		return "", err
	}
	if rec.Timezone == "" {
		return "", fmt.Errorf("%w: active weather provider reports no timezone", provider.ErrNotFound)
	}
	return rec.Timezone, nil
}

// MapURL renders a static map URL for a coordinate. Zone containment
// substitutes the zone center.
func (r *Resolver) MapURL(c geo.Coordinate, mapOpts provider.MapOptions, opts Options) (string, error) {
	c = r.privacyCoordinate(c)

	p, err := r.selectProvider(provider.KindMap, opts)
	if err != nil {
		return "", err
	}
	mp, ok := p.(provider.MapProvider)
	if !ok {
		return "", fmt.Errorf("%w: %q is not a map provider", provider.ErrNoProvider, p.Slug())
	}
	return mp.StaticMapURL(c, mapOpts)
}

// LastPosition reports the last tracked position of a subject.
func (r *Resolver) LastPosition(ctx context.Context, subject string, opts Options) (geo.Coordinate, error) {
	p, err := r.selectProvider(provider.KindLocation, opts)
	if err != nil {
		return geo.Coordinate{}, err
	}

	var c geo.Coordinate
	err = r.withFallback(provider.KindLocation, p, func(p provider.Provider) error {
		lp, ok := p.(provider.LocationProvider)
		if !ok {
			return fmt.Errorf("%w: %q is not a location provider", provider.ErrNoProvider, p.Slug())
		}
		got, callErr := lp.LastPosition(ctx, subject)
		if callErr != nil {
			return callErr
		}
		c = got
		return nil
	})
	return c, err
}

func (r *Resolver) selectProvider(kind provider.Kind, opts Options) (provider.Provider, error) {
	if opts.Provider != "" {
		return r.registry.BySlug(kind, opts.Provider)
	}
	return r.registry.Active(kind)
}

// privacyCoordinate substitutes the zone center for coordinates inside a
// configured zone so precise locations never leave the process.
func (r *Resolver) privacyCoordinate(c geo.Coordinate) geo.Coordinate {
	if z, ok := zoneFor(r.cfg.Zones, c); ok {
		return geo.Coordinate{Latitude: z.Lat, Longitude: z.Lon}
	}
	return c
}

// withFallback runs fn against the active provider and, when the failure is
// eligible, retries exactly once against the configured fallback. The
// primary's error is surfaced when both fail so callers see a stable root
// cause.
func (r *Resolver) withFallback(kind provider.Kind, active provider.Provider, fn func(provider.Provider) error) error {
	primaryErr := fn(active)
	if primaryErr == nil {
		return nil
	}
	if !provider.Retryable(primaryErr) {
		return primaryErr
	}
	fb, ok := r.registry.Fallback(kind, active.Slug())
	if !ok {
		return primaryErr
	}
	log.Printf("provider %s failed (%v); retrying with fallback %s", active.Slug(), primaryErr, fb.Slug())
	if fbErr := fn(fb); fbErr != nil {
		return primaryErr
	}
	return nil
}

func (r *Resolver) cacheGet(ctx context.Context, key string, ttl time.Duration, out any) bool {
	if r.cache == nil || ttl <= 0 {
		return false
	}
	data, ok, err := r.cache.Get(ctx, key)
	if err != nil {
		log.Printf("cache get %s: %v", key, err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Printf("cache entry %s corrupt: %v", key, err)
		return false
	}
	return true
}

func (r *Resolver) cacheSet(ctx context.Context, key string, ttl time.Duration, value any) {
	if r.cache == nil || ttl <= 0 {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, key, data, ttl); err != nil {
		log.Printf("cache set %s: %v", key, err)
	}
}
