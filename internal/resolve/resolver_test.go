package resolve

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/geofacts/geofacts/internal/cache"
	"github.com/geofacts/geofacts/internal/geo"
	"github.com/geofacts/geofacts/internal/normalize"
	"github.com/geofacts/geofacts/internal/provider"
)

type stubGeocoder struct {
	provider.Identity
	calls  int
	record normalize.AddressRecord
	err    error
}

func (s *stubGeocoder) ReverseLookup(_ context.Context, _ geo.Coordinate) (normalize.AddressRecord, error) {
	s.calls++
	if s.err != nil {
		return normalize.AddressRecord{}, s.err
	}
	return s.record, nil
}

type stubWeather struct {
	provider.Identity
	calls  int
	record normalize.ConditionsRecord
	err    error
}

func (s *stubWeather) Conditions(_ context.Context, _ geo.Coordinate) (normalize.ConditionsRecord, error) {
	s.calls++
	if s.err != nil {
		return normalize.ConditionsRecord{}, s.err
	}
	return s.record, nil
}

func geocoder(slug string) *stubGeocoder {
	return &stubGeocoder{Identity: provider.Identity{
		ProviderSlug: slug, ProviderName: slug, ProviderKind: provider.KindGeocode,
	}}
}

func weatherStub(slug string) *stubWeather {
	return &stubWeather{Identity: provider.Identity{
		ProviderSlug: slug, ProviderName: slug, ProviderKind: provider.KindWeather,
	}}
}

func mustCoord(t *testing.T, lat, lon float64) geo.Coordinate {
	t.Helper()
	c, err := geo.NewCoordinate(lat, lon)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestResolveAddressEndToEnd(t *testing.T) {
	primary := geocoder("stub")
	primary.record = normalize.AddressRecord{
		Name:        "Empire State Building",
		Locality:    "New York",
		Region:      "NY",
		CountryName: "United States",
		CountryCode: "us",
	}

	reg := provider.NewRegistry(provider.Selection{})
	if err := reg.Register(primary); err != nil {
		t.Fatal(err)
	}

	r := New(reg, nil, Config{HomeCountry: "DE"})
	rec, err := r.ResolveAddress(context.Background(), mustCoord(t, 40.7484, -73.9857), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if rec.DisplayName != "Empire State Building, New York, NY, US" {
		t.Errorf("display name = %q", rec.DisplayName)
	}

	home := New(reg, nil, Config{HomeCountry: "US"})
	rec, err = home.ResolveAddress(context.Background(), mustCoord(t, 40.7484, -73.9857), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if rec.DisplayName != "Empire State Building, New York, NY" {
		t.Errorf("home country not suppressed: %q", rec.DisplayName)
	}
}

func TestFallbackSingleHop(t *testing.T) {
	primary := geocoder("primary")
	primary.err = &provider.HTTPError{Status: 502, Body: "bad gateway"}
	fallback := geocoder("fallback")
	fallback.err = &provider.HTTPError{Status: 500, Body: "worse gateway"}

	reg := provider.NewRegistry(provider.Selection{
		Active:   map[provider.Kind]string{provider.KindGeocode: "primary"},
		Fallback: map[provider.Kind]string{provider.KindGeocode: "fallback"},
	})
	reg.Register(primary)
	reg.Register(fallback)

	r := New(reg, nil, Config{})
	_, err := r.ResolveAddress(context.Background(), mustCoord(t, 1, 2), Options{})

	if primary.calls != 1 || fallback.calls != 1 {
		t.Errorf("calls: primary=%d fallback=%d, want exactly one each", primary.calls, fallback.calls)
	}
	var he *provider.HTTPError
	if !errors.As(err, &he) || he.Status != 502 {
		t.Errorf("surfaced error should be the primary's, got %v", err)
	}
}

func TestFallbackSuccess(t *testing.T) {
	primary := geocoder("primary")
	primary.err = &provider.TransportError{Err: errors.New("dns")}
	fallback := geocoder("fallback")
	fallback.record = normalize.AddressRecord{Locality: "Berlin", CountryCode: "de"}

	reg := provider.NewRegistry(provider.Selection{
		Active:   map[provider.Kind]string{provider.KindGeocode: "primary"},
		Fallback: map[provider.Kind]string{provider.KindGeocode: "fallback"},
	})
	reg.Register(primary)
	reg.Register(fallback)

	r := New(reg, nil, Config{})
	rec, err := r.ResolveAddress(context.Background(), mustCoord(t, 52.5, 13.4), Options{})
	if err != nil {
		t.Fatalf("fallback result should succeed: %v", err)
	}
	if rec.Locality != "Berlin" {
		t.Errorf("got %+v", rec)
	}
}

func TestNotFoundNeverFallsBack(t *testing.T) {
	primary := geocoder("primary")
	primary.err = provider.ErrNotFound
	fallback := geocoder("fallback")

	reg := provider.NewRegistry(provider.Selection{
		Active:   map[provider.Kind]string{provider.KindGeocode: "primary"},
		Fallback: map[provider.Kind]string{provider.KindGeocode: "fallback"},
	})
	reg.Register(primary)
	reg.Register(fallback)

	r := New(reg, nil, Config{})
	_, err := r.ResolveAddress(context.Background(), mustCoord(t, 1, 2), Options{})
	if !errors.Is(err, provider.ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
	if fallback.calls != 0 {
		t.Error("not_found must never be retried via fallback")
	}
}

func TestNoProviderConfigured(t *testing.T) {
	reg := provider.NewRegistry(provider.Selection{})
	r := New(reg, nil, Config{})
	_, err := r.ResolveAddress(context.Background(), mustCoord(t, 1, 2), Options{})
	if !errors.Is(err, provider.ErrNoProvider) {
		t.Errorf("want ErrNoProvider, got %v", err)
	}
}

func TestCacheHitSkipsProvider(t *testing.T) {
	w := weatherStub("stub")
	w.record = normalize.ConditionsRecord{Temperature: normalize.F(21.5)}

	reg := provider.NewRegistry(provider.Selection{})
	reg.Register(w)

	mem := cache.NewMemoryCache()
	defer mem.Close()
	r := New(reg, mem, Config{})

	opts := Options{CacheTTL: 600 * time.Second}
	c := mustCoord(t, 40.7484, -73.9857)

	first, err := r.ResolveConditions(context.Background(), c, opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.ResolveConditions(context.Background(), c, opts)
	if err != nil {
		t.Fatal(err)
	}
	if w.calls != 1 {
		t.Errorf("provider invoked %d times, want exactly 1", w.calls)
	}
	if *first.Temperature != *second.Temperature {
		t.Error("cache hit differs from original")
	}

	// TTL zero disables the cache entirely
	if _, err := r.ResolveConditions(context.Background(), c, Options{}); err != nil {
		t.Fatal(err)
	}
	if w.calls != 2 {
		t.Errorf("uncached call should reach the provider, calls=%d", w.calls)
	}
}

func TestZoneOverridesAddress(t *testing.T) {
	g := geocoder("stub")
	reg := provider.NewRegistry(provider.Selection{})
	reg.Register(g)

	r := New(reg, nil, Config{
		HomeCountry: "US",
		Zones:       []Zone{{Name: "Home", Lat: 40.7484, Lon: -73.9857, RadiusM: 100}},
	})

	rec, err := r.ResolveAddress(context.Background(), mustCoord(t, 40.74845, -73.98572), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if rec.DisplayName != "Home" {
		t.Errorf("display name = %q, want zone name", rec.DisplayName)
	}
	if rec.Visibility != normalize.VisibilityProtected {
		t.Errorf("visibility = %q, want protected", rec.Visibility)
	}
	if g.calls != 0 {
		t.Error("zone must be evaluated strictly before any provider call")
	}

	// outside the zone the provider runs
	if _, err := r.ResolveAddress(context.Background(), mustCoord(t, 41, -73), Options{}); err != nil {
		t.Fatal(err)
	}
	if g.calls != 1 {
		t.Error("coordinate outside the zone should reach the provider")
	}
}

func TestStationIDValidation(t *testing.T) {
	w := weatherStub("stub")
	reg := provider.NewRegistry(provider.Selection{})
	reg.Register(w)
	r := New(reg, nil, Config{})

	_, err := r.ResolveStationConditions(context.Background(), "bad station!", Options{})
	if !errors.Is(err, provider.ErrValidation) {
		t.Errorf("want ErrValidation, got %v", err)
	}
	if w.calls != 0 {
		t.Error("validation errors must never reach a provider")
	}

	// a plain weather provider cannot serve station lookups
	_, err = r.ResolveStationConditions(context.Background(), "KJFK", Options{})
	if !errors.Is(err, provider.ErrNoProvider) {
		t.Errorf("want ErrNoProvider for non-station provider, got %v", err)
	}
}

func TestPerCallProviderOverride(t *testing.T) {
	a := geocoder("a")
	a.record = normalize.AddressRecord{Locality: "From A"}
	b := geocoder("b")
	b.record = normalize.AddressRecord{Locality: "From B"}

	reg := provider.NewRegistry(provider.Selection{
		Active: map[provider.Kind]string{provider.KindGeocode: "a"},
	})
	reg.Register(a)
	reg.Register(b)

	r := New(reg, nil, Config{})
	rec, err := r.ResolveAddress(context.Background(), mustCoord(t, 1, 2), Options{Provider: "b"})
	if err != nil {
		t.Fatal(err)
	}
	if rec.Locality != "From B" {
		t.Errorf("override ignored, got %q", rec.Locality)
	}
}
