package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/geofacts/geofacts/internal/geo"
	"github.com/geofacts/geofacts/internal/normalize"
	"github.com/geofacts/geofacts/internal/provider"
	"github.com/geofacts/geofacts/internal/resolve"
	"github.com/geofacts/geofacts/internal/taxonomy"
	"github.com/geofacts/geofacts/internal/units"
)

type stubGeocoder struct {
	provider.Identity
	rec normalize.AddressRecord
	err error
}

func (s *stubGeocoder) ReverseLookup(ctx context.Context, c geo.Coordinate) (normalize.AddressRecord, error) {
	if s.err != nil {
		return normalize.AddressRecord{}, s.err
	}
	return s.rec, nil
}

type stubWeather struct {
	provider.Identity
	rec normalize.ConditionsRecord
}

func (s *stubWeather) Conditions(ctx context.Context, c geo.Coordinate) (normalize.ConditionsRecord, error) {
	return s.rec, nil
}

func newTestApp(t *testing.T, providers ...provider.Provider) *fiber.App {
	t.Helper()

	registry := provider.NewRegistry(provider.Selection{})
	for _, p := range providers {
		if err := registry.Register(p); err != nil {
			t.Fatal(err)
		}
	}
	resolver := resolve.New(registry, nil, resolve.Config{HomeCountry: "us"})
	terms := taxonomy.NewResolver(taxonomy.NewMemoryStore())

	app := fiber.New()
	RegisterRoutes(app, resolver, terms, Config{Units: units.Metric})
	return app
}

func TestResolveAddressValidation(t *testing.T) {
	app := newTestApp(t)

	for _, target := range []string{
		"/api/v1/resolve/address",
		"/api/v1/resolve/address?latitude=40.7&longitude=200",
		"/api/v1/resolve/address?latitude=abc&longitude=-73.9",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected status %d, got %d", target, http.StatusBadRequest, resp.StatusCode)
		}
	}
}

func TestResolveAddressClassifies(t *testing.T) {
	app := newTestApp(t, &stubGeocoder{
		Identity: provider.Identity{ProviderSlug: "stub", ProviderKind: provider.KindGeocode},
		rec: normalize.AddressRecord{
			Locality:    "New York",
			RegionCode:  "US-NY",
			CountryCode: "us",
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resolve/address?latitude=40.7484&longitude=-73.9857", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var body struct {
		Address normalize.AddressRecord `json:"address"`
		Place   struct {
			Type taxonomy.LocationType `json:"type"`
		} `json:"place"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Address.Locality != "New York" {
		t.Errorf("locality = %q", body.Address.Locality)
	}
	if body.Place.Type != taxonomy.TypeLocality {
		t.Errorf("place type = %q, want locality", body.Place.Type)
	}
}

func TestResolveAddressNotFound(t *testing.T) {
	app := newTestApp(t, &stubGeocoder{
		Identity: provider.Identity{ProviderSlug: "stub", ProviderKind: provider.KindGeocode},
		err:      provider.ErrNotFound,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resolve/address?latitude=0&longitude=0", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestResolveWeatherNoProvider(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resolve/weather?latitude=40.7&longitude=-73.9", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, resp.StatusCode)
	}
}

func TestResolveWeatherImperialDisplay(t *testing.T) {
	app := newTestApp(t, &stubWeather{
		Identity: provider.Identity{ProviderSlug: "stub", ProviderKind: provider.KindWeather},
		rec:      normalize.ConditionsRecord{Temperature: normalize.F(0)},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resolve/weather?latitude=40.7&longitude=-73.9&units=imperial", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var rec normalize.ConditionsRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		t.Fatal(err)
	}
	if rec.Temperature == nil || *rec.Temperature != 32 {
		t.Errorf("temperature = %v, want 32", rec.Temperature)
	}

	// bogus unit system is rejected
	req = httptest.NewRequest(http.MethodGet, "/api/v1/resolve/weather?latitude=40.7&longitude=-73.9&units=kelvin", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestSimplifyEndpoint(t *testing.T) {
	app := newTestApp(t)

	body := `{"points":[
		{"latitude":0,"longitude":0},
		{"latitude":1,"longitude":0.000001},
		{"latitude":2,"longitude":0}
	],"tolerance":0.1}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/geo/simplify", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var out struct {
		Points []simplifyPoint `json:"points"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Points) != 2 {
		t.Errorf("got %d points, want 2 (middle point within tolerance)", len(out.Points))
	}

	// fewer than two points is rejected
	req = httptest.NewRequest(http.MethodPost, "/api/v1/geo/simplify", strings.NewReader(`{"points":[{"latitude":0,"longitude":0}]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}
