// Package config loads host configuration from the environment (with .env
// support) and hands it to the registry, resolver and HTTP layer explicitly;
// nothing reads ambient globals after startup.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/geofacts/geofacts/internal/geo"
	"github.com/geofacts/geofacts/internal/provider"
	"github.com/geofacts/geofacts/internal/resolve"
	"github.com/geofacts/geofacts/internal/units"
)

var validate = validator.New()

// AppConfig is the full host configuration.
type AppConfig struct {
	Port string

	// HomeCountry suppresses the country part of display names.
	HomeCountry string
	Units       units.System `validate:"oneof=metric imperial"`
	Debug       bool

	// Provider selection per capability kind.
	Selection provider.Selection

	// Credentials and endpoints.
	OpenWeatherAPIKey string
	CompassURL        string
	CompassToken      string

	// Geofence zones.
	Zones []resolve.Zone

	// Cache backend and per-capability TTLs (0 disables).
	CacheBackend  string `validate:"oneof=memory redis"`
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	AddressTTL    time.Duration
	WeatherTTL    time.Duration
	ElevationTTL  time.Duration

	// Taxonomy backend.
	TaxonomyBackend string `validate:"oneof=memory sqlite"`
	TaxonomyDBPath  string

	// Cache warming.
	WarmLocations []geo.Coordinate
	WarmInterval  time.Duration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := &AppConfig{
		Port:        getenvDefault("PORT", "8080"),
		HomeCountry: os.Getenv("HOME_COUNTRY"),
		Units:       units.System(getenvDefault("MEASUREMENT_UNITS", "metric")),
		Debug:       getenvBool("DEBUG_RAW", false),

		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		CompassURL:        os.Getenv("COMPASS_URL"),
		CompassToken:      os.Getenv("COMPASS_TOKEN"),

		CacheBackend:  getenvDefault("CACHE_BACKEND", "memory"),
		RedisAddr:     getenvDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getenvInt("REDIS_DB", 0),

		TaxonomyBackend: getenvDefault("TAXONOMY_BACKEND", "memory"),
		TaxonomyDBPath:  getenvDefault("TAXONOMY_DB_PATH", "geofacts.db"),
	}

	cfg.Selection = provider.Selection{
		Active: map[provider.Kind]string{
			provider.KindGeocode:   os.Getenv("GEOCODE_PROVIDER"),
			provider.KindWeather:   os.Getenv("WEATHER_PROVIDER"),
			provider.KindElevation: os.Getenv("ELEVATION_PROVIDER"),
			provider.KindMap:       os.Getenv("MAP_PROVIDER"),
			provider.KindLocation:  os.Getenv("LOCATION_PROVIDER"),
		},
		Fallback: map[provider.Kind]string{
			provider.KindGeocode:   os.Getenv("GEOCODE_FALLBACK_PROVIDER"),
			provider.KindWeather:   os.Getenv("WEATHER_FALLBACK_PROVIDER"),
			provider.KindElevation: os.Getenv("ELEVATION_FALLBACK_PROVIDER"),
			provider.KindLocation:  os.Getenv("LOCATION_FALLBACK_PROVIDER"),
		},
	}

	var err error
	if cfg.AddressTTL, err = getenvDuration("ADDRESS_CACHE_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.WeatherTTL, err = getenvDuration("WEATHER_CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.ElevationTTL, err = getenvDuration("ELEVATION_CACHE_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.WarmInterval, err = getenvDuration("WARM_INTERVAL", 15*time.Minute); err != nil {
		return nil, err
	}

	if cfg.Zones, err = parseZones(os.Getenv("GEOFENCE_ZONES")); err != nil {
		return nil, err
	}
	if cfg.WarmLocations, err = parseLocations(os.Getenv("WARM_LOCATIONS")); err != nil {
		return nil, err
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// parseZones decodes the GEOFENCE_ZONES JSON array:
// [{"name":"Home","latitude":40.7,"longitude":-73.9,"radius":100}].
func parseZones(raw string) ([]resolve.Zone, error) {
	if raw == "" {
		return nil, nil
	}
	var zones []resolve.Zone
	if err := json.Unmarshal([]byte(raw), &zones); err != nil {
		return nil, fmt.Errorf("invalid GEOFENCE_ZONES: %w", err)
	}
	for _, z := range zones {
		if z.Name == "" {
			return nil, fmt.Errorf("invalid GEOFENCE_ZONES: zone without name")
		}
		if _, err := geo.NewCoordinate(z.Lat, z.Lon); err != nil {
			return nil, fmt.Errorf("invalid GEOFENCE_ZONES: zone %q: %w", z.Name, err)
		}
	}
	return zones, nil
}

// parseLocations decodes "lat,lon;lat,lon" pairs.
func parseLocations(raw string) ([]geo.Coordinate, error) {
	if raw == "" {
		return nil, nil
	}
	var out []geo.Coordinate
	for _, pair := range strings.Split(raw, ";") {
		parts := strings.SplitN(strings.TrimSpace(pair), ",", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid WARM_LOCATIONS entry %q", pair)
		}
		c, err := geo.ParseCoordinate(parts[0], strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid WARM_LOCATIONS entry %q: %w", pair, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
