package providers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/geofacts/geofacts/internal/geo"
	"github.com/geofacts/geofacts/internal/normalize"
	"github.com/geofacts/geofacts/internal/provider"
)

const (
	openMeteoForecastURL  = "https://api.open-meteo.com/v1/forecast"
	openMeteoElevationURL = "https://api.open-meteo.com/v1/elevation"
)

// OpenMeteoProvider reports current conditions from Open-Meteo. No API key
// is required.
type OpenMeteoProvider struct {
	provider.Identity
	client  *provider.Client
	baseURL string
}

// OpenMeteoConfig tunes the provider; zero values take defaults.
type OpenMeteoConfig struct {
	BaseURL string
	Client  *provider.Client
}

func NewOpenMeteoProvider(cfg OpenMeteoConfig) *OpenMeteoProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = openMeteoForecastURL
	}
	if cfg.Client == nil {
		cfg.Client = provider.NewClient(provider.ClientConfig{BreakerName: "openmeteo"})
	}
	return &OpenMeteoProvider{
		Identity: provider.Identity{
			ProviderSlug: "openmeteo",
			ProviderName: "Open-Meteo",
			ProviderKind: provider.KindWeather,
		},
		client:  cfg.Client,
		baseURL: cfg.BaseURL,
	}
}

func (p *OpenMeteoProvider) Conditions(ctx context.Context, c geo.Coordinate) (normalize.ConditionsRecord, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(c.Latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(c.Longitude, 'f', -1, 64))
	params.Set("current", "temperature_2m,relative_humidity_2m,surface_pressure,cloud_cover,precipitation,snowfall,wind_speed_10m,wind_direction_10m,wind_gusts_10m,weather_code,is_day,uv_index")
	params.Set("wind_speed_unit", "ms")
	params.Set("timezone", "auto")

	var payload struct {
		Error    bool   `json:"error"`
		Reason   string `json:"reason"`
		Timezone string `json:"timezone"`
		Current  *struct {
			Temperature   *float64 `json:"temperature_2m"`
			Humidity      *float64 `json:"relative_humidity_2m"`
			Pressure      *float64 `json:"surface_pressure"`
			CloudCover    *float64 `json:"cloud_cover"`
			Precipitation *float64 `json:"precipitation"`
			Snowfall      *float64 `json:"snowfall"`
			WindSpeed     *float64 `json:"wind_speed_10m"`
			WindDirection *float64 `json:"wind_direction_10m"`
			WindGusts     *float64 `json:"wind_gusts_10m"`
			WeatherCode   *int     `json:"weather_code"`
			IsDay         *int     `json:"is_day"`
			UVIndex       *float64 `json:"uv_index"`
		} `json:"current"`
	}

	if err := p.client.FetchJSON(ctx, p.baseURL, params, &payload); err != nil {
		return normalize.ConditionsRecord{}, err
	}
	if payload.Error || payload.Current == nil {
		return normalize.ConditionsRecord{}, fmt.Errorf("%w: openmeteo: %s", provider.ErrCapability, payload.Reason)
	}

	cur := payload.Current
	rec := normalize.ConditionsRecord{
		Temperature: cur.Temperature,
		Humidity:    cur.Humidity,
		Pressure:    cur.Pressure,
		Cloudiness:  cur.CloudCover,
		Rain:        cur.Precipitation,
		WindSpeed:   cur.WindSpeed,
		WindDegree:  cur.WindDirection,
		WindGust:    cur.WindGusts,
		UV:          cur.UVIndex,
		Timezone:    payload.Timezone,
	}
	if cur.Snowfall != nil {
		// snowfall arrives in cm
		rec.Snow = normalize.F(*cur.Snowfall * 10)
	}
	if cur.WeatherCode != nil {
		day := cur.IsDay == nil || *cur.IsDay == 1
		rec.Icon, rec.Summary = normalize.WMOCondition(*cur.WeatherCode, day)
	}
	return rec, nil
}

// OpenMeteoElevationProvider reports terrain elevation from the Open-Meteo
// elevation API (90 m Copernicus DEM).
type OpenMeteoElevationProvider struct {
	provider.Identity
	client  *provider.Client
	baseURL string
}

func NewOpenMeteoElevationProvider(cfg OpenMeteoConfig) *OpenMeteoElevationProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = openMeteoElevationURL
	}
	if cfg.Client == nil {
		cfg.Client = provider.NewClient(provider.ClientConfig{BreakerName: "openmeteo-elevation"})
	}
	return &OpenMeteoElevationProvider{
		Identity: provider.Identity{
			ProviderSlug: "openmeteo-elevation",
			ProviderName: "Open-Meteo Elevation",
			ProviderKind: provider.KindElevation,
		},
		client:  cfg.Client,
		baseURL: cfg.BaseURL,
	}
}

func (p *OpenMeteoElevationProvider) Elevation(ctx context.Context, c geo.Coordinate) (float64, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(c.Latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(c.Longitude, 'f', -1, 64))

	var payload struct {
		Error     bool      `json:"error"`
		Reason    string    `json:"reason"`
		Elevation []float64 `json:"elevation"`
	}
	if err := p.client.FetchJSON(ctx, p.baseURL, params, &payload); err != nil {
		return 0, err
	}
	if payload.Error {
		return 0, fmt.Errorf("%w: openmeteo elevation: %s", provider.ErrCapability, payload.Reason)
	}
	if len(payload.Elevation) == 0 {
		return 0, fmt.Errorf("%w: no elevation at %s", provider.ErrNotFound, c.Key())
	}
	return payload.Elevation[0], nil
}
