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

const openWeatherBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// OpenWeatherProvider reports current conditions from OpenWeatherMap.
type OpenWeatherProvider struct {
	provider.Identity
	client  *provider.Client
	baseURL string
	apiKey  string
}

// OpenWeatherConfig tunes the provider; zero values take defaults.
type OpenWeatherConfig struct {
	APIKey  string
	BaseURL string
	Client  *provider.Client
}

func NewOpenWeatherProvider(cfg OpenWeatherConfig) *OpenWeatherProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = openWeatherBaseURL
	}
	if cfg.Client == nil {
		cfg.Client = provider.NewClient(provider.ClientConfig{BreakerName: "openweathermap"})
	}
	return &OpenWeatherProvider{
		Identity: provider.Identity{
			ProviderSlug: "openweathermap",
			ProviderName: "OpenWeatherMap",
			ProviderKind: provider.KindWeather,
		},
		client:  cfg.Client,
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
	}
}

func (p *OpenWeatherProvider) Conditions(ctx context.Context, c geo.Coordinate) (normalize.ConditionsRecord, error) {
	if p.apiKey == "" {
		return normalize.ConditionsRecord{}, fmt.Errorf("%w: openweathermap api key missing", provider.ErrValidation)
	}

	params := url.Values{}
	params.Set("appid", p.apiKey)
	params.Set("units", "metric")
	params.Set("lat", strconv.FormatFloat(c.Latitude, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(c.Longitude, 'f', -1, 64))

	var payload struct {
		Cod     any    `json:"cod"` // int on success, string on error
		Message string `json:"message"`
		Main    *struct {
			Temp     *float64 `json:"temp"`
			Humidity *float64 `json:"humidity"`
			Pressure *float64 `json:"pressure"`
		} `json:"main"`
		Wind *struct {
			Speed *float64 `json:"speed"`
			Deg   *float64 `json:"deg"`
			Gust  *float64 `json:"gust"`
		} `json:"wind"`
		Clouds *struct {
			All *float64 `json:"all"`
		} `json:"clouds"`
		Rain *struct {
			OneH *float64 `json:"1h"`
		} `json:"rain"`
		Snow *struct {
			OneH *float64 `json:"1h"`
		} `json:"snow"`
		Visibility *float64 `json:"visibility"`
		Weather    []struct {
			ID   int    `json:"id"`
			Icon string `json:"icon"`
		} `json:"weather"`
	}

	if err := p.client.FetchJSON(ctx, p.baseURL, params, &payload); err != nil {
		return normalize.ConditionsRecord{}, err
	}
	// A 2xx body can still carry an API-level error code.
	if payload.Main == nil {
		return normalize.ConditionsRecord{}, fmt.Errorf("%w: openweathermap: %s", provider.ErrCapability, payload.Message)
	}

	rec := normalize.ConditionsRecord{
		Temperature: payload.Main.Temp,
		Humidity:    payload.Main.Humidity,
		Pressure:    payload.Main.Pressure,
		Visibility:  payload.Visibility,
	}
	if payload.Clouds != nil {
		rec.Cloudiness = payload.Clouds.All
	}
	if payload.Wind != nil {
		rec.WindSpeed = payload.Wind.Speed
		rec.WindDegree = payload.Wind.Deg
		rec.WindGust = payload.Wind.Gust
	}
	if payload.Rain != nil {
		rec.Rain = payload.Rain.OneH
	}
	if payload.Snow != nil {
		rec.Snow = payload.Snow.OneH
	}
	if len(payload.Weather) > 0 {
		w := payload.Weather[0]
		// "01d"/"01n" style icon codes carry the day flag
		day := len(w.Icon) == 0 || w.Icon[len(w.Icon)-1] != 'n'
		rec.Icon, rec.Summary = normalize.OWMCondition(w.ID, day)
	}
	return rec, nil
}
