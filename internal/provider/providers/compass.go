package providers

import (
	"context"
	"fmt"
	"net/url"

	"github.com/geofacts/geofacts/internal/geo"
	"github.com/geofacts/geofacts/internal/provider"
)

// CompassProvider reads the last known position of a tracked subject from a
// self-hosted Compass tracking server.
type CompassProvider struct {
	provider.Identity
	client  *provider.Client
	baseURL string
	token   string
}

// CompassConfig points the provider at a Compass instance.
type CompassConfig struct {
	BaseURL string
	Token   string
	Client  *provider.Client
}

func NewCompassProvider(cfg CompassConfig) *CompassProvider {
	if cfg.Client == nil {
		cfg.Client = provider.NewClient(provider.ClientConfig{BreakerName: "compass"})
	}
	return &CompassProvider{
		Identity: provider.Identity{
			ProviderSlug: "compass",
			ProviderName: "Compass Tracker",
			ProviderKind: provider.KindLocation,
		},
		client:  cfg.Client,
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
	}
}

func (p *CompassProvider) LastPosition(ctx context.Context, subject string) (geo.Coordinate, error) {
	if p.baseURL == "" {
		return geo.Coordinate{}, fmt.Errorf("%w: compass url not configured", provider.ErrValidation)
	}

	params := url.Values{}
	params.Set("token", p.token)
	if subject != "" {
		params.Set("device", subject)
	}

	var payload struct {
		Data *struct {
			Geometry struct {
				Coordinates []float64 `json:"coordinates"` // lon, lat, alt?
			} `json:"geometry"`
		} `json:"data"`
	}
	if err := p.client.FetchJSON(ctx, p.baseURL+"/api/last", params, &payload); err != nil {
		return geo.Coordinate{}, err
	}
	if payload.Data == nil || len(payload.Data.Geometry.Coordinates) < 2 {
		return geo.Coordinate{}, fmt.Errorf("%w: no position for %q", provider.ErrNotFound, subject)
	}

	coords := payload.Data.Geometry.Coordinates
	c, err := geo.NewCoordinate(coords[1], coords[0])
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("%w: compass returned %v", provider.ErrCapability, err)
	}
	if len(coords) >= 3 {
		alt := coords[2]
		c.Altitude = &alt
	}
	return c, nil
}
