package providers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/geofacts/geofacts/internal/geo"
	"github.com/geofacts/geofacts/internal/provider"
)

const openTopoDataBaseURL = "https://api.opentopodata.org/v1/srtm90m"

// OpenTopoDataProvider reports terrain elevation from OpenTopoData.
// The public instance allows 1 req/s.
type OpenTopoDataProvider struct {
	provider.Identity
	client  *provider.Client
	baseURL string
}

// OpenTopoDataConfig tunes the provider; zero values take defaults.
type OpenTopoDataConfig struct {
	BaseURL string
	Client  *provider.Client
}

func NewOpenTopoDataProvider(cfg OpenTopoDataConfig) *OpenTopoDataProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = openTopoDataBaseURL
	}
	if cfg.Client == nil {
		cfg.Client = provider.NewClient(provider.ClientConfig{RequestsPerSec: 1, BreakerName: "opentopodata"})
	}
	return &OpenTopoDataProvider{
		Identity: provider.Identity{
			ProviderSlug: "opentopodata",
			ProviderName: "OpenTopoData SRTM",
			ProviderKind: provider.KindElevation,
		},
		client:  cfg.Client,
		baseURL: cfg.BaseURL,
	}
}

func (p *OpenTopoDataProvider) Elevation(ctx context.Context, c geo.Coordinate) (float64, error) {
	params := url.Values{}
	params.Set("locations", strconv.FormatFloat(c.Latitude, 'f', -1, 64)+","+
		strconv.FormatFloat(c.Longitude, 'f', -1, 64))

	var payload struct {
		Status  string `json:"status"`
		Error   string `json:"error"`
		Results []struct {
			Elevation *float64 `json:"elevation"`
		} `json:"results"`
	}
	if err := p.client.FetchJSON(ctx, p.baseURL, params, &payload); err != nil {
		return 0, err
	}
	if payload.Status != "OK" {
		return 0, fmt.Errorf("%w: opentopodata: %s", provider.ErrCapability, payload.Error)
	}
	if len(payload.Results) == 0 || payload.Results[0].Elevation == nil {
		return 0, fmt.Errorf("%w: no elevation at %s", provider.ErrNotFound, c.Key())
	}
	return *payload.Results[0].Elevation, nil
}
