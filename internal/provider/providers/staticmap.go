package providers

import (
	"fmt"
	"net/url"

	"github.com/geofacts/geofacts/internal/geo"
	"github.com/geofacts/geofacts/internal/provider"
)

const osmStaticMapBaseURL = "https://staticmap.openstreetmap.de/staticmap.php"

// OSMStaticMapProvider renders coordinates as static map URLs. It performs
// no outbound call itself; the host fetches or embeds the URL.
type OSMStaticMapProvider struct {
	provider.Identity
	baseURL string
}

// OSMStaticMapConfig tunes the provider; zero values take defaults.
type OSMStaticMapConfig struct {
	BaseURL string
}

func NewOSMStaticMapProvider(cfg OSMStaticMapConfig) *OSMStaticMapProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = osmStaticMapBaseURL
	}
	return &OSMStaticMapProvider{
		Identity: provider.Identity{
			ProviderSlug: "osm-staticmap",
			ProviderName: "OSM Static Map",
			ProviderKind: provider.KindMap,
		},
		baseURL: cfg.BaseURL,
	}
}

func (p *OSMStaticMapProvider) StaticMapURL(c geo.Coordinate, opts provider.MapOptions) (string, error) {
	if opts.Zoom <= 0 || opts.Zoom > 19 {
		opts.Zoom = 14
	}
	if opts.Width <= 0 {
		opts.Width = 600
	}
	if opts.Height <= 0 {
		opts.Height = 400
	}

	center := fmt.Sprintf("%f,%f", c.Latitude, c.Longitude)
	params := url.Values{}
	params.Set("center", center)
	params.Set("zoom", fmt.Sprintf("%d", opts.Zoom))
	params.Set("size", fmt.Sprintf("%dx%d", opts.Width, opts.Height))
	params.Set("markers", center+",red-pushpin")

	return p.baseURL + "?" + params.Encode(), nil
}
