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

const photonBaseURL = "https://photon.komoot.io/reverse"

// PhotonProvider reverse-geocodes through Komoot Photon. Photon returns a
// ranked feature list, so it exercises the candidate-selection policy.
type PhotonProvider struct {
	provider.Identity
	client  *provider.Client
	baseURL string
	policy  normalize.CandidatePolicy
}

// PhotonConfig tunes the provider; zero values take defaults. Policy
// overrides the default candidate selection.
type PhotonConfig struct {
	BaseURL string
	Client  *provider.Client
	Policy  normalize.CandidatePolicy
}

func NewPhotonProvider(cfg PhotonConfig) *PhotonProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = photonBaseURL
	}
	if cfg.Client == nil {
		cfg.Client = provider.NewClient(provider.ClientConfig{BreakerName: "photon"})
	}
	if cfg.Policy == nil {
		cfg.Policy = normalize.SelectCandidate
	}
	return &PhotonProvider{
		Identity: provider.Identity{
			ProviderSlug: "photon",
			ProviderName: "Komoot Photon",
			ProviderKind: provider.KindGeocode,
		},
		client:  cfg.Client,
		baseURL: cfg.BaseURL,
		policy:  cfg.Policy,
	}
}

func (p *PhotonProvider) ReverseLookup(ctx context.Context, c geo.Coordinate) (normalize.AddressRecord, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(c.Latitude, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(c.Longitude, 'f', -1, 64))
	params.Set("limit", "5")

	var payload struct {
		Features []struct {
			Geometry struct {
				Coordinates []float64 `json:"coordinates"` // lon, lat
			} `json:"geometry"`
			Properties struct {
				Name        string `json:"name"`
				HouseNumber string `json:"housenumber"`
				Street      string `json:"street"`
				District    string `json:"district"`
				City        string `json:"city"`
				State       string `json:"state"`
				Postcode    string `json:"postcode"`
				Country     string `json:"country"`
				CountryCode string `json:"countrycode"`
				OSMKey      string `json:"osm_key"`
			} `json:"properties"`
		} `json:"features"`
	}

	if err := p.client.FetchJSON(ctx, p.baseURL, params, &payload); err != nil {
		return normalize.AddressRecord{}, err
	}
	if len(payload.Features) == 0 {
		return normalize.AddressRecord{}, fmt.Errorf("%w: no feature at %s", provider.ErrNotFound, c.Key())
	}

	cands := make([]normalize.Candidate, 0, len(payload.Features))
	for _, f := range payload.Features {
		props := f.Properties
		street := props.Street
		if props.HouseNumber != "" && props.Street != "" {
			street = props.HouseNumber + " " + props.Street
		}
		pt := c.Point()
		if len(f.Geometry.Coordinates) == 2 {
			pt = geo.Point{Lat: f.Geometry.Coordinates[1], Lon: f.Geometry.Coordinates[0]}
		}
		cands = append(cands, normalize.Candidate{
			Record: normalize.AddressRecord{
				Name:            props.Name,
				StreetAddress:   street,
				ExtendedAddress: props.District,
				Locality:        props.City,
				Region:          props.State,
				CountryName:     props.Country,
				CountryCode:     props.CountryCode,
				PostalCode:      props.Postcode,
				Latitude:        pt.Lat,
				Longitude:       pt.Lon,
			},
			Layer: photonLayer(props.OSMKey),
			Point: pt,
		})
	}
	return p.policy(cands, c.Point())
}

// photonLayer buckets Photon's osm_key into the layers the default
// tie-break understands.
func photonLayer(osmKey string) string {
	switch osmKey {
	case "amenity", "tourism", "leisure", "shop", "historic":
		return normalize.LayerVenue
	default:
		return normalize.LayerAddress
	}
}
