// Package providers contains the concrete provider implementations wired
// into the registry. Each provider decodes its own payload shape and feeds
// the shared normalization tables; none of them keeps per-request state.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/geofacts/geofacts/internal/geo"
	"github.com/geofacts/geofacts/internal/normalize"
	"github.com/geofacts/geofacts/internal/provider"
)

const nominatimBaseURL = "https://nominatim.openstreetmap.org/reverse"

// NominatimProvider reverse-geocodes through OSM Nominatim. Nominatim's usage
// policy caps anonymous use at 1 req/s, which the client's limiter enforces.
type NominatimProvider struct {
	provider.Identity
	client  *provider.Client
	baseURL string
	debug   bool
}

// NominatimConfig tunes the provider; zero values take defaults.
type NominatimConfig struct {
	BaseURL string
	Client  *provider.Client
	Debug   bool
}

func NewNominatimProvider(cfg NominatimConfig) *NominatimProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = nominatimBaseURL
	}
	if cfg.Client == nil {
		cfg.Client = provider.NewClient(provider.ClientConfig{RequestsPerSec: 1, BreakerName: "nominatim"})
	}
	return &NominatimProvider{
		Identity: provider.Identity{
			ProviderSlug: "nominatim",
			ProviderName: "OSM Nominatim",
			ProviderKind: provider.KindGeocode,
		},
		client:  cfg.Client,
		baseURL: cfg.BaseURL,
		debug:   cfg.Debug,
	}
}

func (p *NominatimProvider) ReverseLookup(ctx context.Context, c geo.Coordinate) (normalize.AddressRecord, error) {
	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("lat", strconv.FormatFloat(c.Latitude, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(c.Longitude, 'f', -1, 64))
	params.Set("addressdetails", "1")

	var payload struct {
		Error       string `json:"error"`
		Name        string `json:"name"`
		DisplayName string `json:"display_name"`
		Address     struct {
			Attraction    string `json:"attraction"`
			Building      string `json:"building"`
			Hotel         string `json:"hotel"`
			Amenity       string `json:"amenity"`
			Tourism       string `json:"tourism"`
			HouseNumber   string `json:"house_number"`
			Road          string `json:"road"`
			Suburb        string `json:"suburb"`
			Neighbourhood string `json:"neighbourhood"`
			City          string `json:"city"`
			Town          string `json:"town"`
			Village       string `json:"village"`
			Hamlet        string `json:"hamlet"`
			State         string `json:"state"`
			RegionISO     string `json:"ISO3166-2-lvl4"`
			Postcode      string `json:"postcode"`
			Country       string `json:"country"`
			CountryCode   string `json:"country_code"`
		} `json:"address"`
	}

	if err := p.client.FetchJSON(ctx, p.baseURL, params, &payload); err != nil {
		return normalize.AddressRecord{}, err
	}
	// Nominatim reports "Unable to geocode" inside a 200 body.
	if payload.Error != "" {
		if strings.Contains(strings.ToLower(payload.Error), "unable to geocode") {
			return normalize.AddressRecord{}, fmt.Errorf("%w: %s", provider.ErrNotFound, payload.Error)
		}
		return normalize.AddressRecord{}, fmt.Errorf("%w: nominatim: %s", provider.ErrCapability, payload.Error)
	}

	addr := payload.Address
	street := addr.Road
	if addr.HouseNumber != "" && addr.Road != "" {
		street = addr.HouseNumber + " " + addr.Road
	}

	rec := normalize.AddressRecord{
		Name:            normalize.FirstNonEmpty(addr.Attraction, addr.Building, addr.Hotel, addr.Amenity, addr.Tourism, payload.Name),
		StreetAddress:   street,
		ExtendedAddress: normalize.FirstNonEmpty(addr.Suburb, addr.Neighbourhood),
		Locality:        normalize.FirstNonEmpty(addr.City, addr.Town, addr.Village, addr.Hamlet),
		Region:          addr.State,
		RegionCode:      addr.RegionISO,
		CountryName:     addr.Country,
		CountryCode:     addr.CountryCode,
		PostalCode:      addr.Postcode,
		Latitude:        c.Latitude,
		Longitude:       c.Longitude,
	}
	if p.debug {
		if raw, err := json.Marshal(payload); err == nil {
			rec.Raw = raw
		}
	}
	return rec, nil
}
