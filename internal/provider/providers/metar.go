package providers

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/geofacts/geofacts/internal/geo"
	"github.com/geofacts/geofacts/internal/normalize"
	"github.com/geofacts/geofacts/internal/provider"
	"github.com/geofacts/geofacts/internal/units"
)

const metarBaseURL = "https://aviationweather.gov/api/data/metar"

// metarSearchRadiusM bounds the station search around a coordinate.
const metarSearchRadiusM = 50000.0

// MetarProvider reports observations from aviation METAR stations. It is the
// station-capable weather provider: callers can address it by ICAO station ID
// directly, or by coordinate, in which case the nearest reporting station
// inside a 50 km radius box is used.
type MetarProvider struct {
	provider.Identity
	client  *provider.Client
	baseURL string
}

// MetarConfig tunes the provider; zero values take defaults.
type MetarConfig struct {
	BaseURL string
	Client  *provider.Client
}

func NewMetarProvider(cfg MetarConfig) *MetarProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = metarBaseURL
	}
	if cfg.Client == nil {
		cfg.Client = provider.NewClient(provider.ClientConfig{BreakerName: "metar"})
	}
	return &MetarProvider{
		Identity: provider.Identity{
			ProviderSlug: "metar",
			ProviderName: "Aviation Weather METAR",
			ProviderKind: provider.KindWeather,
		},
		client:  cfg.Client,
		baseURL: cfg.BaseURL,
	}
}

type metarObservation struct {
	StationID   string   `json:"icaoId"`
	Lat         float64  `json:"lat"`
	Lon         float64  `json:"lon"`
	Temp        *float64 `json:"temp"`
	DewPoint    *float64 `json:"dewp"`
	WindDir     *float64 `json:"wdir"`
	WindSpeedKt *float64 `json:"wspd"`
	WindGustKt  *float64 `json:"wgst"`
	VisibMiles  *float64 `json:"visib"`
	AltimHPa    *float64 `json:"altim"`
	CloudCover  string   `json:"cover"`
	WxString    string   `json:"wxString"`
}

func (p *MetarProvider) Conditions(ctx context.Context, c geo.Coordinate) (normalize.ConditionsRecord, error) {
	box := geo.RadiusBox(c.Point(), metarSearchRadiusM)
	params := url.Values{}
	params.Set("format", "json")
	params.Set("bbox", fmt.Sprintf("%f,%f,%f,%f", box.MinLat, box.MinLon, box.MaxLat, box.MaxLon))

	var observations []metarObservation
	if err := p.client.FetchJSON(ctx, p.baseURL, params, &observations); err != nil {
		return normalize.ConditionsRecord{}, err
	}
	if len(observations) == 0 {
		return normalize.ConditionsRecord{}, fmt.Errorf("%w: no station near %s", provider.ErrNotFound, c.Key())
	}

	// nearest reporting station wins
	best := observations[0]
	bestDist := geo.Distance(c.Point(), geo.Point{Lat: best.Lat, Lon: best.Lon})
	for _, obs := range observations[1:] {
		d := geo.Distance(c.Point(), geo.Point{Lat: obs.Lat, Lon: obs.Lon})
		if d < bestDist {
			best, bestDist = obs, d
		}
	}
	return metarToRecord(best), nil
}

func (p *MetarProvider) StationConditions(ctx context.Context, stationID string) (normalize.ConditionsRecord, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("ids", strings.ToUpper(stationID))

	var observations []metarObservation
	if err := p.client.FetchJSON(ctx, p.baseURL, params, &observations); err != nil {
		return normalize.ConditionsRecord{}, err
	}
	if len(observations) == 0 {
		return normalize.ConditionsRecord{}, fmt.Errorf("%w: station %q", provider.ErrNotFound, stationID)
	}
	return metarToRecord(observations[0]), nil
}

// metarToRecord converts a METAR observation to canonical metric units:
// knots to m/s, statute miles to meters.
func metarToRecord(obs metarObservation) normalize.ConditionsRecord {
	rec := normalize.ConditionsRecord{
		Temperature: obs.Temp,
		DewPoint:    obs.DewPoint,
		Pressure:    obs.AltimHPa,
		WindDegree:  obs.WindDir,
		Station:     obs.StationID,
	}
	if obs.WindSpeedKt != nil {
		rec.WindSpeed = normalize.F(units.KnotsToMS(*obs.WindSpeedKt))
	}
	if obs.WindGustKt != nil {
		rec.WindGust = normalize.F(units.KnotsToMS(*obs.WindGustKt))
	}
	if obs.VisibMiles != nil {
		rec.Visibility = normalize.F(units.MilesToMeters(*obs.VisibMiles))
	}
	if cover := metarCloudiness(obs.CloudCover); cover != nil {
		rec.Cloudiness = cover
	}
	if obs.WxString != "" {
		rec.Icon, rec.Summary = normalize.TextCondition(obs.WxString, true)
	} else if rec.Cloudiness != nil {
		rec.Icon, rec.Summary = cloudinessCondition(*rec.Cloudiness)
	}
	return rec
}

// metarCloudiness converts METAR cover abbreviations to a percentage.
func metarCloudiness(cover string) *float64 {
	switch strings.ToUpper(cover) {
	case "CLR", "SKC", "CAVOK":
		return normalize.F(0)
	case "FEW":
		return normalize.F(20)
	case "SCT":
		return normalize.F(40)
	case "BKN":
		return normalize.F(75)
	case "OVC", "OVX":
		return normalize.F(100)
	default:
		return nil
	}
}

func cloudinessCondition(pct float64) (normalize.Icon, string) {
	switch {
	case pct <= 10:
		return normalize.IconClearDay, "Clear"
	case pct <= 60:
		return normalize.IconPartlyCloudyDay, "Partly Cloudy"
	default:
		return normalize.IconCloudy, "Cloudy"
	}
}
