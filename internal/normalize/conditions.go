package normalize

import (
	"math"
	"time"

	"github.com/geofacts/geofacts/internal/units"
)

// ConditionsRecord is the canonical weather observation. Every numeric field
// is metric (°C, hPa, m/s, mm, m, µg/m³, ppm) regardless of provider source
// units; conversion to a display system happens only at presentation time.
// Nil means the provider did not report the field; values are never defaulted
// to zero.
type ConditionsRecord struct {
	Temperature *float64 `json:"temperature,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
	HeatIndex   *float64 `json:"heatindex,omitempty"`
	WindChill   *float64 `json:"windchill,omitempty"`
	DewPoint    *float64 `json:"dewpoint,omitempty"`
	Pressure    *float64 `json:"pressure,omitempty"`
	Cloudiness  *float64 `json:"cloudiness,omitempty"`
	Rain        *float64 `json:"rain,omitempty"`
	Snow        *float64 `json:"snow,omitempty"`
	Visibility  *float64 `json:"visibility,omitempty"`
	Radiation   *float64 `json:"radiation,omitempty"`
	Illuminance *float64 `json:"illuminance,omitempty"`
	UV          *float64 `json:"uv,omitempty"`
	AQI         *float64 `json:"aqi,omitempty"`
	PM1_0       *float64 `json:"pm1_0,omitempty"`
	PM2_5       *float64 `json:"pm2_5,omitempty"`
	PM10_0      *float64 `json:"pm10_0,omitempty"`
	CO          *float64 `json:"co,omitempty"`
	CO2         *float64 `json:"co2,omitempty"`
	NH3         *float64 `json:"nh3,omitempty"`
	O3          *float64 `json:"o3,omitempty"`
	Pb          *float64 `json:"pb,omitempty"`
	SO2         *float64 `json:"so2,omitempty"`
	WindSpeed   *float64 `json:"windspeed,omitempty"`
	WindDegree  *float64 `json:"winddegree,omitempty"`
	WindGust    *float64 `json:"windgust,omitempty"`

	Summary string `json:"summary,omitempty"`
	Icon    Icon   `json:"icon,omitempty"`

	// Station is set when the observation came from a fixed station.
	Station string `json:"station,omitempty"`

	// Timezone is the IANA zone at the observed location, when known.
	Timezone string `json:"timezone,omitempty"`

	// Derived astronomical fields, computed independently of the provider.
	Sunrise   *time.Time `json:"sunrise,omitempty"`
	Sunset    *time.Time `json:"sunset,omitempty"`
	Moonrise  *time.Time `json:"moonrise,omitempty"`
	Moonset   *time.Time `json:"moonset,omitempty"`
	Day       *bool      `json:"day,omitempty"`
	LocalTime *time.Time `json:"localtime,omitempty"`
}

// F wraps a value for an optional field.
func F(v float64) *float64 { return &v }

// round1 keeps derived values at one decimal.
func round1(v float64) float64 { return math.Round(v*10) / 10 }

// FillDerived computes heat index, wind chill and dew point when the provider
// did not report them and the inputs are available.
func (r *ConditionsRecord) FillDerived() {
	if r.Temperature == nil {
		return
	}
	t := *r.Temperature
	if r.DewPoint == nil && r.Humidity != nil {
		r.DewPoint = F(round1(dewPoint(t, *r.Humidity)))
	}
	if r.HeatIndex == nil && r.Humidity != nil && t >= 27 {
		r.HeatIndex = F(round1(heatIndex(t, *r.Humidity)))
	}
	if r.WindChill == nil && r.WindSpeed != nil && t <= 10 && *r.WindSpeed > 1.3 {
		r.WindChill = F(round1(windChill(t, *r.WindSpeed)))
	}
}

// dewPoint uses the Magnus approximation. t in °C, rh in percent.
func dewPoint(t, rh float64) float64 {
	const a, b = 17.625, 243.04
	γ := math.Log(rh/100) + a*t/(b+t)
	return b * γ / (a - γ)
}

// heatIndex is the Rothfusz regression, converted to run in °C.
func heatIndex(t, rh float64) float64 {
	tf := units.CelsiusToFahrenheit(t)
	hi := -42.379 + 2.04901523*tf + 10.14333127*rh -
		0.22475541*tf*rh - 0.00683783*tf*tf - 0.05481717*rh*rh +
		0.00122874*tf*tf*rh + 0.00085282*tf*rh*rh - 0.00000199*tf*tf*rh*rh
	return units.FahrenheitToCelsius(hi)
}

// windChill is the North American wind chill index. t in °C, wind in m/s.
func windChill(t, wind float64) float64 {
	kmh := wind * 3.6
	v := math.Pow(kmh, 0.16)
	return 13.12 + 0.6215*t - 11.37*v + 0.3965*t*v
}

// ForDisplay returns a copy with the fields a display layer shows converted
// to the requested system. The canonical record itself stays metric.
func (r ConditionsRecord) ForDisplay(sys units.System) ConditionsRecord {
	if sys != units.Imperial {
		return r
	}
	out := r
	conv := func(p *float64, f func(float64) float64) *float64 {
		if p == nil {
			return nil
		}
		return F(round1(f(*p)))
	}
	out.Temperature = conv(r.Temperature, units.CelsiusToFahrenheit)
	out.HeatIndex = conv(r.HeatIndex, units.CelsiusToFahrenheit)
	out.WindChill = conv(r.WindChill, units.CelsiusToFahrenheit)
	out.DewPoint = conv(r.DewPoint, units.CelsiusToFahrenheit)
	out.Pressure = conv(r.Pressure, units.HPaToInHg)
	out.WindSpeed = conv(r.WindSpeed, units.MSToMPH)
	out.WindGust = conv(r.WindGust, units.MSToMPH)
	out.Visibility = conv(r.Visibility, units.MetersToMiles)
	out.Rain = conv(r.Rain, units.MMToInches)
	out.Snow = conv(r.Snow, units.MMToInches)
	return out
}
