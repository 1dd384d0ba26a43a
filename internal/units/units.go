// Package units provides pure unit conversions between the canonical metric
// units used internally (°C, hPa, m/s, mm, m) and the display/imperial units
// some providers report in.
package units

// System identifies a measurement system for presentation.
type System string

const (
	Metric   System = "metric"
	Imperial System = "imperial"
)

// CelsiusToFahrenheit converts °C to °F.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// FahrenheitToCelsius converts °F to °C.
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

// KelvinToCelsius converts K to °C.
func KelvinToCelsius(k float64) float64 {
	return k - 273.15
}

// InHgToHPa converts inches of mercury to hectopascals.
func InHgToHPa(inhg float64) float64 {
	return inhg * 33.8639
}

// HPaToInHg converts hectopascals to inches of mercury.
func HPaToInHg(hpa float64) float64 {
	return hpa / 33.8639
}

// MmHgToHPa converts millimeters of mercury to hectopascals.
func MmHgToHPa(mmhg float64) float64 {
	return mmhg * 1.33322
}

// MPHToMS converts miles per hour to meters per second.
func MPHToMS(mph float64) float64 {
	return mph * 0.44704
}

// KMHToMS converts kilometers per hour to meters per second.
func KMHToMS(kmh float64) float64 {
	return kmh / 3.6
}

// KnotsToMS converts knots to meters per second.
func KnotsToMS(kn float64) float64 {
	return kn * 0.514444
}

// MSToMPH converts meters per second to miles per hour.
func MSToMPH(ms float64) float64 {
	return ms / 0.44704
}

// InchesToMM converts inches to millimeters.
func InchesToMM(in float64) float64 {
	return in * 25.4
}

// MMToInches converts millimeters to inches.
func MMToInches(mm float64) float64 {
	return mm / 25.4
}

// FeetToMeters converts feet to meters.
func FeetToMeters(ft float64) float64 {
	return ft * 0.3048
}

// MetersToFeet converts meters to feet.
func MetersToFeet(m float64) float64 {
	return m / 0.3048
}

// MilesToMeters converts statute miles to meters.
func MilesToMeters(mi float64) float64 {
	return mi * 1609.344
}

// MetersToMiles converts meters to statute miles.
func MetersToMiles(m float64) float64 {
	return m / 1609.344
}
