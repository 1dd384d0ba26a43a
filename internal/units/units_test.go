package units

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestTemperatureRoundTrip(t *testing.T) {
	for _, c := range []float64{-40, 0, 37.5, 100} {
		got := FahrenheitToCelsius(CelsiusToFahrenheit(c))
		if !almostEqual(got, c) {
			t.Errorf("round trip for %v°C yielded %v", c, got)
		}
	}
	if !almostEqual(CelsiusToFahrenheit(-40), -40) {
		t.Error("-40 should be identical in both scales")
	}
	if !almostEqual(KelvinToCelsius(273.15), 0) {
		t.Error("273.15K should be 0°C")
	}
}

func TestPressure(t *testing.T) {
	// Standard atmosphere: 29.92 inHg ≈ 1013.2 hPa.
	got := InHgToHPa(29.92)
	if math.Abs(got-1013.2) > 0.5 {
		t.Errorf("InHgToHPa(29.92) = %v, want ≈1013.2", got)
	}
	if !almostEqual(HPaToInHg(InHgToHPa(30)), 30) {
		t.Error("pressure round trip failed")
	}
}

func TestSpeed(t *testing.T) {
	if !almostEqual(MPHToMS(1), 0.44704) {
		t.Errorf("MPHToMS(1) = %v", MPHToMS(1))
	}
	if !almostEqual(KMHToMS(3.6), 1) {
		t.Errorf("KMHToMS(3.6) = %v", KMHToMS(3.6))
	}
	if !almostEqual(MSToMPH(MPHToMS(60)), 60) {
		t.Error("speed round trip failed")
	}
}

func TestDistance(t *testing.T) {
	if !almostEqual(FeetToMeters(1), 0.3048) {
		t.Errorf("FeetToMeters(1) = %v", FeetToMeters(1))
	}
	if !almostEqual(MilesToMeters(1), 1609.344) {
		t.Errorf("MilesToMeters(1) = %v", MilesToMeters(1))
	}
	if !almostEqual(InchesToMM(1), 25.4) {
		t.Errorf("InchesToMM(1) = %v", InchesToMM(1))
	}
}
