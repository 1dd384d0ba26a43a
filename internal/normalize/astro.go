package normalize

import (
	"math"
	"time"
)

// Astronomy carries the sun/moon facts derived for a coordinate and instant.
type Astronomy struct {
	Sunrise  *time.Time
	Sunset   *time.Time
	Moonrise *time.Time
	Moonset  *time.Time
	Day      bool
}

const (
	j2000           = 2451545.0
	synodicMonth    = 29.530588853
	moonLagPerDay   = 48.76 // minutes the moon lags the sun per day of age
	newMoonEpochJD  = 2451550.1
	earthObliquity  = 23.4397
	sunriseAltitude = -0.833
)

// ApplyAstronomy fills the derived astronomical fields of a conditions
// record for the given coordinate and instant. Sun times follow the NOAA
// sunrise equation; moon times are a low-precision lag approximation and are
// documented as such. Polar day/night leaves rise/set unset.
func ApplyAstronomy(r *ConditionsRecord, lat, lon float64, now time.Time) {
	a := ComputeAstronomy(lat, lon, now)
	r.Sunrise = a.Sunrise
	r.Sunset = a.Sunset
	r.Moonrise = a.Moonrise
	r.Moonset = a.Moonset
	day := a.Day
	r.Day = &day

	loc := time.UTC
	if r.Timezone != "" {
		if l, err := time.LoadLocation(r.Timezone); err == nil {
			loc = l
		}
	}
	local := now.In(loc)
	r.LocalTime = &local
}

// ComputeAstronomy computes sun and moon rise/set for one coordinate and day.
func ComputeAstronomy(lat, lon float64, now time.Time) Astronomy {
	var a Astronomy

	rise, set, ok := sunTimes(lat, lon, now)
	if ok {
		a.Sunrise = &rise
		a.Sunset = &set
		a.Day = now.After(rise) && now.Before(set)
	} else {
		// Polar regions: fall back to solar altitude for the day flag.
		a.Day = solarAltitude(lat, lon, now) > 0
	}

	age := moonAge(now)
	lag := time.Duration(age*moonLagPerDay) * time.Minute
	if a.Sunrise != nil {
		mr := a.Sunrise.Add(lag)
		a.Moonrise = &mr
	}
	if a.Sunset != nil {
		ms := a.Sunset.Add(lag)
		a.Moonset = &ms
	}

	return a
}

// sunTimes solves the sunrise equation for the civil day containing now.
// ok is false during polar day or night.
func sunTimes(lat, lon float64, now time.Time) (rise, set time.Time, ok bool) {
	jd := julianDay(now)
	n := math.Round(jd - j2000 + 0.0008)

	meanNoon := n - lon/360
	m := mod360(357.5291 + 0.98560028*meanNoon)
	c := 1.9148*sinDeg(m) + 0.02*sinDeg(2*m) + 0.0003*sinDeg(3*m)
	λ := mod360(m + c + 180 + 102.9372)

	jTransit := j2000 + meanNoon + 0.0053*sinDeg(m) - 0.0069*sinDeg(2*λ)
	sinDecl := sinDeg(λ) * sinDeg(earthObliquity)
	cosDecl := math.Cos(math.Asin(sinDecl))

	cosHA := (sinDeg(sunriseAltitude) - sinDeg(lat)*sinDecl) / (cosDeg(lat) * cosDecl)
	if cosHA < -1 || cosHA > 1 {
		return time.Time{}, time.Time{}, false
	}
	ha := math.Acos(cosHA) * 180 / math.Pi

	rise = fromJulianDay(jTransit - ha/360)
	set = fromJulianDay(jTransit + ha/360)
	return rise, set, true
}

// solarAltitude returns the sun's altitude in degrees, used only for the
// day/night flag when the sunrise equation has no solution.
func solarAltitude(lat, lon float64, now time.Time) float64 {
	jd := julianDay(now)
	d := jd - j2000
	m := mod360(357.5291 + 0.98560028*d)
	c := 1.9148*sinDeg(m) + 0.02*sinDeg(2*m)
	λ := mod360(m + c + 180 + 102.9372)
	sinDecl := sinDeg(λ) * sinDeg(earthObliquity)
	decl := math.Asin(sinDecl) * 180 / math.Pi

	// hour angle from UTC time and longitude
	hours := float64(now.UTC().Hour()) + float64(now.UTC().Minute())/60
	ha := (hours-12)*15 + lon

	alt := math.Asin(sinDeg(lat)*sinDeg(decl)+cosDeg(lat)*cosDeg(decl)*cosDeg(ha)) * 180 / math.Pi
	return alt
}

// moonAge returns days since new moon, 0..synodicMonth.
func moonAge(now time.Time) float64 {
	age := math.Mod(julianDay(now)-newMoonEpochJD, synodicMonth)
	if age < 0 {
		age += synodicMonth
	}
	return age
}

// MoonPhase returns the illuminated fraction of the moon, 0 (new) to 1 (full).
func MoonPhase(now time.Time) float64 {
	return (1 - math.Cos(2*math.Pi*moonAge(now)/synodicMonth)) / 2
}

func julianDay(t time.Time) float64 {
	return float64(t.UTC().UnixNano())/86400e9 + 2440587.5
}

func fromJulianDay(jd float64) time.Time {
	secs := (jd - 2440587.5) * 86400
	return time.Unix(int64(secs), 0).UTC()
}

func sinDeg(d float64) float64 { return math.Sin(d * math.Pi / 180) }
func cosDeg(d float64) float64 { return math.Cos(d * math.Pi / 180) }

func mod360(d float64) float64 {
	m := math.Mod(d, 360)
	if m < 0 {
		m += 360
	}
	return m
}
