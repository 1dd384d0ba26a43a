package normalize

import "strings"

// Icon is one entry of the closed icon vocabulary.
type Icon string

const (
	IconClearDay          Icon = "clear-day"
	IconClearNight        Icon = "clear-night"
	IconPartlyCloudyDay   Icon = "partly-cloudy-day"
	IconPartlyCloudyNight Icon = "partly-cloudy-night"
	IconCloudy            Icon = "cloudy"
	IconFog               Icon = "fog"
	IconDrizzle           Icon = "drizzle"
	IconRain              Icon = "rain"
	IconSleet             Icon = "sleet"
	IconSnow              Icon = "snow"
	IconHail              Icon = "hail"
	IconThunderstorm      Icon = "thunderstorm"
	IconWind              Icon = "wind"
	IconTornado           Icon = "tornado"
)

// owmCondition maps OpenWeatherMap condition IDs to the canonical icon and
// summary. The mapping is total over the inputs we handle; anything else
// normalizes to the empty icon and summary rather than failing.
func owmCondition(id int, day bool) (Icon, string) {
	switch {
	case id >= 200 && id < 300:
		return IconThunderstorm, "Thunderstorm"
	case id >= 300 && id < 400:
		return IconDrizzle, "Drizzle"
	case id >= 500 && id < 505:
		return IconRain, "Rain"
	case id == 511:
		return IconSleet, "Freezing Rain"
	case id >= 520 && id < 600:
		return IconRain, "Showers"
	case id >= 611 && id <= 616:
		return IconSleet, "Sleet"
	case id >= 600 && id < 700:
		return IconSnow, "Snow"
	case id == 741:
		return IconFog, "Fog"
	case id >= 700 && id < 770:
		return IconFog, "Haze"
	case id == 771:
		return IconWind, "Squalls"
	case id == 781:
		return IconTornado, "Tornado"
	case id == 800:
		return dayNight(IconClearDay, IconClearNight, day), "Clear"
	case id == 801 || id == 802:
		return dayNight(IconPartlyCloudyDay, IconPartlyCloudyNight, day), "Partly Cloudy"
	case id == 803 || id == 804:
		return IconCloudy, "Cloudy"
	default:
		return "", ""
	}
}

// wmoCondition maps WMO weather codes (Open-Meteo) to the canonical icon and
// summary. Unmapped codes normalize to empty values.
func wmoCondition(code int, day bool) (Icon, string) {
	switch {
	case code == 0:
		return dayNight(IconClearDay, IconClearNight, day), "Clear"
	case code == 1 || code == 2:
		return dayNight(IconPartlyCloudyDay, IconPartlyCloudyNight, day), "Partly Cloudy"
	case code == 3:
		return IconCloudy, "Cloudy"
	case code == 45 || code == 48:
		return IconFog, "Fog"
	case code >= 51 && code <= 57:
		return IconDrizzle, "Drizzle"
	case code >= 61 && code <= 65:
		return IconRain, "Rain"
	case code == 66 || code == 67:
		return IconSleet, "Freezing Rain"
	case code >= 71 && code <= 77:
		return IconSnow, "Snow"
	case code >= 80 && code <= 82:
		return IconRain, "Showers"
	case code == 85 || code == 86:
		return IconSnow, "Snow Showers"
	case code == 95:
		return IconThunderstorm, "Thunderstorm"
	case code == 96 || code == 99:
		return IconHail, "Thunderstorm with Hail"
	default:
		return "", ""
	}
}

func dayNight(day, night Icon, isDay bool) Icon {
	if isDay {
		return day
	}
	return night
}

// textCondition maps a free-text provider condition to the canonical icon and
// summary, for providers without numeric codes. Unmatched text normalizes to
// empty values.
func textCondition(text string, day bool) (Icon, string) {
	s := strings.ToLower(text)
	switch {
	case hasAny(s, "thunder", "t-storm", "tstorm"):
		return IconThunderstorm, "Thunderstorm"
	case hasAny(s, "hail"):
		return IconHail, "Hail"
	case hasAny(s, "sleet", "freezing rain", "ice pellets"):
		return IconSleet, "Sleet"
	case hasAny(s, "snow", "flurr", "blizzard"):
		return IconSnow, "Snow"
	case hasAny(s, "drizzle"):
		return IconDrizzle, "Drizzle"
	case hasAny(s, "rain", "shower"):
		return IconRain, "Rain"
	case hasAny(s, "fog", "mist", "haze", "smoke"):
		return IconFog, "Fog"
	case hasAny(s, "wind", "squall", "breez"):
		return IconWind, "Windy"
	case hasAny(s, "overcast"):
		return IconCloudy, "Cloudy"
	case hasAny(s, "partly"):
		return dayNight(IconPartlyCloudyDay, IconPartlyCloudyNight, day), "Partly Cloudy"
	case hasAny(s, "cloud"):
		return IconCloudy, "Cloudy"
	case hasAny(s, "clear", "sunny", "fair"):
		return dayNight(IconClearDay, IconClearNight, day), "Clear"
	default:
		return "", ""
	}
}

// hasAny reports whether s contains any of the substrings.
func hasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// OWMCondition and WMOCondition expose the mapping tables to providers.
func OWMCondition(id int, day bool) (Icon, string)   { return owmCondition(id, day) }
func WMOCondition(code int, day bool) (Icon, string) { return wmoCondition(code, day) }

// TextCondition exposes the free-text mapping to providers.
func TextCondition(text string, day bool) (Icon, string) { return textCondition(text, day) }
