package normalize

import "strings"

// countryByCode is the ISO 3166-1 alpha-2 lookup used for code/name
// cross-filling. Static reference data; loading richer tables is the host's
// concern.
var countryByCode = map[string]string{
	"ad": "Andorra", "ae": "United Arab Emirates", "af": "Afghanistan",
	"ar": "Argentina", "at": "Austria", "au": "Australia",
	"be": "Belgium", "bg": "Bulgaria", "br": "Brazil",
	"ca": "Canada", "ch": "Switzerland", "cl": "Chile",
	"cn": "China", "co": "Colombia", "cu": "Cuba",
	"cz": "Czechia", "de": "Germany", "dk": "Denmark",
	"ec": "Ecuador", "ee": "Estonia", "eg": "Egypt",
	"es": "Spain", "fi": "Finland", "fr": "France",
	"gb": "United Kingdom", "gr": "Greece", "hk": "Hong Kong",
	"hr": "Croatia", "hu": "Hungary", "id": "Indonesia",
	"ie": "Ireland", "il": "Israel", "in": "India",
	"is": "Iceland", "it": "Italy", "jp": "Japan",
	"ke": "Kenya", "kr": "South Korea", "lt": "Lithuania",
	"lu": "Luxembourg", "lv": "Latvia", "ma": "Morocco",
	"mx": "Mexico", "my": "Malaysia", "ng": "Nigeria",
	"nl": "Netherlands", "no": "Norway", "nz": "New Zealand",
	"pe": "Peru", "ph": "Philippines", "pk": "Pakistan",
	"pl": "Poland", "pt": "Portugal", "ro": "Romania",
	"rs": "Serbia", "ru": "Russia", "sa": "Saudi Arabia",
	"se": "Sweden", "sg": "Singapore", "si": "Slovenia",
	"sk": "Slovakia", "th": "Thailand", "tr": "Turkey",
	"tw": "Taiwan", "ua": "Ukraine", "us": "United States",
	"uy": "Uruguay", "vn": "Vietnam", "za": "South Africa",
}

// codeByCountry is the inverse lookup, built once at init.
var codeByCountry = func() map[string]string {
	m := make(map[string]string, len(countryByCode))
	for code, name := range countryByCode {
		m[strings.ToLower(name)] = code
	}
	// common aliases providers return
	m["usa"] = "us"
	m["united states of america"] = "us"
	m["uk"] = "gb"
	m["great britain"] = "gb"
	m["russian federation"] = "ru"
	m["republic of korea"] = "kr"
	m["the netherlands"] = "nl"
	return m
}()

// regionByCode maps ISO 3166-2 region codes to names, per country.
var regionByCode = map[string]map[string]string{
	"us": {
		"US-AL": "Alabama", "US-AK": "Alaska", "US-AZ": "Arizona",
		"US-AR": "Arkansas", "US-CA": "California", "US-CO": "Colorado",
		"US-CT": "Connecticut", "US-DC": "District of Columbia",
		"US-DE": "Delaware", "US-FL": "Florida", "US-GA": "Georgia",
		"US-HI": "Hawaii", "US-IA": "Iowa", "US-ID": "Idaho",
		"US-IL": "Illinois", "US-IN": "Indiana", "US-KS": "Kansas",
		"US-KY": "Kentucky", "US-LA": "Louisiana", "US-MA": "Massachusetts",
		"US-MD": "Maryland", "US-ME": "Maine", "US-MI": "Michigan",
		"US-MN": "Minnesota", "US-MO": "Missouri", "US-MS": "Mississippi",
		"US-MT": "Montana", "US-NC": "North Carolina", "US-ND": "North Dakota",
		"US-NE": "Nebraska", "US-NH": "New Hampshire", "US-NJ": "New Jersey",
		"US-NM": "New Mexico", "US-NV": "Nevada", "US-NY": "New York",
		"US-OH": "Ohio", "US-OK": "Oklahoma", "US-OR": "Oregon",
		"US-PA": "Pennsylvania", "US-RI": "Rhode Island",
		"US-SC": "South Carolina", "US-SD": "South Dakota",
		"US-TN": "Tennessee", "US-TX": "Texas", "US-UT": "Utah",
		"US-VA": "Virginia", "US-VT": "Vermont", "US-WA": "Washington",
		"US-WI": "Wisconsin", "US-WV": "West Virginia", "US-WY": "Wyoming",
	},
	"ca": {
		"CA-AB": "Alberta", "CA-BC": "British Columbia", "CA-MB": "Manitoba",
		"CA-NB": "New Brunswick", "CA-NL": "Newfoundland and Labrador",
		"CA-NS": "Nova Scotia", "CA-NT": "Northwest Territories",
		"CA-NU": "Nunavut", "CA-ON": "Ontario", "CA-PE": "Prince Edward Island",
		"CA-QC": "Quebec", "CA-SK": "Saskatchewan", "CA-YT": "Yukon",
	},
	"au": {
		"AU-ACT": "Australian Capital Territory", "AU-NSW": "New South Wales",
		"AU-NT": "Northern Territory", "AU-QLD": "Queensland",
		"AU-SA": "South Australia", "AU-TAS": "Tasmania",
		"AU-VIC": "Victoria", "AU-WA": "Western Australia",
	},
	"de": {
		"DE-BW": "Baden-Württemberg", "DE-BY": "Bayern", "DE-BE": "Berlin",
		"DE-BB": "Brandenburg", "DE-HB": "Bremen", "DE-HH": "Hamburg",
		"DE-HE": "Hessen", "DE-MV": "Mecklenburg-Vorpommern",
		"DE-NI": "Niedersachsen", "DE-NW": "Nordrhein-Westfalen",
		"DE-RP": "Rheinland-Pfalz", "DE-SL": "Saarland", "DE-SN": "Sachsen",
		"DE-ST": "Sachsen-Anhalt", "DE-SH": "Schleswig-Holstein",
		"DE-TH": "Thüringen",
	},
}

// CountryName returns the country name for an alpha-2 code, or "".
func CountryName(code string) string {
	return countryByCode[strings.ToLower(code)]
}

// CountryCode returns the alpha-2 code for a country name, or "".
func CountryCode(name string) string {
	if len(name) == 2 {
		if _, ok := countryByCode[strings.ToLower(name)]; ok {
			return strings.ToLower(name)
		}
	}
	return codeByCountry[strings.ToLower(name)]
}

// RegionName returns the region name for a full ISO 3166-2 code within a
// country, or "".
func RegionName(countryCode, regionCode string) string {
	table, ok := regionByCode[strings.ToLower(countryCode)]
	if !ok {
		return ""
	}
	return table[normalizeRegionCode(countryCode, regionCode)]
}

// RegionCode returns the ISO 3166-2 code for a region name within a country,
// or "".
func RegionCode(countryCode, regionName string) string {
	table, ok := regionByCode[strings.ToLower(countryCode)]
	if !ok {
		return ""
	}
	for code, name := range table {
		if strings.EqualFold(name, regionName) {
			return code
		}
	}
	return ""
}

// normalizeRegionCode accepts both "NY" and "US-NY" spellings.
func normalizeRegionCode(countryCode, regionCode string) string {
	rc := strings.ToUpper(regionCode)
	prefix := strings.ToUpper(countryCode) + "-"
	if !strings.HasPrefix(rc, prefix) {
		rc = prefix + rc
	}
	return rc
}

// CrossFillCountry fills whichever of country code/name is missing from the
// static ISO 3166-1 table.
func CrossFillCountry(a *AddressRecord) {
	if a.CountryCode == "" && a.CountryName != "" {
		a.CountryCode = CountryCode(a.CountryName)
	}
	if a.CountryName == "" && a.CountryCode != "" {
		a.CountryName = CountryName(a.CountryCode)
	}
	a.CountryCode = strings.ToLower(a.CountryCode)
}

// CrossFillRegion fills whichever of region code/name is missing from the
// per-country ISO 3166-2 table. Needs a country code to pick the table.
func CrossFillRegion(a *AddressRecord) {
	if a.CountryCode == "" {
		return
	}
	if a.RegionCode == "" && a.Region != "" {
		// providers frequently put the bare code in the name slot
		if name := RegionName(a.CountryCode, a.Region); name != "" {
			a.RegionCode = normalizeRegionCode(a.CountryCode, a.Region)
			a.Region = name
		} else {
			a.RegionCode = RegionCode(a.CountryCode, a.Region)
		}
	}
	if a.Region == "" && a.RegionCode != "" {
		a.Region = RegionName(a.CountryCode, a.RegionCode)
	}
	if a.RegionCode != "" {
		a.RegionCode = normalizeRegionCode(a.CountryCode, a.RegionCode)
	}
}
