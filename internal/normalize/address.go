// Package normalize converts heterogeneous provider payloads into the two
// canonical records the rest of the system consumes: an address record in the
// microformats2 key set and a metric conditions record with a closed field
// vocabulary.
package normalize

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/geofacts/geofacts/internal/geo"
)

// Visibility values an address record can carry.
const (
	VisibilityPublic    = "public"
	VisibilityProtected = "protected"
)

// AddressRecord is the canonical reverse-geocode result. Absent fields stay
// empty and are omitted from serialization, never stored as empty strings
// with meaning.
type AddressRecord struct {
	Name            string  `json:"name,omitempty"`
	StreetAddress   string  `json:"street-address,omitempty"`
	ExtendedAddress string  `json:"extended-address,omitempty"`
	Locality        string  `json:"locality,omitempty"`
	Region          string  `json:"region,omitempty"`
	RegionCode      string  `json:"region-code,omitempty"`
	CountryName     string  `json:"country-name,omitempty"`
	CountryCode     string  `json:"country-code,omitempty"`
	PostalCode      string  `json:"postal-code,omitempty"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	DisplayName     string  `json:"display-name,omitempty"`
	Visibility      string  `json:"visibility,omitempty"`

	// Raw keeps the provider payload, populated only in debug mode.
	Raw json.RawMessage `json:"raw,omitempty"`
}

// Finish cross-fills ISO codes and derives the display name against the
// host's home country. Providers call it as the last normalization step.
func (a *AddressRecord) Finish(homeCountry string) {
	CrossFillCountry(a)
	CrossFillRegion(a)
	a.DisplayName = a.ComputeDisplayName(homeCountry)
}

// ComputeDisplayName derives the display name deterministically: the first of
// name, street address or extended address, then locality, then region code
// (or region), then country code (or country name). The country part is
// suppressed when it matches the host's home country.
func (a AddressRecord) ComputeDisplayName(homeCountry string) string {
	var parts []string

	switch {
	case a.Name != "":
		parts = append(parts, a.Name)
	case a.StreetAddress != "":
		parts = append(parts, a.StreetAddress)
	case a.ExtendedAddress != "":
		parts = append(parts, a.ExtendedAddress)
	}

	if a.Locality != "" {
		parts = append(parts, a.Locality)
	}

	if a.RegionCode != "" {
		parts = append(parts, regionShortCode(a.RegionCode))
	} else if a.Region != "" {
		parts = append(parts, a.Region)
	}

	country := strings.ToUpper(a.CountryCode)
	if country == "" {
		country = a.CountryName
	}
	if country != "" && !isHomeCountry(a, homeCountry) {
		parts = append(parts, country)
	}

	return strings.Join(parts, ", ")
}

func isHomeCountry(a AddressRecord, home string) bool {
	if home == "" {
		return false
	}
	return strings.EqualFold(a.CountryCode, home) || strings.EqualFold(a.CountryName, home)
}

// regionShortCode strips the country prefix from an ISO 3166-2 code
// ("US-NY" -> "NY") for display.
func regionShortCode(code string) string {
	if i := strings.IndexByte(code, '-'); i >= 0 {
		return code[i+1:]
	}
	return code
}

// Candidate is one ranked reverse-geocode hit from a provider that returns
// multiple matches.
type Candidate struct {
	Record     AddressRecord
	Confidence float64
	// Layer classifies the hit; "venue" outranks "address" at equal
	// confidence.
	Layer string
	Point geo.Point
}

// LayerVenue and LayerAddress are the layers the default tie-break knows.
const (
	LayerVenue   = "venue"
	LayerAddress = "address"
)

// CandidatePolicy picks one candidate from a ranked list. Providers may
// substitute their own; SelectCandidate is the default.
type CandidatePolicy func(cands []Candidate, query geo.Point) (AddressRecord, error)

// SelectCandidate applies the default selection rule: strictly higher
// confidence wins; at equal confidence a venue layer beats an address layer;
// remaining ties go to the candidate closest to the query point.
func SelectCandidate(cands []Candidate, query geo.Point) (AddressRecord, error) {
	if len(cands) == 0 {
		return AddressRecord{}, fmt.Errorf("no geocode candidates")
	}
	best := cands[0]
	for _, c := range cands[1:] {
		if c.Confidence > best.Confidence {
			best = c
			continue
		}
		if c.Confidence < best.Confidence {
			continue
		}
		if c.Layer == LayerVenue && best.Layer != LayerVenue {
			best = c
			continue
		}
		if c.Layer != best.Layer {
			continue
		}
		if geo.Distance(c.Point, query) < geo.Distance(best.Point, query) {
			best = c
		}
	}
	return best.Record, nil
}

// FirstNonEmpty returns the first non-empty string, the field-precedence
// helper provider mappings are built from.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
