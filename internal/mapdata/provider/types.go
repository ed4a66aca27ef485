package provider

import "strings"

// NormalizedAHJ represents a permitting jurisdiction from any feed in a
// common shape. This is the intermediate representation between vendor
// payloads, which nest location and contact data arbitrarily deep, and our
// database models. Coordinates stay raw here: a feed that sent (0,0) or an
// out-of-range pair still normalizes, and downstream treats the location as
// absent.
type NormalizedAHJ struct {
	// Unique ID from the source system (stored as string for API flexibility)
	ExternalID string `json:"external_id"`

	Name           string `json:"name"`
	Classification string `json:"classification"` // city | county | state | special_district | unknown
	County         string `json:"county"`
	State          string `json:"state"`

	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`

	// Contact and process info
	Phone          string   `json:"phone"`
	Website        string   `json:"website"`
	PermitPortal   string   `json:"permit_portal"`
	CountiesServed []string `json:"counties_served"`
	Requirements   []string `json:"requirements"` // e.g. "stamped plans", "site survey"
	TurnaroundDays int      `json:"turnaround_days"`

	// Source tracking
	Source string `json:"source"` // "supabase" or "ahjregistry"
}

// NormalizedUtility represents an electric utility from any feed.
type NormalizedUtility struct {
	ExternalID string `json:"external_id"`

	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	State        string `json:"state"`

	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`

	ServiceCounties    []string `json:"service_counties"`
	NetMetering        bool     `json:"net_metering"`
	InterconnectionURL string   `json:"interconnection_url"`
	Phone              string   `json:"phone"`

	Source string `json:"source"`
}

// AHJClassifications are the jurisdiction levels we recognize. Feeds use
// wildly different labels; NormalizeClassification folds them onto this set.
var AHJClassifications = []string{"city", "county", "state", "special_district"}

// NormalizeClassification maps a raw feed label onto a known classification.
// Unrecognized labels become "unknown" rather than an error.
func NormalizeClassification(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "city", "town", "township", "village", "municipality", "borough":
		return "city"
	case "county", "parish":
		return "county"
	case "state":
		return "state"
	case "special_district", "special district", "district":
		return "special_district"
	}
	return "unknown"
}
