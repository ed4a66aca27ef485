package supabaseprov

import "encoding/json"

// Row shapes for the shared Supabase tables. Location is a nested GeoJSON
// point written by the upstream import scripts; it may be null, malformed,
// or a zeroed point for rows that were never geocoded.

type ahjRow struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Classification string          `json:"classification"`
	County         string          `json:"county"`
	State          string          `json:"state"`
	Phone          string          `json:"phone"`
	Website        string          `json:"website"`
	PermitPortal   string          `json:"permit_portal"`
	CountiesServed []string        `json:"counties_served"`
	Requirements   []string        `json:"requirements"`
	TurnaroundDays int             `json:"turnaround_days"`
	Location       json.RawMessage `json:"location"`
}

type utilityRow struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Abbreviation       string          `json:"abbreviation"`
	State              string          `json:"state"`
	ServiceCounties    []string        `json:"service_counties"`
	NetMetering        bool            `json:"net_metering"`
	InterconnectionURL string          `json:"interconnection_url"`
	Phone              string          `json:"phone"`
	Location           json.RawMessage `json:"location"`
}
