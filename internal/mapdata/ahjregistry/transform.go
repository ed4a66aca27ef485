package ahjregistry

import (
	"strings"

	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/mapdata/provider"
)

// levelToClassification maps registry level codes onto our classification
// labels. 040 is statewide, 050 county, 06x municipal, 16x special purpose.
func levelToClassification(code string) string {
	switch strings.TrimSpace(code) {
	case "040":
		return provider.NormalizeClassification("state")
	case "050":
		return provider.NormalizeClassification("county")
	case "060", "061", "062":
		return provider.NormalizeClassification("city")
	case "160", "161", "162", "163":
		return provider.NormalizeClassification("special_district")
	}
	return provider.NormalizeClassification(code)
}

// TransformToNormalized converts a RegistryAHJ to a NormalizedAHJ,
// flattening the vendor's Value envelopes. Missing or zeroed locations pass
// through as (0,0); downstream treats that as "no coordinates".
func TransformToNormalized(rec RegistryAHJ) provider.NormalizedAHJ {
	requirements := make([]string, 0, len(rec.DocumentSubmissionMethods))
	for _, m := range rec.DocumentSubmissionMethods {
		if v := strings.TrimSpace(m.Value); v != "" {
			requirements = append(requirements, v)
		}
	}
	if v := strings.TrimSpace(rec.BuildingCode.Value); v != "" {
		requirements = append(requirements, "building code "+v)
	}
	if v := strings.TrimSpace(rec.ElectricCode.Value); v != "" {
		requirements = append(requirements, "electric code "+v)
	}

	phone := ""
	website := strings.TrimSpace(rec.URL.Value)
	for _, contact := range rec.Contacts {
		if phone == "" {
			phone = strings.TrimSpace(contact.Phone.Value)
		}
		if website == "" {
			website = strings.TrimSpace(contact.URL.Value)
		}
	}

	county := strings.TrimSpace(rec.Address.County.Value)
	var countiesServed []string
	if county != "" {
		countiesServed = []string{county}
	}

	return provider.NormalizedAHJ{
		ExternalID:     strings.TrimSpace(rec.AHJID.Value),
		Name:           strings.TrimSpace(rec.AHJName.Value),
		Classification: levelToClassification(rec.AHJLevelCode.Value),
		County:         county,
		State:          strings.ToUpper(strings.TrimSpace(rec.Address.StateProvince.Value)),
		Lat:            rec.Address.Location.Latitude.Value,
		Lng:            rec.Address.Location.Longitude.Value,
		Phone:          phone,
		Website:        website,
		PermitPortal:   website,
		CountiesServed: countiesServed,
		Requirements:   requirements,
		TurnaroundDays: rec.EstimatedTurnaroundDays.Value,
		Source:         "ahjregistry",
	}
}

// TransformBatch converts a slice of registry records, dropping records with
// no name or external ID. Everything else passes through, coordinates or
// not.
func TransformBatch(records []RegistryAHJ) []provider.NormalizedAHJ {
	out := make([]provider.NormalizedAHJ, 0, len(records))
	for _, rec := range records {
		n := TransformToNormalized(rec)
		if n.ExternalID == "" || n.Name == "" {
			continue
		}
		out = append(out, n)
	}
	return out
}
