package ahjregistry

import "testing"

func sampleRecord() RegistryAHJ {
	var rec RegistryAHJ
	rec.AHJID.Value = "AHJ-00412"
	rec.AHJName.Value = " Provo City "
	rec.AHJLevelCode.Value = "061"
	rec.Address.County.Value = "Utah"
	rec.Address.StateProvince.Value = "ut"
	rec.Address.Location.Latitude.Value = 40.2338
	rec.Address.Location.Longitude.Value = -111.6585
	rec.URL.Value = "https://www.provo.org/departments/development-services"
	rec.DocumentSubmissionMethods = []StringValue{{Value: "SolarApp"}, {Value: "Email"}, {Value: " "}}
	rec.EstimatedTurnaroundDays.Value = 14
	rec.BuildingCode.Value = "2021IBC"
	rec.Contacts = []RegistryContact{{
		Phone: StringValue{Value: "801-852-6400"},
	}}
	return rec
}

// TestTransformToNormalized_FlattensEnvelopes verifies Value wrappers and
// the nested location unwrap into the flat normalized shape.
func TestTransformToNormalized_FlattensEnvelopes(t *testing.T) {
	n := TransformToNormalized(sampleRecord())

	if n.ExternalID != "AHJ-00412" {
		t.Errorf("ExternalID = %q", n.ExternalID)
	}
	if n.Name != "Provo City" {
		t.Errorf("Name = %q, want trimmed Provo City", n.Name)
	}
	if n.Classification != "city" {
		t.Errorf("Classification = %q, want city (level 061)", n.Classification)
	}
	if n.State != "UT" {
		t.Errorf("State = %q, want upper-cased UT", n.State)
	}
	if n.Lat != 40.2338 || n.Lng != -111.6585 {
		t.Errorf("location = (%v, %v)", n.Lat, n.Lng)
	}
	if n.Phone != "801-852-6400" {
		t.Errorf("Phone = %q", n.Phone)
	}
	if len(n.CountiesServed) != 1 || n.CountiesServed[0] != "Utah" {
		t.Errorf("CountiesServed = %v", n.CountiesServed)
	}
	// SolarApp + Email + building code; the blank method is dropped.
	if len(n.Requirements) != 3 {
		t.Errorf("Requirements = %v, want 3 entries", n.Requirements)
	}
	if n.TurnaroundDays != 14 {
		t.Errorf("TurnaroundDays = %d", n.TurnaroundDays)
	}
	if n.Source != "ahjregistry" {
		t.Errorf("Source = %q", n.Source)
	}
}

// TestTransformToNormalized_MissingLocation verifies ungeocodeded records
// pass through with zeroed coordinates instead of failing.
func TestTransformToNormalized_MissingLocation(t *testing.T) {
	rec := sampleRecord()
	rec.Address.Location.Latitude.Value = 0
	rec.Address.Location.Longitude.Value = 0

	n := TransformToNormalized(rec)
	if n.Lat != 0 || n.Lng != 0 {
		t.Errorf("location = (%v, %v), want zero sentinel passthrough", n.Lat, n.Lng)
	}
}

// TestTransformBatch_DropsAnonymousRecords verifies records without an ID
// or name are skipped while everything else survives.
func TestTransformBatch_DropsAnonymousRecords(t *testing.T) {
	good := sampleRecord()
	noID := sampleRecord()
	noID.AHJID.Value = ""
	noName := sampleRecord()
	noName.AHJName.Value = "  "

	out := TransformBatch([]RegistryAHJ{good, noID, noName})
	if len(out) != 1 {
		t.Fatalf("got %d normalized records, want 1", len(out))
	}
	if out[0].ExternalID != "AHJ-00412" {
		t.Errorf("survivor = %q", out[0].ExternalID)
	}
}

// TestLevelToClassification covers the registry code table and the fallback
// through NormalizeClassification.
func TestLevelToClassification(t *testing.T) {
	cases := map[string]string{
		"040":    "state",
		"050":    "county",
		"061":    "city",
		"162":    "special_district",
		"city":   "city",
		"099":    "unknown",
		"":       "unknown",
	}
	for code, want := range cases {
		if got := levelToClassification(code); got != want {
			t.Errorf("levelToClassification(%q) = %q, want %q", code, got, want)
		}
	}
}
