package ahjregistry

// The registry wraps every scalar in a {"Value": ...} envelope and nests
// location data three levels deep inside the address record. These types
// mirror the wire shape; nothing else in the codebase should touch them.

// StringValue is a vendor-wrapped string field.
type StringValue struct {
	Value string `json:"Value"`
}

// FloatValue is a vendor-wrapped number field.
type FloatValue struct {
	Value float64 `json:"Value"`
}

// IntValue is a vendor-wrapped integer field.
type IntValue struct {
	Value int `json:"Value"`
}

// RegistryAddress is the vendor address record. Location may be entirely
// absent, or present with zeroed coordinates, for jurisdictions the registry
// has not geocoded yet.
type RegistryAddress struct {
	AddrLine1     StringValue `json:"AddrLine1"`
	City          StringValue `json:"City"`
	County        StringValue `json:"County"`
	StateProvince StringValue `json:"StateProvince"`
	ZipPostalCode StringValue `json:"ZipPostalCode"`
	Location      struct {
		Latitude  FloatValue `json:"Latitude"`
		Longitude FloatValue `json:"Longitude"`
	} `json:"Location"`
}

// RegistryContact is one entry of the vendor's contact list.
type RegistryContact struct {
	Title StringValue `json:"Title"`
	Phone StringValue `json:"WorkPhone"`
	URL   StringValue `json:"URL"`
}

// RegistryAHJ is one jurisdiction record as the registry returns it.
type RegistryAHJ struct {
	AHJID                     StringValue       `json:"AHJID"`
	AHJName                   StringValue       `json:"AHJName"`
	AHJLevelCode              StringValue       `json:"AHJLevelCode"`
	Address                   RegistryAddress   `json:"Address"`
	URL                       StringValue       `json:"URL"`
	DocumentSubmissionMethods []StringValue     `json:"DocumentSubmissionMethods"`
	EstimatedTurnaroundDays   IntValue          `json:"EstimatedTurnaroundDays"`
	Contacts                  []RegistryContact `json:"Contacts"`
	BuildingCode              StringValue       `json:"BuildingCode"`
	ElectricCode              StringValue       `json:"ElectricCode"`
}

// RegistryResponse is the envelope around every list call.
type RegistryResponse struct {
	Response struct {
		Results struct {
			AHJList []RegistryAHJ `json:"ahjlist"`
		} `json:"results"`
		Count  int `json:"count"`
		Offset int `json:"offset"`
	} `json:"response"`
}
