package mapdata

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// AHJ is a permitting jurisdiction row. Coordinates are stored raw; (0,0)
// means the feed had no usable location for this jurisdiction.
type AHJ struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ExternalID     string    `json:"external_id" gorm:"uniqueIndex"`
	Name           string    `json:"name"`
	Classification string    `json:"classification"` // city | county | state | special_district | unknown
	County         string    `json:"county"`
	State          string    `json:"state" gorm:"index;size:2"`

	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`

	Phone          string         `json:"phone"`
	Website        string         `json:"website"`
	PermitPortal   string         `json:"permit_portal"`
	CountiesServed pq.StringArray `json:"counties_served" gorm:"type:text[]"`
	Requirements   pq.StringArray `json:"requirements" gorm:"type:text[]"`
	TurnaroundDays int            `json:"turnaround_days"`

	// Provenance / Syncing
	Source     string    `json:"source"` // "supabase" or "ahjregistry"
	LastSynced time.Time `json:"last_synced"`
}

// Utility is an electric utility row.
type Utility struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ExternalID   string    `json:"external_id" gorm:"uniqueIndex"`
	Name         string    `json:"name"`
	Abbreviation string    `json:"abbreviation"`
	State        string    `json:"state" gorm:"index;size:2"`

	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`

	ServiceCounties    pq.StringArray `json:"service_counties" gorm:"type:text[]"`
	NetMetering        bool           `json:"net_metering"`
	InterconnectionURL string         `json:"interconnection_url"`
	Phone              string         `json:"phone"`

	Source     string    `json:"source"`
	LastSynced time.Time `json:"last_synced"`
}

// SyncStamp records when a state's entities were last pulled from the feed.
type SyncStamp struct {
	State       string    `gorm:"primaryKey;size:2" json:"state"`
	LastFetched time.Time `json:"last_fetched"`
}

func (AHJ) TableName() string {
	return "mapdata.ahjs"
}

func (Utility) TableName() string {
	return "mapdata.utilities"
}

func (SyncStamp) TableName() string {
	return "mapdata.sync_stamps"
}
