package projects

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/proximity"
)

// Project is one sales project owned by a rep. Coordinates come from
// geocoding the address at create time; (0,0) means geocoding was
// unavailable and the project ranks last on the map.
type Project struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	UserID string    `gorm:"not null;index" json:"user_id"`

	Name    string `gorm:"not null" json:"name"`
	Address string `json:"address"`
	Status  string `gorm:"not null;default:'prospect'" json:"status"` // prospect, contracted, permitting, installed, unknown

	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`

	// Which jurisdiction/utility this install falls under, when known.
	AHJID     *uuid.UUID `gorm:"type:uuid" json:"ahj_id,omitempty"`
	UtilityID *uuid.UUID `gorm:"type:uuid" json:"utility_id,omitempty"`

	Tags  pq.StringArray `gorm:"type:text[]" json:"tags"`
	Notes string         `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Project) TableName() string {
	return "sales.projects"
}

// ProjectStatuses are the pipeline stages reps can file a project under.
var ProjectStatuses = []string{"prospect", "contracted", "permitting", "installed"}

// NormalizeStatus folds a raw status label onto the known set; anything
// unrecognized becomes "unknown" rather than an error.
func NormalizeStatus(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	for _, known := range ProjectStatuses {
		if s == known {
			return known
		}
	}
	return "unknown"
}

// ToEntity lifts a project into the proximity core's shape so it ranks on
// the same map as AHJs and utilities.
func (p Project) ToEntity() proximity.Entity {
	return proximity.Entity{
		ID:            p.ID.String(),
		Name:          p.Name,
		Kind:          proximity.KindProject,
		Lat:           p.Lat,
		Lng:           p.Lng,
		DistanceMiles: proximity.Unranked,
	}
}
