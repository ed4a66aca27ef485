package seeds

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm/clause"

	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/db"
	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/mapdata"
	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/mapdata/provider"
)

// DefaultFixturePath is where the checked-in starter data lives, relative
// to the repo root (CLIs run from there).
const DefaultFixturePath = "internal/seeds/data/entities.yaml"

// SeedAll loads the default fixture file into the mapdata tables. Existing
// rows with the same external ID are updated, so re-running is safe.
func SeedAll() error {
	return SeedFromFile(DefaultFixturePath)
}

// SeedFromFile seeds AHJs and utilities from one YAML fixture file.
func SeedFromFile(path string) error {
	fixtures, err := LoadFixtures(path)
	if err != nil {
		return err
	}

	now := time.Now()

	for _, f := range fixtures.AHJs {
		row := mapdata.AHJ{
			ExternalID:     f.ExternalID,
			Name:           f.Name,
			Classification: provider.NormalizeClassification(f.Classification),
			County:         f.County,
			State:          f.State,
			Lat:            f.Lat,
			Lng:            f.Lng,
			Phone:          f.Phone,
			Website:        f.Website,
			PermitPortal:   f.PermitPortal,
			CountiesServed: f.CountiesServed,
			Requirements:   f.Requirements,
			TurnaroundDays: f.TurnaroundDays,
			Source:         "seed",
			LastSynced:     now,
		}
		if err := db.DB.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "classification", "county", "state", "lat", "lng",
				"phone", "website", "permit_portal", "counties_served",
				"requirements", "turnaround_days", "last_synced",
			}),
		}).Create(&row).Error; err != nil {
			return fmt.Errorf("seed ahj %s: %w", f.ExternalID, err)
		}
	}

	for _, f := range fixtures.Utilities {
		row := mapdata.Utility{
			ExternalID:         f.ExternalID,
			Name:               f.Name,
			Abbreviation:       f.Abbreviation,
			State:              f.State,
			Lat:                f.Lat,
			Lng:                f.Lng,
			ServiceCounties:    f.ServiceCounties,
			NetMetering:        f.NetMetering,
			InterconnectionURL: f.InterconnectionURL,
			Phone:              f.Phone,
			Source:             "seed",
			LastSynced:         now,
		}
		if err := db.DB.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "abbreviation", "state", "lat", "lng",
				"service_counties", "net_metering", "interconnection_url",
				"phone", "last_synced",
			}),
		}).Create(&row).Error; err != nil {
			return fmt.Errorf("seed utility %s: %w", f.ExternalID, err)
		}
	}

	log.Printf("[SeedFromFile] seeded %d AHJs and %d utilities from %s",
		len(fixtures.AHJs), len(fixtures.Utilities), path)
	return nil
}
