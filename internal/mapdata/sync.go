package mapdata

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm/clause"

	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/db"
)

// SyncState pulls every AHJ and utility for a state from the active feed and
// upserts them. Callers hold the "sync-<state>" advisory lock so concurrent
// requests for the same stale state don't all hit the vendor.
func SyncState(ctx context.Context, state string) error {
	if Provider == nil {
		return fmt.Errorf("no entity provider configured")
	}

	syncStart := time.Now()
	log.Printf("[SyncState] state=%s provider=%s starting", state, Provider.Name())

	ahjs, err := Provider.FetchAHJs(ctx, state)
	if err != nil {
		return fmt.Errorf("provider fetch ahjs: %w", err)
	}
	log.Printf("[SyncState] state=%s fetched %d AHJs", state, len(ahjs))

	for _, n := range ahjs {
		row := ahjFromNormalized(n, syncStart)
		if err := db.DB.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "classification", "county", "state", "lat", "lng",
				"phone", "website", "permit_portal", "counties_served",
				"requirements", "turnaround_days", "source", "last_synced",
			}),
		}).Create(&row).Error; err != nil {
			log.Printf("[SyncState] upsert error for ahj %s: %v", n.ExternalID, err)
		}
	}

	utilities, err := Provider.FetchUtilities(ctx, state)
	if err != nil {
		return fmt.Errorf("provider fetch utilities: %w", err)
	}
	log.Printf("[SyncState] state=%s fetched %d utilities", state, len(utilities))

	for _, n := range utilities {
		row := utilityFromNormalized(n, syncStart)
		if err := db.DB.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "abbreviation", "state", "lat", "lng",
				"service_counties", "net_metering", "interconnection_url",
				"phone", "source", "last_synced",
			}),
		}).Create(&row).Error; err != nil {
			log.Printf("[SyncState] upsert error for utility %s: %v", n.ExternalID, err)
		}
	}

	// Stamp the state so readers know how fresh this data is.
	if err := db.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "state"}},
		DoUpdates: clause.Assignments(map[string]any{"last_fetched": syncStart}),
	}).Create(&SyncStamp{State: state, LastFetched: syncStart}).Error; err != nil {
		return fmt.Errorf("update sync stamp: %w", err)
	}

	log.Printf("[SyncState] state=%s completed in %dms", state, time.Since(syncStart).Milliseconds())
	return nil
}

// startBackgroundSync kicks off SyncState in a goroutine if nobody else is
// already syncing the state. Returns true when a sync was started.
func startBackgroundSync(ctx context.Context, state string) bool {
	if Provider == nil {
		return false
	}
	if !tryAcquireLock(ctx, "sync-"+state) {
		return false
	}
	go func() {
		defer releaseLock(context.Background(), "sync-"+state)
		if err := SyncState(context.Background(), state); err != nil {
			log.Printf("[SyncState] state=%s err=%v", state, err)
		}
	}()
	return true
}
