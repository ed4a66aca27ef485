package mapdata

import (
	"log"

	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/db"
	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/geoip"
	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/mapdata/provider"

	// Import providers to register them via init()
	_ "github.com/lahvjal/aveyo-ahj-planner-sub001/internal/mapdata/ahjregistry"
	_ "github.com/lahvjal/aveyo-ahj-planner-sub001/internal/mapdata/supabaseprov"
)

// Provider is the active map-entity feed.
// It is initialized in Init() based on environment configuration.
var Provider provider.EntityProvider

// IPResolver supplies a coarse fallback origin from the client IP when the
// device didn't share its location. Nil when no GeoIP database is
// configured.
var IPResolver *geoip.Resolver

func Init() {
	// Ensure the mapdata schema exists
	if err := db.EnsureSchema(db.DB, "mapdata"); err != nil {
		log.Fatal("Failed to ensure schema mapdata: ", err)
	}

	if err := db.DB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Fatal("Failed to enable uuid-ossp extension:", err)
	}

	if err := db.DB.AutoMigrate(
		&AHJ{},
		&Utility{},
		&SyncStamp{},
	); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}

	// Initialize the map-entity feed
	cfg := provider.LoadFromEnv()
	var err error
	Provider, err = provider.NewProvider(cfg)
	if err != nil {
		log.Printf("[mapdata] WARNING: Failed to initialize %s provider: %v", cfg.Provider, err)
		log.Printf("[mapdata] Feed syncing will be disabled")
		Provider = nil
	} else {
		log.Printf("[mapdata] Initialized %s provider", Provider.Name())
	}

	IPResolver, err = geoip.Open()
	if err != nil {
		log.Printf("[mapdata] WARNING: GeoIP disabled: %v", err)
		IPResolver = nil
	} else if IPResolver == nil {
		log.Printf("[mapdata] GeoIP database not configured; IP fallback origin disabled")
	}
}
