package projects

import (
	"log"

	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/db"
	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/geocode"
)

// Geocoder converts project addresses into coordinates on create/update.
// Nil when GOOGLE_MAPS_API_KEY is unset; projects then stay at (0,0).
var Geocoder *geocode.Geocoder

func Init() {
	// Ensure the sales schema exists
	if err := db.EnsureSchema(db.DB, "sales"); err != nil {
		log.Fatal("Failed to ensure schema sales: ", err)
	}

	if err := db.DB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Fatal("Failed to enable uuid-ossp extension:", err)
	}

	if err := db.DB.AutoMigrate(&Project{}); err != nil {
		log.Fatal("Failed to auto-migrate sales tables: ", err)
	}

	var err error
	Geocoder, err = geocode.NewGeocoder()
	if err != nil {
		log.Printf("[projects] WARNING: geocoder init failed: %v", err)
		Geocoder = nil
	} else if Geocoder == nil {
		log.Printf("[projects] GOOGLE_MAPS_API_KEY not set; address geocoding disabled")
	}
}
