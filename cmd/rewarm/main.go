package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var state = flag.String("state", "", "2-letter state whose sync stamp to clear (required)")

func main() {
	godotenv.Load(".env.local")
	flag.Parse()

	s := strings.ToUpper(strings.TrimSpace(*state))
	if len(s) != 2 {
		log.Fatal("--state must be a 2-letter code, e.g. --state UT")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB connection error: %v", err)
	}

	// Delete the sync stamp so the next request refetches from the feed
	result := db.Exec("DELETE FROM mapdata.sync_stamps WHERE state = ?", s)
	if result.Error != nil {
		log.Fatalf("Error deleting sync stamp: %v", result.Error)
	}

	fmt.Printf("✓ Cleared sync stamp for %s (affected rows: %d)\n", s, result.RowsAffected)
	fmt.Printf("\nNext request for %s will trigger a fresh provider sync.\n", s)
	fmt.Printf("Try: http://localhost:5050/mapdata/ahjs?state=%s\n", s)
}
