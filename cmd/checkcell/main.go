package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/mapdata"
	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/proximity"
)

// Debug tool: shows how the degree grid sees a point. Prints the origin's
// cell, the near window, and the ten closest entities with whether each got
// an exact or cell-center distance.

var (
	lat      = flag.Float64("lat", 0, "Origin latitude (required)")
	lng      = flag.Float64("lng", 0, "Origin longitude (required)")
	cellSize = flag.Float64("cell-size", proximity.DefaultCellSize, "Grid cell size in degrees")
	window   = flag.Int("window", proximity.DefaultNearWindow, "Near window in cell rings")
)

func main() {
	godotenv.Load(".env.local")
	flag.Parse()

	origin := proximity.Point{Lat: *lat, Lng: *lng}
	if !origin.Valid() {
		log.Fatal("--lat and --lng are required and must be in range")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB connection error: %v", err)
	}

	ranker := proximity.Ranker{CellSize: *cellSize, NearWindow: *window}

	originCell := ranker.CellOf(origin)
	fmt.Printf("Origin (%.4f, %.4f) -> cell col=%d row=%d (%.1f° grid)\n",
		origin.Lat, origin.Lng, originCell.Col, originCell.Row, *cellSize)

	near := make(map[proximity.CellKey]struct{})
	fmt.Println("Near window (exact-distance cells):")
	for _, key := range ranker.Window(originCell) {
		near[key] = struct{}{}
		fmt.Printf("  col=%d row=%d\n", key.Col, key.Row)
	}

	var ahjs []mapdata.AHJ
	if err := db.Find(&ahjs).Error; err != nil {
		log.Fatalf("Query error: %v", err)
	}
	var utilities []mapdata.Utility
	if err := db.Find(&utilities).Error; err != nil {
		log.Fatalf("Query error: %v", err)
	}

	entities := make([]proximity.Entity, 0, len(ahjs)+len(utilities))
	for _, a := range ahjs {
		entities = append(entities, a.ToEntity())
	}
	for _, u := range utilities {
		entities = append(entities, u.ToEntity())
	}

	ranked := ranker.RankByProximity(&origin, entities)
	if len(ranked) > 10 {
		ranked = ranked[:10]
	}

	fmt.Printf("\nNearest %d of %d entities:\n", len(ranked), len(ahjs)+len(utilities))
	for _, e := range ranked {
		if !e.HasCoordinates() {
			fmt.Printf("  %-8s %-40s (no coordinates)\n", e.Kind, e.Name)
			continue
		}
		cell := ranker.CellOf(proximity.Point{Lat: e.Lat, Lng: e.Lng})
		mode := "cell-center"
		if _, ok := near[cell]; ok {
			mode = "exact"
		}
		fmt.Printf("  %-8s %-40s %8.1f mi  cell(%d,%d) %s\n",
			e.Kind, e.Name, e.DistanceMiles, cell.Col, cell.Row, mode)
	}
}
