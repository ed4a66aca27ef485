package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/db"
	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/mapdata"
	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/seeds"
)

var fixtureFile = flag.String("file", seeds.DefaultFixturePath, "Path to the YAML fixture file")

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()

	db.Connect()
	mapdata.Init()

	if err := seeds.SeedFromFile(*fixtureFile); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}
}
