package db

import "gorm.io/gorm"

// EnsureSchema creates a feature's Postgres schema if missing. Each feature
// calls this from Init before AutoMigrate (mapdata, sales, app_auth).
func EnsureSchema(d *gorm.DB, schema string) error {
	return d.Exec(`CREATE SCHEMA IF NOT EXISTS "` + schema + `"`).Error
}
