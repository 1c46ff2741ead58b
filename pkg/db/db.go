// pkg/db/db.go
package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tunehound/tunehound/pkg/models"
)

// Open connects to Postgres and migrates the schema.
func Open(databaseURL string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := Migrate(gdb); err != nil {
		return nil, err
	}
	return gdb, nil
}

// Migrate creates or updates the tables the bot relies on.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(&models.User{}, &models.Song{}, &models.History{})
}
