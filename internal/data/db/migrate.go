package db

import (
	"fmt"

	types "github.com/yungbote/blueprints-backend/internal/domain"
	"gorm.io/gorm"
)

// AutoMigrateAll creates or updates every table, unique index, and FK constraint.
func AutoMigrateAll(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("auto migrate: nil db")
	}
	if err := db.AutoMigrate(types.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
