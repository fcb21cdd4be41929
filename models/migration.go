package models

import "gorm.io/gorm"

// MigrateTables creates/updates the schema. Called from main() and from
// operational tools after connecting.
func MigrateTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&Supply{},
		&Delivery{},
		&Release{},
		&SupplyUnit{},
		&Classification{},
	)
}
