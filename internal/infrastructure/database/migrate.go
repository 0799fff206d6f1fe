package database

import (
	"fmt"

	"disasterconnect-http-service/internal/domain/models"
	Logger "disasterconnect-http-service/internal/infrastructure/logger"

	"gorm.io/gorm"
)

// Migration modes accepted by DB_MIGRATION_MODE
const (
	MigrationModeAuto = "auto"
	MigrationModeDrop = "drop"
)

// Models lists every table in creation order. Children follow their parents.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Admin{},
		&models.Report{},
		&models.Donation{},
	}
}

// Migrate brings the schema up to date. In drop mode every table is dropped
// and recreated first.
func Migrate(db *gorm.DB, mode string) error {
	if mode == MigrationModeDrop {
		Logger.Warning("running in drop mode, all tables will be dropped and recreated")
		if err := DropTables(db); err != nil {
			return err
		}
	}
	return AutoMigrate(db)
}

// AutoMigrate adds missing tables and columns without touching existing ones
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	Logger.Info("database migration completed")
	return nil
}

// DropTables drops all tables, children first
func DropTables(db *gorm.DB) error {
	tables := Models()
	for i := len(tables) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(tables[i]); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return nil
}
