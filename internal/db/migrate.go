package db

import (
	"errors"
	"fmt"

	"github.com/diewo77/go-crm/internal/models"
	"gorm.io/gorm"
)

// Models lists every table managed by Migrate.
func Models() []any {
	return []any{
		&models.Client{},
		&models.Article{},
		&models.Document{},
		&models.DocumentCounter{},
	}
}

// Migrate runs AutoMigrate for every model and checks the core tables exist.
func Migrate(db *gorm.DB) error {
	for _, m := range Models() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	for _, table := range []string{"clients", "articles", "documents", "document_counters"} {
		if !db.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}
