package database

import (
	"fmt"

	"tunebox/internal/config"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OpenInMemory opens a private, migrated in-memory SQLite database. Each call gets its
// own database so tests do not share rows.
func OpenInMemory() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.New().String())
	db, err := Open(config.DriverSQLite, dsn)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
