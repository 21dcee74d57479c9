package repository

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewSQLiteDB opens (or creates) the deployment database at path and
// migrates the schema. Use ":memory:" for tests.
func NewSQLiteDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Deployment{}, &Transition{}); err != nil {
		return nil, err
	}
	return db, nil
}
