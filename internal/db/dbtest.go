package db

import (
	"github.com/jmoiron/sqlx"
)

// InitTestDB opens an in-memory sqlite database and applies the migrations,
// so store and handler tests run without a postgres server.
func InitTestDB(migrationsPath string) (*sqlx.DB, error) {
	testDB, err := sqlx.Connect("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	testDB.SetMaxOpenConns(1)
	testDB.SetMaxIdleConns(1)

	if err := RunMigrations(testDB, migrationsPath); err != nil {
		testDB.Close()
		return nil, err
	}
	return testDB, nil
}
