package db

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

const (
	maxConnectRetries = 10
	connectRetryWait  = 2 * time.Second
)

// driverFor picks the sql driver from the URL shape: postgres URLs go to
// lib/pq, anything else is treated as a sqlite path (":memory:" included).
func driverFor(databaseURL string) string {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return "postgres"
	}
	return "sqlite"
}

// Init opens the database connection, retrying while the server comes up.
func Init(databaseURL string) (*sqlx.DB, error) {
	driver := driverFor(databaseURL)

	var db *sqlx.DB
	var err error
	for attempt := 1; attempt <= maxConnectRetries; attempt++ {
		db, err = sqlx.Connect(driver, databaseURL)
		if err == nil {
			if driver == "sqlite" {
				// sqlite wants a single writer
				db.SetMaxOpenConns(1)
				db.SetMaxIdleConns(1)
			}
			log.Info().Str("driver", driver).Msg("connected to database")
			return db, nil
		}

		log.Error().Err(err).
			Int("attempt", attempt).
			Msgf("failed to connect to database, retrying in %s", connectRetryWait)

		time.Sleep(connectRetryWait)
	}

	return nil, fmt.Errorf("could not connect to database after %d attempts: %w", maxConnectRetries, err)
}

// RunMigrations finds all "*.up.sql" files in migrationsPath (sorted by name)
// and executes their SQL contents in order. "*.down.sql" files are ignored.
func RunMigrations(db *sqlx.DB, migrationsPath string) error {
	pattern := filepath.Join(migrationsPath, "*.up.sql")
	files, err := filepath.Glob(pattern)
	if err != nil {
		log.Error().Msg("failed to list up migrations")
		return fmt.Errorf("failed to glob migrations: %w", err)
	}
	if len(files) == 0 {
		// nothing to do
		return nil
	}

	// sort file names so that they run in deterministic order
	sort.Strings(files)

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			log.Error().Msg("failed to read migration file")
			return fmt.Errorf("could not read migration %q: %w", file, err)
		}
		sqlStmt := string(sqlBytes)
		if sqlStmt == "" {
			continue
		}
		if _, err := db.Exec(sqlStmt); err != nil {
			return fmt.Errorf("error executing migration %q: %w", file, err)
		}
	}
	return nil
}
