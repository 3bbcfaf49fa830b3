// Package store owns the relational tables for collected appearance and
// pitch-event rows. The pipeline is the sole writer; analytics consumers
// are read-only.
package store

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/prospectlab/milb-ingest/pkg/roster"
)

// Store wraps the relational database handle.
type Store struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// Open opens (creating if needed) the SQLite database at path and ensures
// the role tables exist.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	for _, stmt := range schemaStatements() {
		if err := db.Exec(stmt).Error; err != nil {
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}

	logger := log.With().Str("component", "store").Logger()
	logger.Debug().Str("path", path).Msg("Database opened")

	return &Store{
		db:     db,
		logger: logger,
	}, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	return sqlDB.Close()
}

// appearanceTable maps a role to its appearance table name.
func appearanceTable(role roster.Role) string {
	if role == roster.RolePitcher {
		return "pitcher_appearances"
	}
	return "batter_appearances"
}

// pitchTable maps a role to its pitch-event table name.
func pitchTable(role roster.Role) string {
	if role == roster.RolePitcher {
		return "pitcher_pitches"
	}
	return "batter_pitches"
}
