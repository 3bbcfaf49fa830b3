package store

import "fmt"

// Table DDL is explicit rather than auto-migrated: the appearance tables
// need a composite unique index for the natural-key conflict rule, and
// SQLite index names are database-global, so each table carries its own
// index names. Statements are kept separate because the driver executes
// one statement per Exec.

const appearanceTableDDL = `
CREATE TABLE IF NOT EXISTS %[1]s (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	player_id       INTEGER NOT NULL,
	game_pk         INTEGER NOT NULL,
	season          INTEGER NOT NULL,
	game_date       TEXT    NOT NULL,
	level           TEXT    NOT NULL,
	team            TEXT,
	opponent        TEXT,
	is_home         INTEGER NOT NULL DEFAULT 0,
	game_type       TEXT,
	innings_pitched REAL,
	hits            INTEGER NOT NULL DEFAULT 0,
	runs            INTEGER NOT NULL DEFAULT 0,
	walks           INTEGER NOT NULL DEFAULT 0,
	strikeouts      INTEGER NOT NULL DEFAULT 0,
	pitch_count     INTEGER NOT NULL DEFAULT 0,
	decision        TEXT,
	last_modified   DATETIME
)`

var appearanceIndexDDL = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_%[1]s_player_game_season ON %[1]s (player_id, game_pk, season)`,
	`CREATE INDEX IF NOT EXISTS ix_%[1]s_player_season ON %[1]s (player_id, season)`,
	`CREATE INDEX IF NOT EXISTS ix_%[1]s_season_level ON %[1]s (season, level)`,
}

const pitchTableDDL = `
CREATE TABLE IF NOT EXISTS %[1]s (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	player_id     INTEGER NOT NULL,
	game_pk       INTEGER NOT NULL,
	season        INTEGER NOT NULL,
	inning        INTEGER NOT NULL DEFAULT 0,
	pitch_number  INTEGER NOT NULL DEFAULT 0,
	pitch_type    TEXT,
	velocity      REAL,
	plate_x       REAL,
	plate_z       REAL,
	call          TEXT,
	last_modified DATETIME
)`

var pitchIndexDDL = []string{
	`CREATE INDEX IF NOT EXISTS ix_%[1]s_player_season ON %[1]s (player_id, season)`,
	`CREATE INDEX IF NOT EXISTS ix_%[1]s_season ON %[1]s (season)`,
}

// schemaStatements returns the DDL for all four role tables, one statement
// per element.
func schemaStatements() []string {
	var stmts []string
	for _, tbl := range []string{"pitcher_appearances", "batter_appearances"} {
		stmts = append(stmts, fmt.Sprintf(appearanceTableDDL, tbl))
		for _, idx := range appearanceIndexDDL {
			stmts = append(stmts, fmt.Sprintf(idx, tbl))
		}
	}
	for _, tbl := range []string{"pitcher_pitches", "batter_pitches"} {
		stmts = append(stmts, fmt.Sprintf(pitchTableDDL, tbl))
		for _, idx := range pitchIndexDDL {
			stmts = append(stmts, fmt.Sprintf(idx, tbl))
		}
	}
	return stmts
}
