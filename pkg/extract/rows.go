package extract

import "time"

// Appearance is one player's participation record for one game. Rows are
// unique per (player_id, game_pk, season); the store enforces this with a
// natural-key conflict rule.
type Appearance struct {
	ID       uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	PlayerID int    `gorm:"column:player_id;not null"`
	GamePk   int    `gorm:"column:game_pk;not null"`
	Season   int    `gorm:"column:season;not null"`

	GameDate string `gorm:"column:game_date;type:text;not null"`
	Level    string `gorm:"column:level;type:text;not null"`
	Team     string `gorm:"column:team;type:text"`
	Opponent string `gorm:"column:opponent;type:text"`
	Home     bool   `gorm:"column:is_home;not null;default:0"`
	GameType string `gorm:"column:game_type;type:text"`

	InningsPitched *float64 `gorm:"column:innings_pitched"`
	Hits           int      `gorm:"column:hits;not null;default:0"`
	Runs           int      `gorm:"column:runs;not null;default:0"`
	Walks          int      `gorm:"column:walks;not null;default:0"`
	Strikeouts     int      `gorm:"column:strikeouts;not null;default:0"`
	PitchCount     int      `gorm:"column:pitch_count;not null;default:0"`

	Decision *string `gorm:"column:decision;type:text"`

	LastModified time.Time `gorm:"column:last_modified;autoUpdateTime"`
}

// PitchEvent is one pitch within an appearance. All measurement fields are
// nullable: absence of measurement is a legitimate state that downstream
// consumers read as a data-quality signal, never an error. No stable
// per-pitch identifier exists upstream, so deduplication is handled at the
// entity level by the enumerator, not per row.
type PitchEvent struct {
	ID       uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	PlayerID int    `gorm:"column:player_id;not null"`
	GamePk   int    `gorm:"column:game_pk;not null"`
	Season   int    `gorm:"column:season;not null"`

	Inning      int `gorm:"column:inning;not null;default:0"`
	PitchNumber int `gorm:"column:pitch_number;not null;default:0"`

	PitchType *string  `gorm:"column:pitch_type;type:text"`
	Velocity  *float64 `gorm:"column:velocity"`
	PlateX    *float64 `gorm:"column:plate_x"`
	PlateZ    *float64 `gorm:"column:plate_z"`
	Call      *string  `gorm:"column:call;type:text"`

	LastModified time.Time `gorm:"column:last_modified;autoUpdateTime"`
}

// HasMeasurement reports whether the pitch carries any measurement values.
// Null-measurement pitches count toward games retrieved but not toward
// pitches with usable measurement.
func (p PitchEvent) HasMeasurement() bool {
	return p.PitchType != nil || p.Velocity != nil || p.PlateX != nil || p.PlateZ != nil
}
