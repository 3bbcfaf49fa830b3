// Package extract decodes the provider's nested game-log payloads and turns
// them into appearance and pitch-event rows for the store.
package extract

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// GameLogPage is one page of a player's season game log.
type GameLogPage struct {
	PlayerID   int         `json:"playerId"`
	Season     int         `json:"season"`
	Page       int         `json:"page"`
	TotalPages int         `json:"totalPages"`
	Games      []GameEntry `json:"games"`
}

// GameEntry is one game's participation record with its nested plays.
type GameEntry struct {
	GamePk   int     `json:"gamePk"`
	Date     string  `json:"date"`
	Level    string  `json:"level"`
	Team     string  `json:"team"`
	Opponent string  `json:"opponent"`
	Home     bool    `json:"isHome"`
	GameType string  `json:"gameType"`
	Decision *string `json:"decision"`

	Stat  GameStat `json:"stat"`
	Plays []Play   `json:"plays"`
}

// GameStat carries the aggregate counting statistics for one game.
// InningsPitched is a pointer because batter game logs legitimately omit it.
type GameStat struct {
	InningsPitched  *float64 `json:"inningsPitched"`
	Hits            int      `json:"hits"`
	Runs            int      `json:"runs"`
	BaseOnBalls     int      `json:"baseOnBalls"`
	StrikeOuts      int      `json:"strikeOuts"`
	NumberOfPitches int      `json:"numberOfPitches"`
}

// Play is one pitch within a game. Details may be entirely absent: many
// minor-league parks had no measurement system for parts of the covered
// seasons, and a structurally-present pitch with no measurements is still
// a valid record.
type Play struct {
	PitcherID   int           `json:"pitcherId"`
	BatterID    int           `json:"batterId"`
	Inning      int           `json:"inning"`
	PitchNumber int           `json:"pitchNumber"`
	Details     *PitchDetails `json:"details"`
}

// PitchDetails holds the per-pitch measurements. Every field is optional.
type PitchDetails struct {
	Type       *string  `json:"type"`
	StartSpeed *float64 `json:"startSpeed"`
	PlateX     *float64 `json:"plateX"`
	PlateZ     *float64 `json:"plateZ"`
	Call       *string  `json:"call"`
}

// PlayerSeason is a player's full season game log, merged across pages.
type PlayerSeason struct {
	PlayerID int
	Season   int
	Games    []GameEntry
}

// DecodePage decodes one raw game-log page body.
func DecodePage(data []byte) (*GameLogPage, error) {
	var page GameLogPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return &page, nil
}

// MergePages decodes raw page bodies into one PlayerSeason.
func MergePages(pages [][]byte, playerID, season int) (*PlayerSeason, error) {
	ps := &PlayerSeason{
		PlayerID: playerID,
		Season:   season,
	}
	for i, raw := range pages {
		page, err := DecodePage(raw)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		ps.Games = append(ps.Games, page.Games...)
	}
	return ps, nil
}
