package extract

import (
	"errors"
	"fmt"

	"github.com/prospectlab/milb-ingest/pkg/roster"
)

// ErrMalformedPayload indicates the provider returned a structurally
// unusable payload. This is a permanent per-entity failure.
var ErrMalformedPayload = errors.New("malformed payload")

// Extract turns a player's merged season game log into appearance and
// pitch-event rows. One appearance per game; pitch events only for plays
// where the player acted in the requested role. Plays with absent
// measurement details are extracted with null fields, not dropped.
func Extract(ps *PlayerSeason, role roster.Role) ([]Appearance, []PitchEvent, error) {
	if ps == nil {
		return nil, nil, fmt.Errorf("%w: nil player season", ErrMalformedPayload)
	}

	appearances := make([]Appearance, 0, len(ps.Games))
	var pitches []PitchEvent

	for i, game := range ps.Games {
		if game.GamePk == 0 || game.Date == "" {
			return nil, nil, fmt.Errorf("%w: game %d missing gamePk or date", ErrMalformedPayload, i)
		}

		appearances = append(appearances, Appearance{
			PlayerID:       ps.PlayerID,
			GamePk:         game.GamePk,
			Season:         ps.Season,
			GameDate:       game.Date,
			Level:          game.Level,
			Team:           game.Team,
			Opponent:       game.Opponent,
			Home:           game.Home,
			GameType:       game.GameType,
			InningsPitched: game.Stat.InningsPitched,
			Hits:           game.Stat.Hits,
			Runs:           game.Stat.Runs,
			Walks:          game.Stat.BaseOnBalls,
			Strikeouts:     game.Stat.StrikeOuts,
			PitchCount:     game.Stat.NumberOfPitches,
			Decision:       game.Decision,
		})

		for _, play := range game.Plays {
			if !playerActedInRole(play, ps.PlayerID, role) {
				continue
			}

			event := PitchEvent{
				PlayerID:    ps.PlayerID,
				GamePk:      game.GamePk,
				Season:      ps.Season,
				Inning:      play.Inning,
				PitchNumber: play.PitchNumber,
			}
			if d := play.Details; d != nil {
				event.PitchType = d.Type
				event.Velocity = d.StartSpeed
				event.PlateX = d.PlateX
				event.PlateZ = d.PlateZ
				event.Call = d.Call
			}
			pitches = append(pitches, event)
		}
	}

	return appearances, pitches, nil
}

// playerActedInRole reports whether the player was the measured actor of
// the play for the requested role.
func playerActedInRole(play Play, playerID int, role roster.Role) bool {
	switch role {
	case roster.RolePitcher:
		return play.PitcherID == playerID
	case roster.RoleBatter:
		return play.BatterID == playerID
	default:
		return false
	}
}
