// Package roster models the prospect population and computes the target
// sequence of entities for a collection run.
package roster

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// Role partitions the roster into the two collection populations.
type Role string

const (
	// RolePitcher covers entries whose position tag is in the pitching set.
	RolePitcher Role = "pitcher"

	// RoleBatter covers every other entry.
	RoleBatter Role = "batter"
)

// pitchingPositions is the fixed set of position tags collected as pitchers.
// Every tag outside this set is a batter, so the split is exhaustive.
var pitchingPositions = map[string]bool{
	"P":       true,
	"SP":      true,
	"RP":      true,
	"RHP":     true,
	"LHP":     true,
	"PITCHER": true,
}

// ParseRole converts an operator-supplied role string.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pitcher", "pitchers":
		return RolePitcher, nil
	case "batter", "batters":
		return RoleBatter, nil
	default:
		return "", fmt.Errorf("unknown role %q (want pitcher or batter)", s)
	}
}

// Entry is one prospect on the season roster.
type Entry struct {
	PlayerID int    `json:"playerId"`
	Name     string `json:"fullName"`
	Position string `json:"position"`
	Team     string `json:"team"`
	Level    string `json:"level"`
}

// Role returns the collection role for this entry, determined solely by its
// position tag against the pitching set.
func (e Entry) Role() Role {
	if pitchingPositions[strings.ToUpper(strings.TrimSpace(e.Position))] {
		return RolePitcher
	}
	return RoleBatter
}

// MatchesRole reports whether the entry belongs to the given population.
func (e Entry) MatchesRole(role Role) bool {
	return e.Role() == role
}

// prospectsPayload is the provider's roster response shape.
type prospectsPayload struct {
	Season    int     `json:"season"`
	Prospects []Entry `json:"prospects"`
}

// Parse decodes a raw prospect roster payload.
func Parse(data []byte) ([]Entry, error) {
	var payload prospectsPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode prospects payload: %w", err)
	}
	return payload.Prospects, nil
}
