package roster

import (
	"fmt"
	"strings"
)

// Completeness is the rule deciding whether an entity needs no further
// collection. It is deliberately explicit because the two definitions
// produce different target sequences: a roster where some players have
// appearances but no pitch rows yields a larger target set under
// CompleteWithPitches.
type Completeness int

const (
	// CompleteWithAppearances treats an entity as done once appearance
	// rows exist for it.
	CompleteWithAppearances Completeness = iota

	// CompleteWithPitches additionally requires pitch-event rows.
	CompleteWithPitches
)

// ParseCompleteness converts a config string to a Completeness rule.
func ParseCompleteness(s string) (Completeness, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "appearances":
		return CompleteWithAppearances, nil
	case "pitches":
		return CompleteWithPitches, nil
	default:
		return 0, fmt.Errorf("unknown completeness rule %q (want appearances or pitches)", s)
	}
}

// String returns the config spelling of the rule.
func (c Completeness) String() string {
	if c == CompleteWithPitches {
		return "pitches"
	}
	return "appearances"
}

// Targets computes the finite target sequence for one (season, role)
// partition: the role's roster entries minus those the store already
// reports complete. It is a pure function of its inputs and is recomputed
// fresh on every run, which doubles as crash recovery at entity
// granularity - an entity fully written before a crash is excluded on the
// next run.
func Targets(entries []Entry, role Role, done map[int]bool) []Entry {
	targets := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !e.MatchesRole(role) {
			continue
		}
		if done[e.PlayerID] {
			continue
		}
		targets = append(targets, e)
	}
	return targets
}
