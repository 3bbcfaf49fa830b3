package store

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/prospectlab/milb-ingest/pkg/extract"
	"github.com/prospectlab/milb-ingest/pkg/roster"
)

// Prometheus metrics for store writes.
var (
	rowsInsertedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "milb_rows_inserted_total",
		Help: "Rows inserted by table",
	}, []string{"table"})

	duplicatesSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "milb_duplicates_skipped_total",
		Help: "Appearance rows skipped by the natural-key conflict rule, by table",
	}, []string{"table"})
)

// appearanceKey is the natural key for appearance rows.
var appearanceKey = []clause.Column{
	{Name: "player_id"},
	{Name: "game_pk"},
	{Name: "season"},
}

// WriteSummary reports the outcome of one entity write.
type WriteSummary struct {
	Inserted          int
	SkippedDuplicates int
}

// WriteEntity persists all rows extracted for one entity in a single
// transaction: either every row is visible or none, so a crash cannot
// leave a partially-written entity that the enumerator would misclassify
// as complete. Appearance rows hitting the natural-key conflict are
// skipped silently; pitch rows are inserted plainly because entity-level
// re-entry exclusion is the deduplication layer for them.
func (s *Store) WriteEntity(ctx context.Context, role roster.Role, appearances []extract.Appearance, pitches []extract.PitchEvent) (WriteSummary, error) {
	var summary WriteSummary

	if len(appearances) == 0 && len(pitches) == 0 {
		return summary, nil
	}

	appTbl := appearanceTable(role)
	pitchTbl := pitchTable(role)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(appearances) > 0 {
			res := tx.Table(appTbl).
				Clauses(clause.OnConflict{Columns: appearanceKey, DoNothing: true}).
				Create(&appearances)
			if res.Error != nil {
				return fmt.Errorf("insert appearances: %w", res.Error)
			}
			summary.Inserted = int(res.RowsAffected)
			summary.SkippedDuplicates = len(appearances) - int(res.RowsAffected)
		}

		if len(pitches) > 0 {
			res := tx.Table(pitchTbl).Create(&pitches)
			if res.Error != nil {
				return fmt.Errorf("insert pitch events: %w", res.Error)
			}
		}

		return nil
	})
	if err != nil {
		return WriteSummary{}, err
	}

	rowsInsertedTotal.WithLabelValues(appTbl).Add(float64(summary.Inserted))
	rowsInsertedTotal.WithLabelValues(pitchTbl).Add(float64(len(pitches)))
	duplicatesSkippedTotal.WithLabelValues(appTbl).Add(float64(summary.SkippedDuplicates))

	s.logger.Debug().
		Str("table", appTbl).
		Int("inserted", summary.Inserted).
		Int("skipped_duplicates", summary.SkippedDuplicates).
		Int("pitch_events", len(pitches)).
		Msg("Entity written")

	return summary, nil
}

// CompletePlayers returns the set of player IDs that already satisfy the
// completeness rule for a (season, role) partition. The enumerator
// subtracts this set from the roster to get the run's target sequence.
func (s *Store) CompletePlayers(ctx context.Context, season int, role roster.Role, rule roster.Completeness) (map[int]bool, error) {
	var withAppearances []int
	err := s.db.WithContext(ctx).
		Table(appearanceTable(role)).
		Where("season = ?", season).
		Distinct().
		Pluck("player_id", &withAppearances).Error
	if err != nil {
		return nil, fmt.Errorf("query players with appearances: %w", err)
	}

	done := make(map[int]bool, len(withAppearances))
	for _, id := range withAppearances {
		done[id] = true
	}

	if rule == roster.CompleteWithPitches {
		var withPitches []int
		err := s.db.WithContext(ctx).
			Table(pitchTable(role)).
			Where("season = ?", season).
			Distinct().
			Pluck("player_id", &withPitches).Error
		if err != nil {
			return nil, fmt.Errorf("query players with pitches: %w", err)
		}

		pitchSet := make(map[int]bool, len(withPitches))
		for _, id := range withPitches {
			pitchSet[id] = true
		}
		for id := range done {
			if !pitchSet[id] {
				delete(done, id)
			}
		}
	}

	return done, nil
}

// SeasonCounts summarizes a (season, role) partition for the final run
// report: games retrieved, pitch events stored, and pitch events carrying
// at least one measurement value. Null-measurement pitches count toward
// the second figure but not the third.
func (s *Store) SeasonCounts(ctx context.Context, season int, role roster.Role) (games, pitchEvents, measured int64, err error) {
	db := s.db.WithContext(ctx)

	if err = db.Table(appearanceTable(role)).
		Where("season = ?", season).
		Count(&games).Error; err != nil {
		return 0, 0, 0, fmt.Errorf("count appearances: %w", err)
	}

	if err = db.Table(pitchTable(role)).
		Where("season = ?", season).
		Count(&pitchEvents).Error; err != nil {
		return 0, 0, 0, fmt.Errorf("count pitch events: %w", err)
	}

	if err = db.Table(pitchTable(role)).
		Where("season = ?", season).
		Where("pitch_type IS NOT NULL OR velocity IS NOT NULL OR plate_x IS NOT NULL OR plate_z IS NOT NULL").
		Count(&measured).Error; err != nil {
		return 0, 0, 0, fmt.Errorf("count measured pitch events: %w", err)
	}

	return games, pitchEvents, measured, nil
}
