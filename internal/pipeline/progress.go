package pipeline

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/prospectlab/milb-ingest/internal/store"
	"github.com/prospectlab/milb-ingest/pkg/roster"
)

// Summary is the final report for one collection run over one
// (season, role) partition.
type Summary struct {
	RunID  string
	Season int
	Role   roster.Role

	Target    int
	Processed int
	Succeeded int
	Failed    int

	// NoData counts entities the provider had no records for. Genuine
	// upstream absence is not a pipeline failure and is reported
	// separately so operators are not alarmed by it.
	NoData int

	Inserted          int
	SkippedDuplicates int
	PitchEvents       int

	Duration time.Duration
}

// tracker accumulates run counters and emits a progress line every
// reportEvery processed entities. It never alters control flow.
type tracker struct {
	runID  string
	total  int
	every  int
	start  time.Time
	logger zerolog.Logger

	processed atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
	noData    atomic.Int64

	inserted    atomic.Int64
	skipped     atomic.Int64
	pitchEvents atomic.Int64
}

func newTracker(runID string, total, every int, logger zerolog.Logger) *tracker {
	return &tracker{
		runID:  runID,
		total:  total,
		every:  every,
		start:  time.Now(),
		logger: logger,
	}
}

func (t *tracker) success(ws store.WriteSummary, pitchEvents int) {
	t.succeeded.Add(1)
	t.inserted.Add(int64(ws.Inserted))
	t.skipped.Add(int64(ws.SkippedDuplicates))
	t.pitchEvents.Add(int64(pitchEvents))
	t.bump()
}

func (t *tracker) failure() {
	t.failed.Add(1)
	t.bump()
}

func (t *tracker) noUpstreamData() {
	t.noData.Add(1)
	t.bump()
}

func (t *tracker) bump() {
	processed := t.processed.Add(1)
	if t.every > 0 && processed%int64(t.every) == 0 {
		t.report(processed)
	}
}

func (t *tracker) report(processed int64) {
	succeeded := t.succeeded.Load()
	rate := float64(0)
	if processed > 0 {
		rate = float64(succeeded) / float64(processed) * 100
	}

	t.logger.Info().
		Str("run_id", t.runID).
		Int64("processed", processed).
		Int("total", t.total).
		Int64("succeeded", succeeded).
		Int64("failed", t.failed.Load()).
		Int64("no_data", t.noData.Load()).
		Float64("success_rate_pct", rate).
		Msg("Collection progress")
}

func (t *tracker) summary(season int, role roster.Role) *Summary {
	return &Summary{
		RunID:             t.runID,
		Season:            season,
		Role:              role,
		Target:            t.total,
		Processed:         int(t.processed.Load()),
		Succeeded:         int(t.succeeded.Load()),
		Failed:            int(t.failed.Load()),
		NoData:            int(t.noData.Load()),
		Inserted:          int(t.inserted.Load()),
		SkippedDuplicates: int(t.skipped.Load()),
		PitchEvents:       int(t.pitchEvents.Load()),
		Duration:          time.Since(t.start),
	}
}
