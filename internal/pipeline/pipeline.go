// Package pipeline orchestrates one collection run: enumerate missing
// entities for a (season, role) partition, fetch and extract each one
// through a bounded worker pool, and write rows idempotently.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/prospectlab/milb-ingest/internal/store"
	"github.com/prospectlab/milb-ingest/pkg/extract"
	"github.com/prospectlab/milb-ingest/pkg/roster"
	"github.com/prospectlab/milb-ingest/pkg/statsapi"
)

// Prometheus metrics for entity processing.
var entitiesProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "milb_entities_processed_total",
	Help: "Entities processed by role and outcome",
}, []string{"role", "outcome"})

// Config holds pipeline configuration.
type Config struct {
	// Workers bounds concurrent entity processing. It should not exceed
	// the API client's connection-pool ceiling.
	Workers int

	// ProgressEvery emits a progress line every N processed entities.
	ProgressEvery int
}

// DefaultConfig returns safe pipeline defaults.
func DefaultConfig() Config {
	return Config{
		Workers:       5,
		ProgressEvery: 25,
	}
}

// Pipeline wires the API client and store into one collection run.
type Pipeline struct {
	client *statsapi.Client
	store  *store.Store
	config Config
	logger zerolog.Logger
}

// New creates a pipeline.
func New(client *statsapi.Client, st *store.Store, cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = 5
	}
	if cfg.ProgressEvery <= 0 {
		cfg.ProgressEvery = 25
	}
	return &Pipeline{
		client: client,
		store:  st,
		config: cfg,
		logger: log.With().Str("component", "pipeline").Logger(),
	}
}

// Run executes one collection run over a (season, role) partition. It is
// safe to re-run: the target sequence is recomputed from the store each
// time, and duplicate appearance rows are discarded by the writer's
// conflict rule. Per-entity failures never abort the run; only roster or
// store failures are fatal.
func (p *Pipeline) Run(ctx context.Context, season int, role roster.Role, rule roster.Completeness) (*Summary, error) {
	runID := uuid.NewString()
	logger := p.logger.With().
		Str("run_id", runID).
		Int("season", season).
		Str("role", string(role)).
		Logger()

	rawRoster, err := p.client.FetchProspects(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("fetch prospect roster: %w", err)
	}
	entries, err := roster.Parse(rawRoster)
	if err != nil {
		return nil, fmt.Errorf("parse prospect roster: %w", err)
	}

	done, err := p.store.CompletePlayers(ctx, season, role, rule)
	if err != nil {
		return nil, fmt.Errorf("query complete players: %w", err)
	}

	targets := roster.Targets(entries, role, done)

	logger.Info().
		Int("roster", len(entries)).
		Int("already_complete", len(done)).
		Int("targets", len(targets)).
		Str("completeness", rule.String()).
		Msg("Collection run starting")

	tracker := newTracker(runID, len(targets), p.config.ProgressEvery, logger)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := make(chan roster.Entry, len(targets))
	for _, entry := range targets {
		queue <- entry
	}
	close(queue)

	fatalErrs := make(chan error, p.config.Workers)

	var wg sync.WaitGroup
	for i := 0; i < p.config.Workers; i++ {
		wg.Add(1)
		go p.worker(runCtx, cancel, season, role, queue, tracker, fatalErrs, &wg, i)
	}
	wg.Wait()
	close(fatalErrs)

	if fatalErr := <-fatalErrs; fatalErr != nil {
		return tracker.summary(season, role), fmt.Errorf("store failure aborted run: %w", fatalErr)
	}

	summary := tracker.summary(season, role)

	games, pitchEvents, measured, err := p.store.SeasonCounts(ctx, season, role)
	if err != nil {
		logger.Warn().Err(err).Msg("Season counts unavailable for final report")
	}

	logger.Info().
		Int("target", summary.Target).
		Int("processed", summary.Processed).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Int("no_data", summary.NoData).
		Int("inserted", summary.Inserted).
		Int("skipped_duplicates", summary.SkippedDuplicates).
		Int64("season_games", games).
		Int64("season_pitch_events", pitchEvents).
		Int64("season_measured_pitches", measured).
		Dur("duration", summary.Duration).
		Msg("Collection run complete")

	return summary, nil
}

// worker processes entities from the queue until it is drained or the run
// context is cancelled. A store failure cancels the whole run; any other
// failure is per-entity.
func (p *Pipeline) worker(ctx context.Context, cancel context.CancelFunc, season int, role roster.Role, queue <-chan roster.Entry, tracker *tracker, fatalErrs chan<- error, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()

	for entry := range queue {
		select {
		case <-ctx.Done():
			p.logger.Debug().
				Int("worker_id", workerID).
				Msg("Worker stopping (context cancelled)")
			return
		default:
		}

		ws, pitchEvents, err := p.processEntity(ctx, entry, season, role)
		if err == nil {
			entitiesProcessedTotal.WithLabelValues(string(role), "ok").Inc()
			tracker.success(ws, pitchEvents)
			continue
		}

		if isStoreFailure(err) {
			// Losing the store is fatal to the whole run.
			select {
			case fatalErrs <- err:
			default:
			}
			cancel()
			return
		}

		if statsapi.IsNotFound(err) {
			// The provider has no records for this entity. That is data
			// absence, not a pipeline failure.
			entitiesProcessedTotal.WithLabelValues(string(role), "no_data").Inc()
			p.logger.Info().
				Int("player_id", entry.PlayerID).
				Int("season", season).
				Msg("No upstream data for entity")
			tracker.noUpstreamData()
			continue
		}

		entitiesProcessedTotal.WithLabelValues(string(role), "failed").Inc()
		p.logger.Error().
			Err(err).
			Int("player_id", entry.PlayerID).
			Int("season", season).
			Str("role", string(role)).
			Str("error_class", string(statsapi.Classify(err))).
			Msg("Entity failed")
		tracker.failure()
	}
}

// storeFailure wraps store errors so the worker can distinguish them from
// per-entity upstream failures.
type storeFailure struct {
	err error
}

func (e *storeFailure) Error() string { return "store failure: " + e.err.Error() }
func (e *storeFailure) Unwrap() error { return e.err }

func isStoreFailure(err error) bool {
	var sf *storeFailure
	return errors.As(err, &sf)
}

// processEntity runs the fetch → extract → write sequence for one entity.
// The write runs under a context detached from run cancellation so an
// operator stop lets the in-flight transaction commit, preserving the
// all-or-nothing write invariant.
func (p *Pipeline) processEntity(ctx context.Context, entry roster.Entry, season int, role roster.Role) (store.WriteSummary, int, error) {
	pages, err := p.client.FetchPlayerSeason(ctx, entry.PlayerID, season)
	if err != nil {
		return store.WriteSummary{}, 0, fmt.Errorf("fetch player %d: %w", entry.PlayerID, err)
	}

	ps, err := extract.MergePages(pages, entry.PlayerID, season)
	if err != nil {
		return store.WriteSummary{}, 0, fmt.Errorf("decode player %d: %w", entry.PlayerID, err)
	}

	appearances, pitches, err := extract.Extract(ps, role)
	if err != nil {
		return store.WriteSummary{}, 0, fmt.Errorf("extract player %d: %w", entry.PlayerID, err)
	}

	writeCtx := context.WithoutCancel(ctx)
	ws, err := p.store.WriteEntity(writeCtx, role, appearances, pitches)
	if err != nil {
		return store.WriteSummary{}, 0, &storeFailure{err: fmt.Errorf("write player %d: %w", entry.PlayerID, err)}
	}

	return ws, len(pitches), nil
}
