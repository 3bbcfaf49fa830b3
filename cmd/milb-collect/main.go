// Command milb-collect runs one collection pass over a (season, role)
// partition of the prospect roster. It is safe to re-run: completed
// entities are excluded by the enumerator and duplicate appearance rows
// are discarded by the writer.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/prospectlab/milb-ingest/internal/config"
	"github.com/prospectlab/milb-ingest/internal/pipeline"
	"github.com/prospectlab/milb-ingest/internal/store"
	"github.com/prospectlab/milb-ingest/pkg/cache"
	"github.com/prospectlab/milb-ingest/pkg/logging"
	"github.com/prospectlab/milb-ingest/pkg/roster"
	"github.com/prospectlab/milb-ingest/pkg/statsapi"
)

func main() {
	var (
		season     = flag.Int("season", 0, "season to collect (required)")
		roleFlag   = flag.String("role", "", "population to collect: pitcher or batter (required)")
		configPath = flag.String("config", "", "path to YAML config file")
		pretty     = flag.Bool("pretty", false, "human-readable console output")
	)
	flag.Parse()

	if *season == 0 || *roleFlag == "" {
		fmt.Fprintln(os.Stderr, "usage: milb-collect -season <year> -role <pitcher|batter> [-config <file>]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(2)
	}
	if *pretty {
		cfg.Pretty = true
	}

	role, err := roster.ParseRole(*roleFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}
	rule, err := roster.ParseCompleteness(cfg.Completeness)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	// One log file per (season, role) partition, JSON regardless of the
	// console format.
	logFile, err := logging.OpenPartitionLog(cfg.LogDir, *season, string(role))
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
		os.Exit(2)
	}
	defer logFile.Close()

	var console io.Writer = os.Stderr
	if cfg.Pretty {
		console = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Output: zerolog.MultiLevelWriter(console, logFile),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var payloadCache *cache.Manager
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Str("addr", cfg.RedisAddr).
				Msg("Redis unreachable - continuing without payload cache")
		} else {
			payloadCache = cache.NewManager(rdb, time.Duration(cfg.CacheTTLSec)*time.Second)
			logger.Info().Str("addr", cfg.RedisAddr).Msg("Payload cache enabled")
		}
	}

	clientCfg := statsapi.DefaultConfig(cfg.BaseURL)
	clientCfg.UserAgent = cfg.UserAgent
	clientCfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSec) * time.Second
	clientCfg.RequestsPerSecond = cfg.RequestsPerSecond
	clientCfg.Burst = cfg.Burst
	clientCfg.MaxIdleConns = cfg.MaxIdleConns
	clientCfg.MaxConnsPerHost = cfg.MaxConnsPerHost
	clientCfg.MaxAttempts = cfg.MaxAttempts
	clientCfg.Cache = payloadCache

	client, err := statsapi.New(clientCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create stats client")
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.DBPath).Msg("Failed to open database")
	}
	defer st.Close()

	p := pipeline.New(client, st, pipeline.Config{
		Workers:       cfg.Workers,
		ProgressEvery: cfg.ProgressEvery,
	})

	summary, err := p.Run(ctx, *season, role, rule)
	if err != nil {
		logger.Fatal().Err(err).Msg("Collection run failed")
	}

	logger.Info().
		Str("run_id", summary.RunID).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Int("no_data", summary.NoData).
		Dur("duration", summary.Duration).
		Msg("Done")
}
