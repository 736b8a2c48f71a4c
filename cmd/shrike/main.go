// Shrike - Synthetic payment fraud streams with online learning.
// Copyright (c) 2025 opensource.finance
// Licensed under the Apache License 2.0

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/opensource-finance/shrike/internal/baseline"
	"github.com/opensource-finance/shrike/internal/bus"
	"github.com/opensource-finance/shrike/internal/domain"
	"github.com/opensource-finance/shrike/internal/export"
	"github.com/opensource-finance/shrike/internal/registry"
	"github.com/opensource-finance/shrike/internal/repository"
	"github.com/opensource-finance/shrike/internal/sim"
)

// Version information (set via ldflags)
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	// Initialize structured logger
	logLevel := slog.LevelInfo
	if os.Getenv("SHRIKE_DEBUG") == "true" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("starting shrike",
		"version", Version,
		"commit", Commit,
		"build_date", BuildDate,
	)

	// Load configuration
	cfg := domain.DefaultConfig()
	if os.Getenv("SHRIKE_ENV") == "cluster" {
		cfg = domain.ClusterConfig()
		slog.Info("running in cluster mode")
	}

	accounts := flag.Int("accounts", cfg.Simulation.Accounts, "size of the account population")
	hours := flag.Int("hours", cfg.Simulation.Hours, "simulated hours (one event per minute)")
	rate := flag.Float64("fraud-rate", cfg.Simulation.BaseFraudRate, "base fraud probability in [0,1]")
	seed := flag.Int64("seed", cfg.Simulation.Seed, "random seed (0 = wall clock)")
	noBaseline := flag.Bool("no-baseline", false, "skip the rule-based baseline detector")
	flag.Parse()

	cfg.Simulation.Accounts = *accounts
	cfg.Simulation.Hours = *hours
	cfg.Simulation.BaseFraudRate = *rate
	cfg.Simulation.Seed = *seed

	slog.Info("configuration loaded",
		"repository", cfg.Repository.Driver,
		"eventbus", cfg.EventBus.Type,
		"model_store", cfg.ModelStore.Type,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals: the run finishes with a partial dataset.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		slog.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Initialize Repository
	repo, err := repository.New(cfg.Repository)
	if err != nil {
		slog.Error("failed to initialize repository", "error", err)
		os.Exit(1)
	}
	defer repo.Close()
	slog.Info("repository initialized", "driver", cfg.Repository.Driver)

	// Initialize EventBus
	busImpl, err := bus.New(cfg.EventBus)
	if err != nil {
		slog.Error("failed to initialize event bus", "error", err)
		os.Exit(1)
	}
	defer busImpl.Close()
	slog.Info("event bus initialized", "type", cfg.EventBus.Type)

	// Initialize Model Store
	store, err := registry.New(cfg.ModelStore)
	if err != nil {
		slog.Error("failed to initialize model store", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("model store initialized", "type", cfg.ModelStore.Type)

	deps := sim.Deps{ModelStore: store}

	if !*noBaseline {
		detector, err := baseline.New(baseline.DefaultRules())
		if err != nil {
			slog.Error("failed to initialize baseline detector", "error", err)
			os.Exit(1)
		}
		deps.Baseline = detector
		slog.Info("baseline detector initialized", "rules_count", detector.RulesCount())
	}

	// Run the simulation
	result, err := sim.Run(ctx, cfg.Simulation, deps)
	if err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}

	run := result.Summary(cfg.Simulation)

	// Persistence and publishing use a fresh context: the run context may
	// already be cancelled after an interrupted run.
	finishCtx := context.Background()

	if err := repo.SaveRun(finishCtx, run); err != nil {
		slog.Error("failed to persist run", "error", err)
		os.Exit(1)
	}
	if err := repo.SaveEvents(finishCtx, result.RunID, result.Dataset); err != nil {
		slog.Error("failed to persist events", "error", err)
		os.Exit(1)
	}
	slog.Info("run persisted", "run_id", result.RunID, "events", len(result.Dataset))

	publishRun(finishCtx, busImpl, result, run)

	if cfg.Output.DatasetCSV != "" {
		if err := export.WriteCSV(cfg.Output.DatasetCSV, result.Dataset); err != nil {
			slog.Error("failed to export dataset", "error", err)
			os.Exit(1)
		}
		slog.Info("dataset exported", "path", cfg.Output.DatasetCSV, "rows", len(result.Dataset))
	}

	if cfg.Output.CurvePNG != "" {
		if err := export.RenderCurve(cfg.Output.CurvePNG, result.AccuracyCurve); err != nil {
			slog.Error("failed to render accuracy curve", "error", err)
			os.Exit(1)
		}
		slog.Info("accuracy curve rendered", "path", cfg.Output.CurvePNG, "points", len(result.AccuracyCurve))
	}

	fmt.Println()
	export.PrintSummary(os.Stdout, run)

	slog.Info("shrike finished", "run_id", result.RunID)
}

// publishRun replays the labeled stream and the run summary to the bus.
// Publishing is best effort: a bus failure never fails a finished run.
func publishRun(ctx context.Context, b domain.EventBus, result *sim.Result, run *domain.Run) {
	published := 0
	for i := range result.Dataset {
		payload, err := json.Marshal(&result.Dataset[i])
		if err != nil {
			slog.Warn("failed to marshal event", "error", err)
			continue
		}
		if err := b.Publish(ctx, result.RunID, domain.TopicEventLabeled, payload); err != nil {
			slog.Warn("failed to publish event", "error", err)
			continue
		}
		published++
	}

	summary, err := json.Marshal(run)
	if err == nil {
		if err := b.Publish(ctx, result.RunID, domain.TopicRunCompleted, summary); err != nil {
			slog.Warn("failed to publish run summary", "error", err)
		}
	}

	slog.Info("labeled stream published", "run_id", result.RunID, "events", published)
}
