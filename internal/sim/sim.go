// Package sim orchestrates the simulation: a strictly sequential loop over
// simulated minutes running generate, featurize, predict, score, learn.
// The predict step always runs against model state built from earlier
// ticks only; that ordering is the correctness property of the online
// evaluation protocol and must never be reordered.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/opensource-finance/shrike/internal/account"
	"github.com/opensource-finance/shrike/internal/baseline"
	"github.com/opensource-finance/shrike/internal/domain"
	"github.com/opensource-finance/shrike/internal/features"
	"github.com/opensource-finance/shrike/internal/generator"
	"github.com/opensource-finance/shrike/internal/learner"
	"github.com/opensource-finance/shrike/internal/regime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("shrike-sim")

// Deps are the driver's optional collaborators. Nil fields disable the
// corresponding step; the core loop itself has no external dependencies.
type Deps struct {
	// ModelStore receives the serialized model at run end. A store
	// failure is fatal: the trained model is the run's primary artifact.
	ModelStore domain.ModelStore

	// Baseline, when set, is scored on every tick next to the learner.
	Baseline *baseline.Detector

	// Schedule overrides the default fraud evolution.
	Schedule *regime.Schedule

	// Typologies extends the generator's mutation table.
	Typologies map[string]generator.Spec
}

// Result is everything a run produced.
type Result struct {
	RunID string
	Seed  int64

	// Dataset holds one labeled row per simulated minute, in tick order.
	Dataset []domain.LabeledEvent

	// AccuracyCurve holds the running macro F1, one point per scored
	// tick (ticks where the learner abstained are excluded).
	AccuracyCurve []float64

	FraudEvents     int
	ScoredTicks     int
	FinalMacroF1    float64
	BaselineMacroF1 float64

	StartedAt  time.Time
	FinishedAt time.Time
}

// Summary converts a result to its persisted run row.
func (r *Result) Summary(cfg domain.SimulationConfig) *domain.Run {
	return &domain.Run{
		ID:            r.RunID,
		Accounts:      cfg.Accounts,
		Hours:         cfg.Hours,
		BaseFraudRate: cfg.BaseFraudRate,
		Seed:          r.Seed,
		Events:        len(r.Dataset),
		FraudEvents:   r.FraudEvents,
		ScoredTicks:   r.ScoredTicks,
		FinalMacroF1:  r.FinalMacroF1,
		BaselineF1:    r.BaselineMacroF1,
		StartedAt:     r.StartedAt,
		FinishedAt:    r.FinishedAt,
	}
}

// Run executes one simulation. Cancelling ctx stops the loop early and
// returns whatever dataset and metrics accumulated so far; mid-run
// checkpointing is not supported.
func Run(ctx context.Context, cfg domain.SimulationConfig, deps Deps) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	schedule := deps.Schedule
	if schedule == nil {
		schedule = regime.DefaultSchedule()
	}

	accounts := account.NewStore(cfg.Accounts, rng)
	gen := generator.New(accounts, schedule, cfg.BaseFraudRate, rng)
	for name, spec := range deps.Typologies {
		gen.Register(name, spec)
	}
	if err := gen.ValidateSchedule(cfg.Ticks() - 1); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}

	extractor := features.NewExtractor(accounts)
	pipe := learner.NewPipeline()
	metric := learner.NewMacroF1()
	baselineMetric := learner.NewMacroF1()

	progressEvery := cfg.ProgressEvery
	if progressEvery <= 0 {
		progressEvery = 1000
	}

	ctx, span := tracer.Start(ctx, "sim.run",
		trace.WithAttributes(
			attribute.Int("accounts", cfg.Accounts),
			attribute.Int("hours", cfg.Hours),
			attribute.Float64("base_fraud_rate", cfg.BaseFraudRate),
			attribute.Int64("seed", seed),
		))
	defer span.End()

	ticks := cfg.Ticks()
	result := &Result{
		RunID:         uuid.New().String(),
		Seed:          seed,
		Dataset:       make([]domain.LabeledEvent, 0, ticks),
		AccuracyCurve: make([]float64, 0, ticks),
		StartedAt:     time.Now().UTC(),
	}

	slog.Info("simulation starting",
		"run_id", result.RunID,
		"accounts", cfg.Accounts,
		"hours", cfg.Hours,
		"base_fraud_rate", cfg.BaseFraudRate,
		"seed", seed,
	)

loop:
	for t := 0; t < ticks; t++ {
		select {
		case <-ctx.Done():
			slog.Warn("simulation interrupted", "run_id", result.RunID, "tick", t)
			break loop
		default:
		}

		ev := gen.Generate(t)
		vec := extractor.Extract(&ev.TransactionEvent)

		// Test-then-train: score first, learn after.
		if pred, ok := pipe.Predict(vec); ok {
			metric.Update(ev.Label, pred)
			result.AccuracyCurve = append(result.AccuracyCurve, metric.Get())
			result.ScoredTicks++
		}

		if deps.Baseline != nil {
			pred := deps.Baseline.Predict(&ev.TransactionEvent,
				vec.Numeric[features.FeatNewDevice] == 1,
				vec.Numeric[features.FeatVPAKeywordMatch] == 1,
			)
			baselineMetric.Update(ev.Label, pred)
		}

		pipe.Learn(vec, ev.Label)

		result.Dataset = append(result.Dataset, ev)
		if ev.Label != domain.LabelLegit {
			result.FraudEvents++
		}

		if t > 0 && t%progressEvery == 0 {
			slog.Info("simulation progress",
				"run_id", result.RunID,
				"tick", t,
				"fraud_events", result.FraudEvents,
				"macro_f1", metric.Get(),
			)
		}
	}

	result.FinalMacroF1 = metric.Get()
	result.BaselineMacroF1 = baselineMetric.Get()
	result.FinishedAt = time.Now().UTC()

	if deps.ModelStore != nil {
		if err := persistModel(ctx, deps.ModelStore, pipe, result); err != nil {
			return nil, err
		}
	}

	slog.Info("simulation finished",
		"run_id", result.RunID,
		"events", len(result.Dataset),
		"fraud_events", result.FraudEvents,
		"scored_ticks", result.ScoredTicks,
		"macro_f1", result.FinalMacroF1,
		"baseline_f1", result.BaselineMacroF1,
	)

	return result, nil
}

// persistModel serializes the pipeline and its feature manifest.
func persistModel(ctx context.Context, store domain.ModelStore, pipe *learner.Pipeline, result *Result) error {
	ctx, span := tracer.Start(ctx, "sim.persist_model")
	defer span.End()

	blob, err := pipe.Marshal()
	if err != nil {
		return fmt.Errorf("failed to serialize model: %w", err)
	}
	if err := store.PutModel(ctx, blob); err != nil {
		return fmt.Errorf("failed to store model: %w", err)
	}

	manifest, err := pipe.BuildManifest(result.FinishedAt).Marshal()
	if err != nil {
		return fmt.Errorf("failed to serialize manifest: %w", err)
	}
	if err := store.PutManifest(ctx, manifest); err != nil {
		return fmt.Errorf("failed to store manifest: %w", err)
	}

	slog.Info("model persisted", "run_id", result.RunID, "model_bytes", len(blob))
	return nil
}
