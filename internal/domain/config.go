package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is returned for configuration that would make a run
// meaningless. Checked before the tick loop starts, never inside it.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the complete Shrike configuration.
type Config struct {
	// Simulation parameters for a single run
	Simulation SimulationConfig `json:"simulation"`

	// Component configurations
	Repository RepositoryConfig `json:"repository"`
	EventBus   EventBusConfig   `json:"eventBus"`
	ModelStore ModelStoreConfig `json:"modelStore"`

	// Run artifacts (CSV export, accuracy chart)
	Output OutputConfig `json:"output"`

	// Observability
	Logging LoggingConfig `json:"logging"`
	Tracing TracingConfig `json:"tracing"`
}

// SimulationConfig are the parameters of one simulation run.
type SimulationConfig struct {
	// Accounts is the size of the account population.
	Accounts int `json:"accounts"`

	// Hours of simulated time; one event is generated per simulated minute.
	Hours int `json:"hours"`

	// BaseFraudRate is the base probability of a fraud draw, before the
	// seasonal wave and noise are applied. Must be in [0, 1].
	BaseFraudRate float64 `json:"baseFraudRate"`

	// Seed for the run's random source. Zero means derive from wall clock,
	// which makes the run non-reproducible.
	Seed int64 `json:"seed"`

	// ProgressEvery controls progress logging, in simulated minutes.
	ProgressEvery int `json:"progressEvery"`
}

// Validate checks the simulation parameters. Fails fast per the error
// taxonomy: nothing inside the tick loop is retryable.
func (c SimulationConfig) Validate() error {
	if c.Accounts <= 0 {
		return fmt.Errorf("%w: accounts must be positive, got %d", ErrInvalidConfig, c.Accounts)
	}
	if c.Hours <= 0 {
		return fmt.Errorf("%w: hours must be positive, got %d", ErrInvalidConfig, c.Hours)
	}
	if c.BaseFraudRate < 0 || c.BaseFraudRate > 1 {
		return fmt.Errorf("%w: base fraud rate must be in [0,1], got %g", ErrInvalidConfig, c.BaseFraudRate)
	}
	return nil
}

// Ticks returns the total number of simulated minutes in the run.
func (c SimulationConfig) Ticks() int {
	return c.Hours * 60
}

// OutputConfig holds paths for end-of-run artifacts. Empty paths disable
// the corresponding artifact.
type OutputConfig struct {
	DatasetCSV string `json:"datasetCsv"`
	CurvePNG   string `json:"curvePng"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	Enabled     bool   `json:"enabled"`
	ServiceName string `json:"serviceName"`
}

// DefaultConfig returns a configuration suitable for local runs:
// SQLite persistence, in-process channel bus, filesystem model store.
func DefaultConfig() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Accounts:      1000,
			Hours:         24,
			BaseFraudRate: 0.01,
			ProgressEvery: 1000,
		},
		Repository: RepositoryConfig{
			Driver:     "sqlite",
			SQLitePath: "./shrike.db",
		},
		EventBus: EventBusConfig{
			Type:              "channel",
			ChannelBufferSize: 1000,
		},
		ModelStore: ModelStoreConfig{
			Type:         "file",
			ModelPath:    "./models/fraud_online_model.gob",
			ManifestPath: "./models/fraud_online_model_features.json",
		},
		Output: OutputConfig{
			DatasetCSV: "./upi_fraud_simulated.csv",
			CurvePNG:   "./accuracy_curve.png",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Tracing: TracingConfig{
			Enabled:     false,
			ServiceName: "shrike",
		},
	}
}

// ClusterConfig returns a configuration for shared infrastructure:
// PostgreSQL persistence, NATS bus, Redis-backed model store so serving
// layers on other hosts can load the trained model.
func ClusterConfig() *Config {
	cfg := DefaultConfig()
	cfg.Repository = RepositoryConfig{
		Driver:          "postgres",
		PostgresHost:    "localhost",
		PostgresPort:    5432,
		PostgresDB:      "shrike",
		MaxOpenConns:    10,
		ConnMaxLifetime: 30 * time.Minute,
	}
	cfg.EventBus = EventBusConfig{
		Type:              "nats",
		NATSUrl:           "nats://localhost:4222",
		NATSMaxReconnects: 10,
		NATSReconnectWait: 5,
	}
	cfg.ModelStore = ModelStoreConfig{
		Type:      "redis",
		RedisAddr: "localhost:6379",
		ModelKey:  "fraud_online_model",
	}
	cfg.Tracing.Enabled = true
	return cfg
}
