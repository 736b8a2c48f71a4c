package domain

import (
	"context"
	"time"
)

// Repository defines the interface for run persistence. The tick loop does
// no I/O; the driver persists the accumulated dataset and run summary once,
// after the loop finishes.
type Repository interface {
	// SaveRun stores a run summary row.
	SaveRun(ctx context.Context, run *Run) error

	// GetRun retrieves a run summary by ID.
	GetRun(ctx context.Context, runID string) (*Run, error)

	// SaveEvents batch-inserts the labeled dataset of a run.
	SaveEvents(ctx context.Context, runID string, events []LabeledEvent) error

	// GetEventsBySender retrieves a run's events for one sender since a
	// given instant, in timestamp order.
	GetEventsBySender(ctx context.Context, runID string, senderID string, since time.Time) ([]LabeledEvent, error)

	// CountEvents returns the number of stored events for a run.
	CountEvents(ctx context.Context, runID string) (int64, error)

	// Health check
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
}

// Run is the persisted summary of one simulation run.
type Run struct {
	ID            string    `json:"id"`
	Accounts      int       `json:"accounts"`
	Hours         int       `json:"hours"`
	BaseFraudRate float64   `json:"baseFraudRate"`
	Seed          int64     `json:"seed"`
	Events        int       `json:"events"`
	FraudEvents   int       `json:"fraudEvents"`
	ScoredTicks   int       `json:"scoredTicks"`
	FinalMacroF1  float64   `json:"finalMacroF1"`
	BaselineF1    float64   `json:"baselineF1"`
	StartedAt     time.Time `json:"startedAt"`
	FinishedAt    time.Time `json:"finishedAt"`
}

// RepositoryConfig holds configuration for repository initialization.
type RepositoryConfig struct {
	// Driver is the database driver: "sqlite" or "postgres"
	Driver string

	// SQLite specific
	SQLitePath string

	// PostgreSQL specific
	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}
