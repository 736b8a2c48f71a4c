// Package repository persists simulation runs and their labeled datasets.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/opensource-finance/shrike/internal/domain"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidInput = errors.New("invalid input")
)

// SQLRepository implements domain.Repository using database/sql.
// Works with both SQLite and PostgreSQL drivers.
type SQLRepository struct {
	db     *sql.DB
	driver string
}

// New creates a new repository based on configuration.
func New(cfg domain.RepositoryConfig) (domain.Repository, error) {
	var db *sql.DB
	var err error

	switch cfg.Driver {
	case "sqlite":
		db, err = openSQLite(cfg)
	case "postgres":
		db, err = openPostgres(cfg)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	repo := &SQLRepository{
		db:     db,
		driver: cfg.Driver,
	}

	// Run migrations
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repo, nil
}

func (r *SQLRepository) migrate() error {
	for _, schema := range AllSchemas() {
		if _, err := r.db.Exec(schema); err != nil {
			return err
		}
	}
	return nil
}

// SaveRun stores a run summary row.
func (r *SQLRepository) SaveRun(ctx context.Context, run *domain.Run) error {
	if run.ID == "" {
		return fmt.Errorf("%w: run ID is required", ErrInvalidInput)
	}

	query := `
		INSERT INTO runs (
			id, accounts, hours, base_fraud_rate, seed,
			events, fraud_events, scored_ticks, final_macro_f1, baseline_f1,
			started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, r.rebind(query),
		run.ID, run.Accounts, run.Hours, run.BaseFraudRate, run.Seed,
		run.Events, run.FraudEvents, run.ScoredTicks, run.FinalMacroF1, run.BaselineF1,
		run.StartedAt, run.FinishedAt,
	)
	return err
}

// GetRun retrieves a run summary by ID.
func (r *SQLRepository) GetRun(ctx context.Context, runID string) (*domain.Run, error) {
	if runID == "" {
		return nil, fmt.Errorf("%w: runID is required", ErrInvalidInput)
	}

	query := `
		SELECT id, accounts, hours, base_fraud_rate, seed,
			   events, fraud_events, scored_ticks, final_macro_f1, baseline_f1,
			   started_at, finished_at
		FROM runs
		WHERE id = ?
	`

	var run domain.Run
	err := r.db.QueryRowContext(ctx, r.rebind(query), runID).Scan(
		&run.ID, &run.Accounts, &run.Hours, &run.BaseFraudRate, &run.Seed,
		&run.Events, &run.FraudEvents, &run.ScoredTicks, &run.FinalMacroF1, &run.BaselineF1,
		&run.StartedAt, &run.FinishedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &run, nil
}

// SaveEvents batch-inserts a run's labeled dataset inside one transaction.
func (r *SQLRepository) SaveEvents(ctx context.Context, runID string, events []domain.LabeledEvent) error {
	if runID == "" {
		return fmt.Errorf("%w: runID is required", ErrInvalidInput)
	}
	if len(events) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO events (
			id, run_id, timestamp, amount, type, channel, network_type,
			sender_id, receiver_id, device_id, geo_jump, first_time_receiver,
			sender_account_age, avg_transaction_value, txn_count_1h,
			amount_change_ratio, time_since_last_secs, label
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	stmt, err := tx.PrepareContext(ctx, r.rebind(query))
	if err != nil {
		return fmt.Errorf("failed to prepare event insert: %w", err)
	}
	defer stmt.Close()

	for i := range events {
		ev := &events[i]
		_, err := stmt.ExecContext(ctx,
			ev.ID, runID, ev.Timestamp, ev.Amount, ev.Type, ev.Channel, ev.NetworkType,
			ev.SenderID, ev.ReceiverID, ev.DeviceID, ev.GeoJump, ev.FirstTimeReceiver,
			ev.SenderAccountAge, ev.AvgTransactionValue, ev.TxnCount1h,
			ev.AmountChangeRatio, ev.TimeSinceLastSecs, ev.Label,
		)
		if err != nil {
			return fmt.Errorf("failed to insert event %s: %w", ev.ID, err)
		}
	}

	return tx.Commit()
}

// GetEventsBySender retrieves a run's events for one sender since a given
// instant, in timestamp order.
func (r *SQLRepository) GetEventsBySender(ctx context.Context, runID string, senderID string, since time.Time) ([]domain.LabeledEvent, error) {
	if runID == "" {
		return nil, fmt.Errorf("%w: runID is required", ErrInvalidInput)
	}

	query := `
		SELECT id, timestamp, amount, type, channel, network_type,
			   sender_id, receiver_id, device_id, geo_jump, first_time_receiver,
			   sender_account_age, avg_transaction_value, txn_count_1h,
			   amount_change_ratio, time_since_last_secs, label
		FROM events
		WHERE run_id = ? AND sender_id = ? AND timestamp >= ?
		ORDER BY timestamp
	`

	rows, err := r.db.QueryContext(ctx, r.rebind(query), runID, senderID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.LabeledEvent
	for rows.Next() {
		var ev domain.LabeledEvent
		if err := rows.Scan(
			&ev.ID, &ev.Timestamp, &ev.Amount, &ev.Type, &ev.Channel, &ev.NetworkType,
			&ev.SenderID, &ev.ReceiverID, &ev.DeviceID, &ev.GeoJump, &ev.FirstTimeReceiver,
			&ev.SenderAccountAge, &ev.AvgTransactionValue, &ev.TxnCount1h,
			&ev.AmountChangeRatio, &ev.TimeSinceLastSecs, &ev.Label,
		); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	return events, rows.Err()
}

// CountEvents returns the number of stored events for a run.
func (r *SQLRepository) CountEvents(ctx context.Context, runID string) (int64, error) {
	if runID == "" {
		return 0, fmt.Errorf("%w: runID is required", ErrInvalidInput)
	}

	var count int64
	err := r.db.QueryRowContext(ctx, r.rebind(`SELECT COUNT(*) FROM events WHERE run_id = ?`), runID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Ping checks database connectivity.
func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database connection.
func (r *SQLRepository) Close() error {
	return r.db.Close()
}

// rebind converts ? placeholders to $1, $2, etc. for PostgreSQL.
func (r *SQLRepository) rebind(query string) string {
	if r.driver != "postgres" {
		return query
	}

	var result []byte
	n := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			result = append(result, '$')
			result = append(result, fmt.Sprintf("%d", n)...)
			n++
		} else {
			result = append(result, query[i])
		}
	}
	return string(result)
}
