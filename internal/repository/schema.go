package repository

// Schema definitions for Shrike run persistence.
// Compatible with both SQLite and PostgreSQL.

const schemaRuns = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    accounts INTEGER NOT NULL,
    hours INTEGER NOT NULL,
    base_fraud_rate REAL NOT NULL,
    seed BIGINT NOT NULL,
    events INTEGER NOT NULL,
    fraud_events INTEGER NOT NULL,
    scored_ticks INTEGER NOT NULL,
    final_macro_f1 REAL NOT NULL,
    baseline_f1 REAL NOT NULL,
    started_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
`

const schemaEvents = `
CREATE TABLE IF NOT EXISTS events (
    id TEXT NOT NULL,
    run_id TEXT NOT NULL,
    timestamp TIMESTAMP NOT NULL,
    amount REAL NOT NULL,
    type TEXT NOT NULL,
    channel TEXT NOT NULL,
    network_type TEXT NOT NULL,
    sender_id TEXT NOT NULL,
    receiver_id TEXT NOT NULL,
    device_id TEXT NOT NULL,
    geo_jump INTEGER NOT NULL,
    first_time_receiver INTEGER NOT NULL,
    sender_account_age INTEGER NOT NULL,
    avg_transaction_value REAL NOT NULL,
    txn_count_1h INTEGER NOT NULL,
    amount_change_ratio REAL NOT NULL,
    time_since_last_secs BIGINT NOT NULL,
    label TEXT NOT NULL,
    PRIMARY KEY (run_id, id)
);

CREATE INDEX IF NOT EXISTS idx_events_run ON events(run_id);
CREATE INDEX IF NOT EXISTS idx_events_sender ON events(run_id, sender_id);
CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(run_id, timestamp);
CREATE INDEX IF NOT EXISTS idx_events_label ON events(run_id, label);
`

// AllSchemas returns all schema statements in order.
func AllSchemas() []string {
	return []string{
		schemaRuns,
		schemaEvents,
	}
}
