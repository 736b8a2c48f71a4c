package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/opensource-finance/shrike/internal/domain"
)

func TestSQLiteRepository(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "shrike-test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()
	defer os.Remove(tmpPath)

	cfg := domain.RepositoryConfig{
		Driver:     "sqlite",
		SQLitePath: tmpPath,
	}

	repo, err := New(cfg)
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	runID := "run-001"
	started := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	t.Run("Ping", func(t *testing.T) {
		if err := repo.Ping(ctx); err != nil {
			t.Errorf("Ping failed: %v", err)
		}
	})

	t.Run("SaveAndGetRun", func(t *testing.T) {
		run := &domain.Run{
			ID:            runID,
			Accounts:      500,
			Hours:         200,
			BaseFraudRate: 0.02,
			Seed:          42,
			Events:        12000,
			FraudEvents:   310,
			ScoredTicks:   11999,
			FinalMacroF1:  0.71,
			BaselineF1:    0.55,
			StartedAt:     started,
			FinishedAt:    started.Add(3 * time.Minute),
		}

		if err := repo.SaveRun(ctx, run); err != nil {
			t.Fatalf("SaveRun failed: %v", err)
		}

		retrieved, err := repo.GetRun(ctx, runID)
		if err != nil {
			t.Fatalf("GetRun failed: %v", err)
		}

		if retrieved.Accounts != run.Accounts {
			t.Errorf("expected Accounts %d, got %d", run.Accounts, retrieved.Accounts)
		}
		if retrieved.Seed != run.Seed {
			t.Errorf("expected Seed %d, got %d", run.Seed, retrieved.Seed)
		}
		if retrieved.FinalMacroF1 != run.FinalMacroF1 {
			t.Errorf("expected FinalMacroF1 %.2f, got %.2f", run.FinalMacroF1, retrieved.FinalMacroF1)
		}
	})

	t.Run("SaveAndQueryEvents", func(t *testing.T) {
		events := []domain.LabeledEvent{
			{
				TransactionEvent: domain.TransactionEvent{
					ID:          "ev-001",
					Timestamp:   started,
					Amount:      1200,
					Type:        "P2P",
					Channel:     "Manual_VPA",
					NetworkType: "4G",
					SenderID:    "U00001",
					ReceiverID:  "U00002",
					DeviceID:    "D1",
				},
				Label: domain.LabelLegit,
			},
			{
				TransactionEvent: domain.TransactionEvent{
					ID:          "ev-002",
					Timestamp:   started.Add(time.Minute),
					Amount:      9500,
					Type:        "P2P",
					Channel:     "Phishing_Link",
					NetworkType: "WiFi",
					SenderID:    "U00001",
					ReceiverID:  "UR_PHISH_MULE",
					DeviceID:    "D1",
					GeoJump:     4,
				},
				Label: domain.TypologyPhishing,
			},
			{
				TransactionEvent: domain.TransactionEvent{
					ID:          "ev-003",
					Timestamp:   started.Add(2 * time.Minute),
					Amount:      400,
					Type:        "P2M",
					Channel:     "Manual_VPA",
					NetworkType: "5G",
					SenderID:    "U00003",
					ReceiverID:  "U00004",
					DeviceID:    "D2",
				},
				Label: domain.LabelLegit,
			},
		}

		if err := repo.SaveEvents(ctx, runID, events); err != nil {
			t.Fatalf("SaveEvents failed: %v", err)
		}

		count, err := repo.CountEvents(ctx, runID)
		if err != nil {
			t.Fatalf("CountEvents failed: %v", err)
		}
		if count != 3 {
			t.Errorf("expected 3 events, got %d", count)
		}

		bySender, err := repo.GetEventsBySender(ctx, runID, "U00001", started)
		if err != nil {
			t.Fatalf("GetEventsBySender failed: %v", err)
		}
		if len(bySender) != 2 {
			t.Fatalf("expected 2 events for U00001, got %d", len(bySender))
		}
		if bySender[0].ID != "ev-001" || bySender[1].ID != "ev-002" {
			t.Errorf("events out of timestamp order: %s, %s", bySender[0].ID, bySender[1].ID)
		}
		if bySender[1].Label != domain.TypologyPhishing {
			t.Errorf("expected Phishing label, got %s", bySender[1].Label)
		}
	})

	t.Run("SinceFiltersEvents", func(t *testing.T) {
		events, err := repo.GetEventsBySender(ctx, runID, "U00001", started.Add(30*time.Second))
		if err != nil {
			t.Fatalf("GetEventsBySender failed: %v", err)
		}
		if len(events) != 1 {
			t.Errorf("expected 1 event after cutoff, got %d", len(events))
		}
	})

	t.Run("RunIsolation", func(t *testing.T) {
		count, err := repo.CountEvents(ctx, "run-other")
		if err != nil {
			t.Fatalf("CountEvents failed: %v", err)
		}
		if count != 0 {
			t.Errorf("expected 0 events for other run, got %d", count)
		}
	})

	t.Run("RequiresRunID", func(t *testing.T) {
		if err := repo.SaveEvents(ctx, "", nil); err == nil {
			t.Error("expected error for empty runID")
		}
		if _, err := repo.GetRun(ctx, ""); err == nil {
			t.Error("expected error for empty runID")
		}
	})

	t.Run("EmptyBatchIsNoop", func(t *testing.T) {
		if err := repo.SaveEvents(ctx, runID, nil); err != nil {
			t.Errorf("empty batch should succeed, got: %v", err)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := repo.GetRun(ctx, "nonexistent")
		if err != ErrNotFound {
			t.Errorf("expected ErrNotFound, got: %v", err)
		}
	})
}

func TestUnsupportedDriver(t *testing.T) {
	cfg := domain.RepositoryConfig{
		Driver: "mysql",
	}

	_, err := New(cfg)
	if err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestRebind(t *testing.T) {
	repo := &SQLRepository{driver: "postgres"}

	tests := []struct {
		input    string
		expected string
	}{
		{"SELECT * FROM t WHERE id = ?", "SELECT * FROM t WHERE id = $1"},
		{"INSERT INTO t (a, b) VALUES (?, ?)", "INSERT INTO t (a, b) VALUES ($1, $2)"},
		{"SELECT * FROM t", "SELECT * FROM t"},
	}

	for _, tt := range tests {
		result := repo.rebind(tt.input)
		if result != tt.expected {
			t.Errorf("rebind(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}
