package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/config"
	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/models"
)

// Ensure PostgresArchive implements Archive.
var _ Archive = (*PostgresArchive)(nil)

// PostgresArchive keeps one row per capture run, keyed by the schedule's
// capture timestamp. Re-running a step for the same capture upserts.
type PostgresArchive struct {
	db *sql.DB
}

// NewPostgresArchive opens the connection and ensures the schema exists.
func NewPostgresArchive(cfg *config.PostgresConfig) (*PostgresArchive, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	a := &PostgresArchive{db: db}
	if err := a.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("PostgreSQL schedule archive initialized")
	return a, nil
}

func (a *PostgresArchive) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS pickem_schedules (
		id SERIAL PRIMARY KEY,
		captured_at TIMESTAMP NOT NULL,
		matchup_count INT NOT NULL,
		document JSONB NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		UNIQUE(captured_at)
	);

	CREATE TABLE IF NOT EXISTS pickem_predictions (
		id SERIAL PRIMARY KEY,
		captured_at TIMESTAMP NOT NULL,
		picks JSONB NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		UNIQUE(captured_at)
	);

	CREATE INDEX IF NOT EXISTS idx_pickem_schedules_captured_at ON pickem_schedules(captured_at);
	`
	_, err := a.db.ExecContext(ctx, query)
	return err
}

// ArchiveSchedule saves a capture run. Uses UPSERT keyed by captured_at.
func (a *PostgresArchive) ArchiveSchedule(ctx context.Context, schedule *models.Schedule) error {
	document, err := json.Marshal(schedule)
	if err != nil {
		return fmt.Errorf("failed to marshal schedule: %w", err)
	}

	query := `
	INSERT INTO pickem_schedules (captured_at, matchup_count, document)
	VALUES ($1, $2, $3)
	ON CONFLICT (captured_at) DO UPDATE SET
		matchup_count = EXCLUDED.matchup_count,
		document = EXCLUDED.document
	`
	if _, err := a.db.ExecContext(ctx, query, schedule.Timestamp, len(schedule.Matchups), document); err != nil {
		return fmt.Errorf("failed to archive schedule: %w", err)
	}
	return nil
}

// ArchivePredictions saves the picks derived from a capture run.
func (a *PostgresArchive) ArchivePredictions(ctx context.Context, schedule *models.Schedule, predictions models.Predictions) error {
	picks, err := json.Marshal(predictions)
	if err != nil {
		return fmt.Errorf("failed to marshal predictions: %w", err)
	}

	query := `
	INSERT INTO pickem_predictions (captured_at, picks)
	VALUES ($1, $2)
	ON CONFLICT (captured_at) DO UPDATE SET
		picks = EXCLUDED.picks
	`
	if _, err := a.db.ExecContext(ctx, query, schedule.Timestamp, picks); err != nil {
		return fmt.Errorf("failed to archive predictions: %w", err)
	}
	return nil
}

func (a *PostgresArchive) Close() error {
	return a.db.Close()
}
