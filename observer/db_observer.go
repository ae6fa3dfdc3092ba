package observer

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// Execer is the subset of *pgxpool.Pool / *pgx.Conn the DBObserver needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// schema holds the run journal tables, one statement per entry.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS prep_run (
		run_id      TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		status      TEXT NOT NULL,
		error       TEXT,
		started_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		finished_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS prep_run_stage (
		run_id      TEXT NOT NULL REFERENCES prep_run (run_id) ON DELETE CASCADE,
		stage_index INTEGER NOT NULL,
		stage_name  TEXT NOT NULL,
		status      TEXT NOT NULL,
		error       TEXT,
		duration_ms BIGINT,
		started_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (run_id, stage_index)
	)`,
}

// DBObserver journals each run and its stages to Postgres (prep_run, prep_run_stage).
type DBObserver struct {
	db     Execer
	stages []string
}

// NewDBObserver returns an Observer that writes through db (e.g. a *pgxpool.Pool).
func NewDBObserver(db Execer, stageNames []string) *DBObserver {
	return &DBObserver{db: db, stages: stageNames}
}

// EnsureSchema creates the journal tables when they do not exist.
func (o *DBObserver) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := o.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create journal schema: %w", err)
		}
	}
	return nil
}

// BeforePipeline implements pipeline.Observer. Upserts a prep_run row with status 'running'.
func (o *DBObserver) BeforePipeline(ctx context.Context, runID, name string, payload interface{}) error {
	_, err := o.db.Exec(ctx, `
		INSERT INTO prep_run (run_id, name, status)
		VALUES ($1, $2, 'running')
		ON CONFLICT (run_id) DO UPDATE SET name = EXCLUDED.name, status = 'running', error = NULL, finished_at = NULL`,
		runID, name)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// AfterPipeline implements pipeline.Observer. Sets the final status and error.
func (o *DBObserver) AfterPipeline(ctx context.Context, runID string, result interface{}, err error) error {
	_, execErr := o.db.Exec(ctx, `
		UPDATE prep_run SET status = $2, error = $3, finished_at = now()
		WHERE run_id = $1`,
		runID, status(err), errorText(err))
	if execErr != nil {
		return fmt.Errorf("update run: %w", execErr)
	}
	return nil
}

// BeforeStage implements pipeline.Observer. Inserts a prep_run_stage row with status 'running'.
func (o *DBObserver) BeforeStage(ctx context.Context, runID string, stageIndex int, input interface{}) error {
	_, err := o.db.Exec(ctx, `
		INSERT INTO prep_run_stage (run_id, stage_index, stage_name, status)
		VALUES ($1, $2, $3, 'running')
		ON CONFLICT (run_id, stage_index) DO UPDATE SET status = 'running', error = NULL, duration_ms = NULL`,
		runID, int32(stageIndex), stageName(o.stages, stageIndex))
	if err != nil {
		return fmt.Errorf("insert stage: %w", err)
	}
	return nil
}

// AfterStage implements pipeline.Observer. Records status, error and duration.
func (o *DBObserver) AfterStage(ctx context.Context, runID string, stageIndex int, input, output interface{}, stageErr error, duration time.Duration) error {
	durationMs := pgtype.Int8{Int64: duration.Milliseconds(), Valid: true}
	_, err := o.db.Exec(ctx, `
		UPDATE prep_run_stage SET status = $3, error = $4, duration_ms = $5
		WHERE run_id = $1 AND stage_index = $2`,
		runID, int32(stageIndex), status(stageErr), errorText(stageErr), durationMs)
	if err != nil {
		return fmt.Errorf("update stage: %w", err)
	}
	return nil
}

func errorText(err error) pgtype.Text {
	if err == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: err.Error(), Valid: true}
}
