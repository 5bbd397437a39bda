package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/appletgen/internal/db"
	"github.com/alexanderramin/appletgen/internal/domain"
)

// SQLiteRunRepo implements RunRepo on SQLite. It accepts either the database
// handle or a transaction.
type SQLiteRunRepo struct {
	db db.DBTX
}

func NewSQLiteRunRepo(tx db.DBTX) *SQLiteRunRepo {
	return &SQLiteRunRepo{db: tx}
}

const runColumns = `id, input_path, slug, title, stage, status, error, started_at, finished_at`

// Create inserts r and records its initial stage as the first event.
// A zero StartedAt is filled with the current time.
func (r *SQLiteRunRepo) Create(ctx context.Context, run *domain.Run) error {
	if run.StartedAt.IsZero() {
		run.StartedAt = nowUTC()
	}
	if run.Stage == "" {
		run.Stage = domain.StagePending
	}
	if run.Status == "" {
		run.Status = domain.RunRunning
	}

	query := `INSERT INTO runs (` + runColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.InputPath,
		run.Slug,
		run.Title,
		string(run.Stage),
		string(run.Status),
		run.Error,
		timeToString(run.StartedAt),
		nullableTimeToString(run.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return r.addEvent(ctx, run.ID, run.Stage, run.StartedAt)
}

// UpdateStage advances a run. Empty slug or title leave the stored values.
func (r *SQLiteRunRepo) UpdateStage(ctx context.Context, id string, stage domain.Stage, slug, title string) error {
	query := `UPDATE runs SET
		stage = ?,
		slug = CASE WHEN ? = '' THEN slug ELSE ? END,
		title = CASE WHEN ? = '' THEN title ELSE ? END
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, string(stage), slug, slug, title, title, id)
	if err != nil {
		return fmt.Errorf("updating run stage: %w", err)
	}
	if err := requireAffected(res, "run"); err != nil {
		return err
	}
	return r.addEvent(ctx, id, stage, nowUTC())
}

func (r *SQLiteRunRepo) Finish(ctx context.Context, id string, status domain.RunStatus, errMsg string) error {
	query := `UPDATE runs SET status = ?, error = ?, finished_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, string(status), errMsg, timeToString(nowUTC()), id)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	return requireAffected(res, "run")
}

func (r *SQLiteRunRepo) GetByID(ctx context.Context, id string) (*domain.Run, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	return scanRun(row)
}

// ListRecent returns up to limit runs, newest first. A non-positive limit
// returns every run.
func (r *SQLiteRunRepo) ListRecent(ctx context.Context, limit int) ([]*domain.Run, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *SQLiteRunRepo) LatestBySlug(ctx context.Context, slug string) (*domain.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE slug = ? ORDER BY started_at DESC, rowid DESC LIMIT 1`
	return scanRun(r.db.QueryRowContext(ctx, query, slug))
}

func (r *SQLiteRunRepo) ListEvents(ctx context.Context, runID string) ([]domain.RunEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT run_id, stage, occurred_at FROM run_events WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("listing run events: %w", err)
	}
	defer rows.Close()

	var events []domain.RunEvent
	for rows.Next() {
		var (
			ev    domain.RunEvent
			stage string
			at    string
		)
		if err := rows.Scan(&ev.RunID, &stage, &at); err != nil {
			return nil, fmt.Errorf("scanning run event: %w", err)
		}
		ev.Stage = domain.Stage(stage)
		ev.At, _ = time.Parse(time.RFC3339, at)
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (r *SQLiteRunRepo) addEvent(ctx context.Context, runID string, stage domain.Stage, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO run_events (run_id, stage, occurred_at) VALUES (?, ?, ?)`,
		runID, string(stage), timeToString(at))
	if err != nil {
		return fmt.Errorf("inserting run event: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*domain.Run, error) {
	var (
		run        domain.Run
		stage      string
		status     string
		startedAt  string
		finishedAt sql.NullString
	)
	err := s.Scan(&run.ID, &run.InputPath, &run.Slug, &run.Title, &stage, &status, &run.Error, &startedAt, &finishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	run.Stage = domain.Stage(stage)
	run.Status = domain.RunStatus(status)
	if run.StartedAt, err = time.Parse(time.RFC3339, startedAt); err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	run.FinishedAt = parseNullableTime(finishedAt)
	return &run, nil
}

func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking %s update: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
