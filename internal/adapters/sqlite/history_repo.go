// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/crudkit/internal/ports/secondary"
)

// HistoryRepository implements secondary.HistoryRepository with SQLite.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new SQLite history repository.
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Create persists a run and its file outcomes in one transaction.
func (r *HistoryRepository) Create(ctx context.Context, run *secondary.RunRecord) error {
	createdAt := time.Now().UTC()
	if run.CreatedAt != "" {
		parsed, err := time.Parse(time.RFC3339, run.CreatedAt)
		if err != nil {
			return fmt.Errorf("invalid created_at %q: %w", run.CreatedAt, err)
		}
		createdAt = parsed.UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO scaffold_runs (id, model, framework, project_dir, status, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Model,
		run.Framework,
		run.ProjectDir,
		run.Status,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	for i, f := range run.Files {
		var errText sql.NullString
		if f.Error != "" {
			errText = sql.NullString{String: f.Error, Valid: true}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO scaffold_run_files (run_id, position, path, role, status, error) VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, i, f.Path, f.Role, f.Status, errText,
		)
		if err != nil {
			return fmt.Errorf("failed to record file %s: %w", f.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// GetByID retrieves a run with its file outcomes.
func (r *HistoryRepository) GetByID(ctx context.Context, id string) (*secondary.RunRecord, error) {
	var createdAt time.Time
	record := &secondary.RunRecord{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, model, framework, project_dir, status, created_at FROM scaffold_runs WHERE id = ?`,
		id,
	).Scan(&record.ID, &record.Model, &record.Framework, &record.ProjectDir, &record.Status, &createdAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	record.CreatedAt = createdAt.UTC().Format(time.RFC3339)

	if record.Files, err = r.files(ctx, id); err != nil {
		return nil, err
	}
	return record, nil
}

// List retrieves runs matching the given filters, newest first.
func (r *HistoryRepository) List(ctx context.Context, filters secondary.RunFilters) ([]*secondary.RunRecord, error) {
	query := `SELECT id, model, framework, project_dir, status, created_at FROM scaffold_runs WHERE 1=1`
	args := []any{}

	if filters.Model != "" {
		query += " AND model = ?"
		args = append(args, filters.Model)
	}

	query += " ORDER BY created_at DESC, rowid DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*secondary.RunRecord
	for rows.Next() {
		var createdAt time.Time
		record := &secondary.RunRecord{}
		if err := rows.Scan(&record.ID, &record.Model, &record.Framework, &record.ProjectDir, &record.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		record.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		runs = append(runs, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for _, run := range runs {
		if run.Files, err = r.files(ctx, run.ID); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (r *HistoryRepository) files(ctx context.Context, runID string) ([]secondary.RunFileRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT path, role, status, error FROM scaffold_run_files WHERE run_id = ? ORDER BY position`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list run files: %w", err)
	}
	defer rows.Close()

	var files []secondary.RunFileRecord
	for rows.Next() {
		var (
			f       secondary.RunFileRecord
			errText sql.NullString
		)
		if err := rows.Scan(&f.Path, &f.Role, &f.Status, &errText); err != nil {
			return nil, fmt.Errorf("failed to scan run file: %w", err)
		}
		f.Error = errText.String
		files = append(files, f)
	}
	return files, rows.Err()
}

var _ secondary.HistoryRepository = (*HistoryRepository)(nil)
