package db

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrRunNotFound is returned for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// Store reads and writes run results.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// RegisterFile returns the file's ID, inserting it when new.
func (s *Store) RegisterFile(path string) (id int64, created bool, err error) {
	err = s.db.QueryRow(`SELECT id FROM files WHERE file_path = ?`, path).Scan(&id)
	if err == nil {
		return id, false, nil
	}
	if err != sql.ErrNoRows {
		return 0, false, fmt.Errorf("querying %s: %w", path, err)
	}
	res, err := s.db.Exec(`INSERT INTO files (file_path) VALUES (?)`, path)
	if err != nil {
		return 0, false, fmt.Errorf("inserting %s: %w", path, err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("reading id of %s: %w", path, err)
	}
	return id, true, nil
}

// RegisterOutline returns the outline's ID, inserting it when new and
// refreshing its line otherwise.
func (s *Store) RegisterOutline(fileID int64, name string, line int) (id int64, created bool, err error) {
	err = s.db.QueryRow(`SELECT id FROM outlines WHERE file_id = ? AND name = ?`, fileID, name).Scan(&id)
	if err == nil {
		if _, err := s.db.Exec(`UPDATE outlines SET line = ?, updated_at = datetime('now') WHERE id = ?`, line, id); err != nil {
			return 0, false, fmt.Errorf("updating outline %q: %w", name, err)
		}
		return id, false, nil
	}
	if err != sql.ErrNoRows {
		return 0, false, fmt.Errorf("querying outline %q: %w", name, err)
	}
	res, err := s.db.Exec(`INSERT INTO outlines (file_id, name, line) VALUES (?, ?, ?)`, fileID, name, line)
	if err != nil {
		return 0, false, fmt.Errorf("inserting outline %q: %w", name, err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("reading id of outline %q: %w", name, err)
	}
	return id, true, nil
}

func (s *Store) BeginRun(runID string, dryRun bool) error {
	if _, err := s.db.Exec(`INSERT INTO runs (id, dry_run) VALUES (?, ?)`, runID, dryRun); err != nil {
		return fmt.Errorf("inserting run %s: %w", runID, err)
	}
	return nil
}

func (s *Store) FinishRun(runID, status string) error {
	res, err := s.db.Exec(`UPDATE runs SET status = ?, finished_at = datetime('now') WHERE id = ?`, status, runID)
	if err != nil {
		return fmt.Errorf("finishing run %s: %w", runID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finishing run %s: %w", runID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

// RowRecord is one executed examples row and its attributed cells.
type RowRecord struct {
	RunID     string
	OutlineID int64
	Examples  string
	Line      int
	Status    string
	Cells     []CellRecord
}

type CellRecord struct {
	Position int
	Column   string
	Value    string
	Status   string
}

// RecordRow stores a row and its cells in one transaction.
func (s *Store) RecordRow(r RowRecord) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning row transaction: %w", err)
	}

	res, err := tx.Exec(`INSERT INTO row_results (run_id, outline_id, examples_name, line, status) VALUES (?, ?, ?, ?, ?)`,
		r.RunID, r.OutlineID, r.Examples, r.Line, r.Status)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("inserting row at line %d: %w", r.Line, err)
	}
	rowID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("reading row id: %w", err)
	}

	for _, c := range r.Cells {
		if _, err := tx.Exec(`INSERT INTO cell_results (row_result_id, position, column_name, value, status) VALUES (?, ?, ?, ?, ?)`,
			rowID, c.Position, c.Column, c.Value, c.Status); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("inserting cell %d at line %d: %w", c.Position, r.Line, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing row at line %d: %w", r.Line, err)
	}
	return rowID, nil
}

// RunSummary is one line of run history.
type RunSummary struct {
	ID        string
	DryRun    bool
	Status    string
	StartedAt string
	Rows      int
}

// ListRuns returns the most recent runs first.
func (s *Store) ListRuns(limit int) ([]RunSummary, error) {
	rows, err := s.db.Query(`
		SELECT r.id, r.dry_run, r.status, r.started_at,
			(SELECT COUNT(*) FROM row_results WHERE run_id = r.id) AS row_count
		FROM runs r
		ORDER BY r.started_at DESC, r.rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.DryRun, &r.Status, &r.StartedAt, &r.Rows); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return out, nil
}

// CellResult is a stored cell joined with its row and outline.
type CellResult struct {
	FilePath string
	Outline  string
	Examples string
	Line     int
	CellRecord
}

// RunCells returns every attributed cell of a run in execution order.
func (s *Store) RunCells(runID string) ([]CellResult, error) {
	var exists string
	if err := s.db.QueryRow(`SELECT id FROM runs WHERE id = ?`, runID).Scan(&exists); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, fmt.Errorf("querying run %s: %w", runID, err)
	}

	rows, err := s.db.Query(`
		SELECT f.file_path, o.name, rr.examples_name, rr.line, c.position, c.column_name, c.value, c.status
		FROM cell_results c
		JOIN row_results rr ON c.row_result_id = rr.id
		JOIN outlines o ON rr.outline_id = o.id
		JOIN files f ON o.file_id = f.id
		WHERE rr.run_id = ?
		ORDER BY rr.id, c.position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying cells: %w", err)
	}
	defer rows.Close()

	var out []CellResult
	for rows.Next() {
		var c CellResult
		if err := rows.Scan(&c.FilePath, &c.Outline, &c.Examples, &c.Line, &c.Position, &c.Column, &c.Value, &c.Status); err != nil {
			return nil, fmt.Errorf("scanning cell: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cells: %w", err)
	}
	return out, nil
}

// RowStatusCounts counts a run's rows by status, most frequent first.
func (s *Store) RowStatusCounts(runID string) ([]StatusCount, error) {
	rows, err := s.db.Query(`
		SELECT status, COUNT(*) AS cnt
		FROM row_results
		WHERE run_id = ?
		GROUP BY status
		ORDER BY cnt DESC, status
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying status counts: %w", err)
	}
	defer rows.Close()

	var out []StatusCount
	for rows.Next() {
		var c StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning status row: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type StatusCount struct {
	Status string
	Count  int
}

// LatestRun returns the most recent run, or ErrRunNotFound.
func (s *Store) LatestRun() (RunSummary, error) {
	runs, err := s.ListRuns(1)
	if err != nil {
		return RunSummary{}, err
	}
	if len(runs) == 0 {
		return RunSummary{}, ErrRunNotFound
	}
	return runs[0], nil
}
