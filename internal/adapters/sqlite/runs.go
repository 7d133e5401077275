package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"labelsplit/internal/domain"
)

// RecordRun stores a run and its entries atomically
func (idx *Index) RecordRun(run domain.Run, entries []domain.RunEntry) error {
	tx, err := idx.BeginTx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.InsertRun(&run); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	for i := range entries {
		entries[i].RunID = run.ID
		if err := tx.InsertEntry(&entries[i]); err != nil {
			return fmt.Errorf("failed to insert entry %s: %w", entries[i].Image, err)
		}
	}

	return tx.Commit()
}

// ListRuns returns recorded runs, newest first
func (idx *Index) ListRuns() ([]domain.Run, error) {
	rows, err := idx.db.Query(`
		SELECT id, data_path, ratio, max_items, train_count, test_count, created_at
		FROM runs ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		var r domain.Run
		var createdAt int64
		if err := rows.Scan(&r.ID, &r.DataPath, &r.Ratio, &r.MaxItems, &r.TrainCount, &r.TestCount, &createdAt); err != nil {
			return nil, err
		}
		r.CreatedAt = time.Unix(0, createdAt).UTC()
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// GetRun returns a run by ID, or nil if it was never recorded
func (idx *Index) GetRun(id string) (*domain.Run, error) {
	var r domain.Run
	var createdAt int64

	err := idx.db.QueryRow(`
		SELECT id, data_path, ratio, max_items, train_count, test_count, created_at
		FROM runs WHERE id = ?
	`, id).Scan(&r.ID, &r.DataPath, &r.Ratio, &r.MaxItems, &r.TrainCount, &r.TestCount, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	r.CreatedAt = time.Unix(0, createdAt).UTC()
	return &r, nil
}

// RunEntries returns the entries of a run, train partition first
func (idx *Index) RunEntries(runID string) ([]domain.RunEntry, error) {
	rows, err := idx.db.Query(`
		SELECT run_id, image, partition, position, label_file, tokens, diagnostic
		FROM run_entries WHERE run_id = ?
		ORDER BY CASE partition WHEN 'train' THEN 0 ELSE 1 END, position
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.RunEntry
	for rows.Next() {
		var e domain.RunEntry
		var partition string
		var labelFile, tokens, diagnostic sql.NullString

		if err := rows.Scan(&e.RunID, &e.Image, &partition, &e.Position, &labelFile, &tokens, &diagnostic); err != nil {
			return nil, err
		}

		e.Partition = domain.PartitionTrain
		if partition == domain.PartitionTest.String() {
			e.Partition = domain.PartitionTest
		}
		e.LabelFile = labelFile.String
		if tokens.Valid {
			e.Tokens = strings.Split(tokens.String, " ")
		}
		e.Diagnostic = domain.DiagnosticKind(diagnostic.String)

		entries = append(entries, e)
	}

	return entries, rows.Err()
}
