package sqlite

import (
	"database/sql"
	"strings"

	"labelsplit/internal/domain"
	"labelsplit/internal/ports"
)

// indexTx implements ports.IndexTx
type indexTx struct {
	tx *sql.Tx
}

// Ensure indexTx implements IndexTx
var _ ports.IndexTx = (*indexTx)(nil)

// UpsertFile inserts or updates an indexed file
func (t *indexTx) UpsertFile(file *domain.IndexedFile) error {
	_, err := t.tx.Exec(`
		INSERT OR REPLACE INTO files (name, stem, kind, size, mtime)
		VALUES (?, ?, ?, ?, ?)
	`, file.Name, file.Stem, string(file.Kind), file.Size, file.Mtime)
	return err
}

// DeleteFile removes an indexed file by name
func (t *indexTx) DeleteFile(name string) error {
	_, err := t.tx.Exec(`DELETE FROM files WHERE name = ?`, name)
	return err
}

// InsertRun adds a run header
func (t *indexTx) InsertRun(run *domain.Run) error {
	_, err := t.tx.Exec(`
		INSERT INTO runs (id, data_path, ratio, max_items, train_count, test_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.DataPath, run.Ratio, run.MaxItems, run.TrainCount, run.TestCount, run.CreatedAt.UnixNano())
	return err
}

// InsertEntry adds one image of a run
func (t *indexTx) InsertEntry(entry *domain.RunEntry) error {
	var tokens any
	if entry.LabelFile != "" {
		tokens = strings.Join(entry.Tokens, " ")
	}

	_, err := t.tx.Exec(`
		INSERT INTO run_entries (run_id, image, partition, position, label_file, tokens, diagnostic)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.RunID, entry.Image, entry.Partition.String(), entry.Position,
		nullString(entry.LabelFile), tokens, nullString(string(entry.Diagnostic)))
	return err
}

// Commit commits the transaction
func (t *indexTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *indexTx) Rollback() error {
	return t.tx.Rollback()
}

// nullString returns nil for empty strings (for nullable columns)
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
