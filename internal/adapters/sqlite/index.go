package sqlite

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"labelsplit/internal/domain"
	"labelsplit/internal/ports"
)

const schemaVersion = "1"

// Index implements ports.SampleIndex using SQLite
type Index struct {
	db       *sql.DB
	dataPath string
	dbPath   string
	imageExt string
	labelExt string
}

// Ensure Index implements SampleIndex
var _ ports.SampleIndex = (*Index)(nil)

// Option configures the Index
type Option func(*Index)

// WithDatabasePath stores the index at path instead of the XDG data directory
func WithDatabasePath(path string) Option {
	return func(idx *Index) {
		idx.dbPath = path
	}
}

// WithExtensions sets the extensions used to classify images and labels
func WithExtensions(imageExt, labelExt string) Option {
	return func(idx *Index) {
		idx.imageExt = imageExt
		idx.labelExt = labelExt
	}
}

// NewIndex creates a new SQLite index
func NewIndex(opts ...Option) *Index {
	idx := &Index{
		imageExt: domain.DefaultImageExt,
		labelExt: domain.DefaultLabelExt,
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Open initializes the index for the given data directory.
// dataPath must already be resolved, as returned by the dataset repository.
func (idx *Index) Open(dataPath string) error {
	idx.dataPath = dataPath
	if idx.dbPath == "" {
		idx.dbPath = databasePath(dataPath)
	}

	if err := os.MkdirAll(filepath.Dir(idx.dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", idx.dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	idx.db = db

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;

		CREATE TABLE IF NOT EXISTS files (
			name TEXT PRIMARY KEY,
			stem TEXT NOT NULL,
			kind TEXT NOT NULL,
			size INTEGER NOT NULL,
			mtime INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			data_path TEXT NOT NULL,
			ratio REAL NOT NULL,
			max_items INTEGER NOT NULL,
			train_count INTEGER NOT NULL,
			test_count INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS run_entries (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			image TEXT NOT NULL,
			partition TEXT NOT NULL,
			position INTEGER NOT NULL,
			label_file TEXT,
			tokens TEXT,
			diagnostic TEXT,
			PRIMARY KEY (run_id, image)
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_files_stem ON files(stem);
		CREATE INDEX IF NOT EXISTS idx_files_kind ON files(kind);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	return nil
}

// Close closes the database connection
func (idx *Index) Close() error {
	if idx.db != nil {
		return idx.db.Close()
	}
	return nil
}

// Path returns the database file location
func (idx *Index) Path() string {
	return idx.dbPath
}

// DataPath returns the data directory the index was opened for
func (idx *Index) DataPath() string {
	return idx.dataPath
}

// NeedsFullRebuild returns true if the index was built by another schema or for another directory
func (idx *Index) NeedsFullRebuild() bool {
	version, _ := idx.meta("schema_version")
	dataHash, _ := idx.meta("data_path_hash")

	return version != schemaVersion || dataHash != hashDataPath(idx.dataPath)
}

// databasePath returns the default path for the SQLite database
func databasePath(dataPath string) string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, "labelsplit", hashDataPath(dataPath)+".db")
}

// hashDataPath returns a short hash of the data path
func hashDataPath(dataPath string) string {
	h := sha256.Sum256([]byte(dataPath))
	return hex.EncodeToString(h[:8]) // First 8 bytes = 16 hex chars
}

func (idx *Index) meta(key string) (string, error) {
	var value string
	err := idx.db.QueryRow(`SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	return value, err
}

func (idx *Index) setMeta(key, value string) error {
	_, err := idx.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, key, value)
	return err
}

// updateMeta records the schema version and data path hash
func (idx *Index) updateMeta() error {
	if err := idx.setMeta("schema_version", schemaVersion); err != nil {
		return err
	}
	if err := idx.setMeta("data_path_hash", hashDataPath(idx.dataPath)); err != nil {
		return err
	}
	return idx.setMeta("last_sync_time", fmt.Sprint(time.Now().Unix()))
}

// GetFile retrieves an indexed file by name, or nil when it is not indexed
func (idx *Index) GetFile(name string) (*domain.IndexedFile, error) {
	var f domain.IndexedFile
	var kind string

	err := idx.db.QueryRow(`
		SELECT name, stem, kind, size, mtime
		FROM files WHERE name = ?
	`, name).Scan(&f.Name, &f.Stem, &kind, &f.Size, &f.Mtime)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	f.Kind = domain.FileKind(kind)
	return &f, nil
}

// ListFiles returns all indexed files of a kind, sorted by name
func (idx *Index) ListFiles(kind domain.FileKind) ([]domain.IndexedFile, error) {
	rows, err := idx.db.Query(`
		SELECT name, stem, kind, size, mtime
		FROM files WHERE kind = ? ORDER BY name
	`, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []domain.IndexedFile
	for rows.Next() {
		var f domain.IndexedFile
		var k string
		if err := rows.Scan(&f.Name, &f.Stem, &k, &f.Size, &f.Mtime); err != nil {
			return nil, err
		}
		f.Kind = domain.FileKind(k)
		files = append(files, f)
	}

	return files, rows.Err()
}

// BeginTx starts a new transaction
func (idx *Index) BeginTx() (ports.IndexTx, error) {
	tx, err := idx.db.Begin()
	if err != nil {
		return nil, err
	}
	return &indexTx{tx: tx}, nil
}
