package ports

import "labelsplit/internal/domain"

// SampleIndex caches the data directory listing and stores recorded runs.
type SampleIndex interface {
	// Lifecycle
	Open(dataPath string) error
	Close() error

	// Sync operations
	NeedsFullRebuild() bool
	SyncIncremental() (*domain.SyncStats, error)
	SyncFull() (*domain.SyncStats, error)

	// File queries
	GetFile(name string) (*domain.IndexedFile, error)
	ListFiles(kind domain.FileKind) ([]domain.IndexedFile, error)

	// Run manifests
	RecordRun(run domain.Run, entries []domain.RunEntry) error
	ListRuns() ([]domain.Run, error)
	GetRun(id string) (*domain.Run, error)
	RunEntries(runID string) ([]domain.RunEntry, error)

	BeginTx() (IndexTx, error)
}

// IndexTx represents a transaction for atomic index updates
type IndexTx interface {
	UpsertFile(file *domain.IndexedFile) error
	DeleteFile(name string) error

	InsertRun(run *domain.Run) error
	InsertEntry(entry *domain.RunEntry) error

	Commit() error
	Rollback() error
}
