package domain

import "time"

// FileKind distinguishes indexed images from label files
type FileKind string

const (
	FileKindImage FileKind = "image"
	FileKindLabel FileKind = "label"
)

// IndexedFile represents a cached data directory entry
type IndexedFile struct {
	Name  string // Filename relative to the data directory (primary key)
	Stem  string
	Kind  FileKind
	Size  int64
	Mtime int64 // Unix nanoseconds for incremental sync
}

// SyncStats holds statistics from a sync operation
type SyncStats struct {
	FilesAdded   int
	FilesUpdated int
	FilesDeleted int
	FilesScanned int
	Duration     time.Duration
}

// Run is a recorded preparation pass
type Run struct {
	ID         string
	DataPath   string
	Ratio      float64
	MaxItems   int
	TrainCount int
	TestCount  int
	CreatedAt  time.Time
}

// RunEntry is one image of a recorded run
type RunEntry struct {
	RunID      string
	Image      string
	Partition  Partition
	Position   int
	LabelFile  string
	Tokens     []string
	Diagnostic DiagnosticKind
}
