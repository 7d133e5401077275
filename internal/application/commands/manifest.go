package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"labelsplit/internal/application"
	"labelsplit/internal/domain"
	"labelsplit/internal/ports"
)

// SyncIndexCommand refreshes the sample index from the data directory
type SyncIndexCommand struct {
	index ports.SampleIndex
	Full  bool
}

// NewSyncIndexCommand creates a new SyncIndexCommand
func NewSyncIndexCommand(index ports.SampleIndex, full bool) *SyncIndexCommand {
	return &SyncIndexCommand{
		index: index,
		Full:  full,
	}
}

// Execute runs a full sync when requested or when the index is stale, an incremental one otherwise
func (c *SyncIndexCommand) Execute(ctx context.Context) (*domain.SyncStats, error) {
	if c.Full || c.index.NeedsFullRebuild() {
		return c.index.SyncFull()
	}
	return c.index.SyncIncremental()
}

// ListIndexedFilesCommand lists the cached directory listing
type ListIndexedFilesCommand struct {
	index ports.SampleIndex
	Kind  domain.FileKind // Empty lists images, then labels
}

// NewListIndexedFilesCommand creates a new ListIndexedFilesCommand
func NewListIndexedFilesCommand(index ports.SampleIndex, kind domain.FileKind) *ListIndexedFilesCommand {
	return &ListIndexedFilesCommand{
		index: index,
		Kind:  kind,
	}
}

// Validate checks the file kind
func (c *ListIndexedFilesCommand) Validate() error {
	switch c.Kind {
	case "", domain.FileKindImage, domain.FileKindLabel:
		return nil
	}
	return &application.ValidationError{
		Field:   "kind",
		Message: fmt.Sprintf("expected %s or %s, got: %s", domain.FileKindImage, domain.FileKindLabel, c.Kind),
	}
}

// Execute runs the list command
func (c *ListIndexedFilesCommand) Execute(ctx context.Context) ([]domain.IndexedFile, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	kinds := []domain.FileKind{domain.FileKindImage, domain.FileKindLabel}
	if c.Kind != "" {
		kinds = []domain.FileKind{c.Kind}
	}

	var files []domain.IndexedFile
	for _, kind := range kinds {
		found, err := c.index.ListFiles(kind)
		if err != nil {
			return nil, fmt.Errorf("failed to list indexed %s files: %w", kind, err)
		}
		files = append(files, found...)
	}
	return files, nil
}

// GetIndexedFileCommand looks up one file in the sample index
type GetIndexedFileCommand struct {
	index ports.SampleIndex
	Name  string
}

// NewGetIndexedFileCommand creates a new GetIndexedFileCommand
func NewGetIndexedFileCommand(index ports.SampleIndex, name string) *GetIndexedFileCommand {
	return &GetIndexedFileCommand{
		index: index,
		Name:  name,
	}
}

// Validate checks the filename
func (c *GetIndexedFileCommand) Validate() error {
	return application.ValidateStem("name", c.Name)
}

// Execute runs the lookup
func (c *GetIndexedFileCommand) Execute(ctx context.Context) (*domain.IndexedFile, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	file, err := c.index.GetFile(c.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s: %w", c.Name, err)
	}
	if file == nil {
		return nil, &application.FileNotIndexedError{Name: c.Name}
	}
	return file, nil
}

// RecordRunCommand stores a run result as a manifest
type RecordRunCommand struct {
	index    ports.SampleIndex
	DataPath string
	MaxItems int
	Result   *domain.RunResult

	now func() time.Time
}

// NewRecordRunCommand creates a new RecordRunCommand
func NewRecordRunCommand(index ports.SampleIndex, dataPath string, maxItems int, result *domain.RunResult) *RecordRunCommand {
	return &RecordRunCommand{
		index:    index,
		DataPath: dataPath,
		MaxItems: maxItems,
		Result:   result,
		now:      time.Now,
	}
}

// Validate checks that there is something to record
func (c *RecordRunCommand) Validate() error {
	if c.Result == nil {
		return &application.ValidationError{Field: "result", Message: "run result is required"}
	}
	return application.ValidateRequired("dataPath", c.DataPath)
}

// Execute records the run and returns it
func (c *RecordRunCommand) Execute(ctx context.Context) (*domain.Run, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	run := domain.Run{
		ID:         uuid.NewString(),
		DataPath:   c.DataPath,
		Ratio:      c.Result.Split.Ratio,
		MaxItems:   c.MaxItems,
		TrainCount: len(c.Result.Split.Train),
		TestCount:  len(c.Result.Split.Test),
		CreatedAt:  c.now().UTC(),
	}

	if err := c.index.RecordRun(run, BuildRunEntries(run.ID, c.Result)); err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}
	return &run, nil
}

// BuildRunEntries flattens a run result into one entry per image, train first
func BuildRunEntries(runID string, result *domain.RunResult) []domain.RunEntry {
	entries := make([]domain.RunEntry, 0, result.Split.Total())

	for _, p := range []domain.Partition{domain.PartitionTrain, domain.PartitionTest} {
		for i, img := range result.Split.Images(p) {
			entry := domain.RunEntry{
				RunID:     runID,
				Image:     img.Filename,
				Partition: p,
				Position:  i,
			}
			if p == domain.PartitionTrain {
				if label, ok := result.LabelFor(img.Stem); ok {
					entry.LabelFile = label.Record.Filename
					entry.Tokens = label.Tokens
				}
				if d, ok := result.DiagnosticFor(img.Filename); ok {
					entry.Diagnostic = d.Kind
				}
			}
			entries = append(entries, entry)
		}
	}

	return entries
}

// ListRunsCommand lists recorded runs, newest first
type ListRunsCommand struct {
	index ports.SampleIndex
}

// NewListRunsCommand creates a new ListRunsCommand
func NewListRunsCommand(index ports.SampleIndex) *ListRunsCommand {
	return &ListRunsCommand{index: index}
}

// Execute runs the list runs command
func (c *ListRunsCommand) Execute(ctx context.Context) ([]domain.Run, error) {
	return c.index.ListRuns()
}

// ShowRunResult is a recorded run with its entries
type ShowRunResult struct {
	Run     domain.Run
	Entries []domain.RunEntry
}

// ShowRunCommand loads one recorded run
type ShowRunCommand struct {
	index ports.SampleIndex
	RunID string
}

// NewShowRunCommand creates a new ShowRunCommand
func NewShowRunCommand(index ports.SampleIndex, runID string) *ShowRunCommand {
	return &ShowRunCommand{
		index: index,
		RunID: runID,
	}
}

// Validate checks the run ID
func (c *ShowRunCommand) Validate() error {
	return application.ValidateRequired("runID", c.RunID)
}

// Execute runs the show command
func (c *ShowRunCommand) Execute(ctx context.Context) (*ShowRunResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	run, err := c.index.GetRun(c.RunID)
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", c.RunID, err)
	}
	if run == nil {
		return nil, &application.RunNotFoundError{RunID: c.RunID}
	}

	entries, err := c.index.RunEntries(run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries of run %s: %w", run.ID, err)
	}
	return &ShowRunResult{Run: *run, Entries: entries}, nil
}
