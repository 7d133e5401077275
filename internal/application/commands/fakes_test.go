package commands

import (
	"errors"
	"fmt"
	"sort"

	"labelsplit/internal/domain"
	"labelsplit/internal/ports"
)

// fakeRepo is an in-memory ports.DatasetRepository
type fakeRepo struct {
	images   []domain.ImageRecord
	labels   map[string]*domain.LabelRecord
	tokens   map[string][]string
	listErr  error
	findErr  error
	readErrs map[string]error
}

var _ ports.DatasetRepository = (*fakeRepo)(nil)

func (r *fakeRepo) DataPath() string { return "/fake" }

func (r *fakeRepo) StemOf(name string) string {
	return domain.TrimExt(name, domain.DefaultImageExt, domain.DefaultLabelExt)
}

func (r *fakeRepo) ListImages() ([]domain.ImageRecord, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.images, nil
}

func (r *fakeRepo) FindLabel(stem string) (*domain.LabelRecord, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	if rec, ok := r.labels[stem]; ok {
		return rec, nil
	}
	return nil, fmt.Errorf("%w for stem %s", domain.ErrLabelNotFound, stem)
}

func (r *fakeRepo) ReadLabel(record domain.LabelRecord) (*domain.Label, error) {
	if err, ok := r.readErrs[record.Stem]; ok {
		return nil, err
	}
	return &domain.Label{Record: record, Tokens: r.tokens[record.Stem]}, nil
}

// fakeIndex is an in-memory ports.SampleIndex for manifest commands
type fakeIndex struct {
	runs        []domain.Run
	entries     map[string][]domain.RunEntry
	stale       bool
	fullSyncs   int
	incremental int
	recordErr   error
	getRunErr   error
	listCalls   int
	files       []domain.IndexedFile
}

var _ ports.SampleIndex = (*fakeIndex)(nil)

func (f *fakeIndex) Open(string) error      { return nil }
func (f *fakeIndex) Close() error           { return nil }
func (f *fakeIndex) NeedsFullRebuild() bool { return f.stale }

func (f *fakeIndex) SyncIncremental() (*domain.SyncStats, error) {
	f.incremental++
	return &domain.SyncStats{}, nil
}

func (f *fakeIndex) SyncFull() (*domain.SyncStats, error) {
	f.fullSyncs++
	return &domain.SyncStats{}, nil
}

func (f *fakeIndex) GetFile(name string) (*domain.IndexedFile, error) {
	for i := range f.files {
		if f.files[i].Name == name {
			return &f.files[i], nil
		}
	}
	return nil, nil
}

func (f *fakeIndex) ListFiles(kind domain.FileKind) ([]domain.IndexedFile, error) {
	var files []domain.IndexedFile
	for _, file := range f.files {
		if file.Kind == kind {
			files = append(files, file)
		}
	}
	return files, nil
}

func (f *fakeIndex) RecordRun(run domain.Run, entries []domain.RunEntry) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	if f.entries == nil {
		f.entries = make(map[string][]domain.RunEntry)
	}
	f.runs = append(f.runs, run)
	f.entries[run.ID] = entries
	return nil
}

func (f *fakeIndex) ListRuns() ([]domain.Run, error) {
	f.listCalls++
	runs := append([]domain.Run(nil), f.runs...)
	sort.Slice(runs, func(i, j int) bool { return runs[i].CreatedAt.After(runs[j].CreatedAt) })
	return runs, nil
}

func (f *fakeIndex) GetRun(id string) (*domain.Run, error) {
	if f.getRunErr != nil {
		return nil, f.getRunErr
	}
	for i := range f.runs {
		if f.runs[i].ID == id {
			return &f.runs[i], nil
		}
	}
	return nil, nil
}

func (f *fakeIndex) RunEntries(runID string) ([]domain.RunEntry, error) {
	return f.entries[runID], nil
}

func (f *fakeIndex) BeginTx() (ports.IndexTx, error) {
	return nil, errors.New("not supported")
}
