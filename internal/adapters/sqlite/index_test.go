package sqlite

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labelsplit/internal/adapters/filesystem"
	"labelsplit/internal/domain"
)

func setupDataDir(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func openIndex(t *testing.T, dataPath string, opts ...Option) *Index {
	t.Helper()

	t.Setenv("XDG_DATA_HOME", t.TempDir())
	idx := NewIndex(opts...)
	require.NoError(t, idx.Open(dataPath))
	t.Cleanup(func() { idx.Close() })
	return idx
}

func fileNames(files []domain.IndexedFile) []string {
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}
	return names
}

func TestOpen_UsesXDGDataHome(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	idx := NewIndex()
	require.NoError(t, idx.Open(t.TempDir()))
	defer idx.Close()

	assert.Equal(t, filepath.Join(dataHome, "labelsplit"), filepath.Dir(idx.Path()))
	assert.FileExists(t, idx.Path())
}

func TestOpen_WithDatabasePath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "manifest.db")

	idx := NewIndex(WithDatabasePath(dbPath))
	require.NoError(t, idx.Open(t.TempDir()))
	defer idx.Close()

	assert.Equal(t, dbPath, idx.Path())
	assert.FileExists(t, dbPath)
}

func TestOpen_KeepsDataPathAsGiven(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	dataPath := "~/datasets/cells"
	idx := NewIndex()
	require.NoError(t, idx.Open(dataPath))
	defer idx.Close()

	assert.Equal(t, dataPath, idx.DataPath())
	assert.Equal(t, databasePath(dataPath), idx.Path())
}

func TestOpen_SameIndexForRepositoryPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	require.NoError(t, os.MkdirAll(filepath.Join(home, "cells"), 0755))

	repo := filesystem.NewRepository("~/cells")
	require.Equal(t, filepath.Join(home, "cells"), repo.DataPath())

	idx := NewIndex()
	require.NoError(t, idx.Open(repo.DataPath()))
	defer idx.Close()

	assert.Equal(t, databasePath(filepath.Join(home, "cells")), idx.Path())
}

func TestNeedsFullRebuild(t *testing.T) {
	dir := setupDataDir(t, map[string]string{"0001.png": "x"})
	idx := openIndex(t, dir)

	assert.True(t, idx.NeedsFullRebuild())

	_, err := idx.SyncFull()
	require.NoError(t, err)
	assert.False(t, idx.NeedsFullRebuild())
}

func TestSyncFull_ClassifiesFiles(t *testing.T) {
	dir := setupDataDir(t, map[string]string{
		"0002.png":    "img",
		"0001.png":    "img",
		"0001.txt":    "1 2 3",
		"notes.md":    "skip",
		".hidden.png": "skip",
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0755))
	idx := openIndex(t, dir)

	stats, err := idx.SyncFull()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.FilesAdded)
	assert.Equal(t, 3, stats.FilesScanned)

	images, err := idx.ListFiles(domain.FileKindImage)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001.png", "0002.png"}, fileNames(images))

	labels, err := idx.ListFiles(domain.FileKindLabel)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001.txt"}, fileNames(labels))

	f, err := idx.GetFile("0001.txt")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "0001", f.Stem)
	assert.Equal(t, int64(5), f.Size)

	missing, err := idx.GetFile("notes.md")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSyncFull_CustomExtensions(t *testing.T) {
	dir := setupDataDir(t, map[string]string{
		"a.jpg":   "img",
		"a.label": "1",
		"b.png":   "img",
	})
	idx := openIndex(t, dir, WithExtensions(".jpg", ".label"))

	_, err := idx.SyncFull()
	require.NoError(t, err)

	images, err := idx.ListFiles(domain.FileKindImage)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg"}, fileNames(images))

	labels, err := idx.ListFiles(domain.FileKindLabel)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.label"}, fileNames(labels))
}

func TestSyncIncremental(t *testing.T) {
	dir := setupDataDir(t, map[string]string{
		"0001.png": "img",
		"0001.txt": "1 2 3",
		"0002.png": "img",
	})
	idx := openIndex(t, dir)

	_, err := idx.SyncFull()
	require.NoError(t, err)

	// Nothing changed
	stats, err := idx.SyncIncremental()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.FilesAdded)
	assert.Equal(t, 0, stats.FilesUpdated)
	assert.Equal(t, 0, stats.FilesDeleted)
	assert.Equal(t, 3, stats.FilesScanned)

	// Add, modify and remove one file each
	require.NoError(t, os.WriteFile(filepath.Join(dir, "0003.png"), []byte("img"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "0001.txt"), []byte("1 2 3 4 5"), 0644))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "0001.txt"), future, future))
	require.NoError(t, os.Remove(filepath.Join(dir, "0002.png")))

	stats, err = idx.SyncIncremental()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FilesAdded)
	assert.Equal(t, 1, stats.FilesUpdated)
	assert.Equal(t, 1, stats.FilesDeleted)

	images, err := idx.ListFiles(domain.FileKindImage)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001.png", "0003.png"}, fileNames(images))

	label, err := idx.GetFile("0001.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(9), label.Size)
}

func TestSync_MissingDirectory(t *testing.T) {
	idx := openIndex(t, filepath.Join(t.TempDir(), "gone"))

	_, err := idx.SyncFull()
	assert.Error(t, err)
}

func TestRecordRun(t *testing.T) {
	idx := openIndex(t, t.TempDir())

	older := domain.Run{
		ID: "run-old", DataPath: "/data", Ratio: 0.5, MaxItems: 5,
		TrainCount: 1, TestCount: 1,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, idx.RecordRun(older, nil))

	newer := domain.Run{
		ID: "run-new", DataPath: "/data", Ratio: 0.8, MaxItems: 1,
		TrainCount: 1, TestCount: 1,
		CreatedAt: time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC),
	}
	entries := []domain.RunEntry{
		{Image: "0002.png", Partition: domain.PartitionTest, Position: 0},
		{Image: "0001.png", Partition: domain.PartitionTrain, Position: 0, LabelFile: "0001.txt", Tokens: []string{"1", "", "3"}},
	}
	require.NoError(t, idx.RecordRun(newer, entries))

	runs, err := idx.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newer, runs[0])
	assert.Equal(t, "run-old", runs[1].ID)

	got, err := idx.RunEntries("run-new")
	require.NoError(t, err)
	assert.Equal(t, []domain.RunEntry{
		{RunID: "run-new", Image: "0001.png", Partition: domain.PartitionTrain, Position: 0, LabelFile: "0001.txt", Tokens: []string{"1", "", "3"}},
		{RunID: "run-new", Image: "0002.png", Partition: domain.PartitionTest, Position: 0},
	}, got)

	none, err := idx.RunEntries("unknown")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetRun(t *testing.T) {
	idx := openIndex(t, t.TempDir())

	run := domain.Run{
		ID: "run-1", DataPath: "/data", Ratio: 0.8, MaxItems: 10,
		TrainCount: 8, TestCount: 2,
		CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, idx.RecordRun(run, nil))
	require.NoError(t, idx.RecordRun(domain.Run{ID: "run-2", DataPath: "/data", CreatedAt: time.Now()}, nil))

	got, err := idx.GetRun("run-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, run, *got)

	got, err = idx.GetRun("unknown")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRecordRun_MissingLabelDiagnostic(t *testing.T) {
	idx := openIndex(t, t.TempDir())

	run := domain.Run{ID: "r", DataPath: "/d", CreatedAt: time.Now().UTC()}
	require.NoError(t, idx.RecordRun(run, []domain.RunEntry{
		{Image: "0002.png", Partition: domain.PartitionTrain, Diagnostic: domain.DiagnosticMissingLabel},
	}))

	got, err := idx.RunEntries("r")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.DiagnosticMissingLabel, got[0].Diagnostic)
	assert.Nil(t, got[0].Tokens)
	assert.Empty(t, got[0].LabelFile)
}

func TestRecordRun_DuplicateIDRollsBack(t *testing.T) {
	idx := openIndex(t, t.TempDir())

	run := domain.Run{ID: "dup", DataPath: "/d", CreatedAt: time.Now().UTC()}
	require.NoError(t, idx.RecordRun(run, nil))

	err := idx.RecordRun(run, []domain.RunEntry{{Image: "0001.png"}})
	require.Error(t, err)

	entries, err := idx.RunEntries("dup")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func BenchmarkSyncFull(b *testing.B) {
	dir := b.TempDir()
	for i := range 500 {
		stem := filepath.Join(dir, fmt.Sprintf("%04d", i))
		os.WriteFile(stem+".png", []byte("img"), 0644)
		os.WriteFile(stem+".txt", []byte("1 2 3"), 0644)
	}

	idx := NewIndex(WithDatabasePath(filepath.Join(b.TempDir(), "bench.db")))
	if err := idx.Open(dir); err != nil {
		b.Fatal(err)
	}
	defer idx.Close()

	b.ResetTimer()
	for b.Loop() {
		if _, err := idx.SyncFull(); err != nil {
			b.Fatal(err)
		}
	}
}
