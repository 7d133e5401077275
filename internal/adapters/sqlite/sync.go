package sqlite

import (
	"fmt"
	"os"
	"strings"
	"time"

	"labelsplit/internal/domain"
)

// SyncFull performs a complete rebuild of the file index
func (idx *Index) SyncFull() (*domain.SyncStats, error) {
	start := time.Now()
	stats := &domain.SyncStats{}

	files, err := idx.scan()
	if err != nil {
		return nil, err
	}

	sqlTx, err := idx.db.Begin()
	if err != nil {
		return nil, err
	}
	tx := &indexTx{tx: sqlTx}
	defer tx.Rollback()

	// Clear existing data, recorded runs are kept
	if _, err := sqlTx.Exec(`DELETE FROM files`); err != nil {
		return nil, err
	}

	for i := range files {
		stats.FilesScanned++
		if err := tx.UpsertFile(&files[i]); err != nil {
			return nil, fmt.Errorf("failed to index %s: %w", files[i].Name, err)
		}
		stats.FilesAdded++
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	if err := idx.updateMeta(); err != nil {
		return nil, err
	}

	stats.Duration = time.Since(start)
	return stats, nil
}

// SyncIncremental updates only files whose size or mtime changed since the last sync
func (idx *Index) SyncIncremental() (*domain.SyncStats, error) {
	start := time.Now()
	stats := &domain.SyncStats{}

	files, err := idx.scan()
	if err != nil {
		return nil, err
	}

	existing := make(map[string]domain.IndexedFile)
	for _, kind := range []domain.FileKind{domain.FileKindImage, domain.FileKindLabel} {
		indexed, err := idx.ListFiles(kind)
		if err != nil {
			return nil, err
		}
		for _, f := range indexed {
			existing[f.Name] = f
		}
	}

	tx, err := idx.BeginTx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	for i := range files {
		f := files[i]
		stats.FilesScanned++

		old, ok := existing[f.Name]
		delete(existing, f.Name)

		switch {
		case !ok:
			stats.FilesAdded++
		case old.Mtime != f.Mtime || old.Size != f.Size || old.Kind != f.Kind:
			stats.FilesUpdated++
		default:
			continue
		}

		if err := tx.UpsertFile(&f); err != nil {
			return nil, fmt.Errorf("failed to index %s: %w", f.Name, err)
		}
	}

	// Whatever is left was removed from disk
	for name := range existing {
		if err := tx.DeleteFile(name); err != nil {
			return nil, err
		}
		stats.FilesDeleted++
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	if err := idx.updateMeta(); err != nil {
		return nil, err
	}

	stats.Duration = time.Since(start)
	return stats, nil
}

// scan lists the image and label files at the top level of the data directory
func (idx *Index) scan() ([]domain.IndexedFile, error) {
	entries, err := os.ReadDir(idx.dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	var files []domain.IndexedFile
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		kind, ok := idx.classify(entry.Name())
		if !ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue // Removed while scanning
		}

		files = append(files, domain.IndexedFile{
			Name:  entry.Name(),
			Stem:  domain.TrimExt(entry.Name(), idx.imageExt, idx.labelExt),
			Kind:  kind,
			Size:  info.Size(),
			Mtime: info.ModTime().UnixNano(),
		})
	}

	return files, nil
}

func (idx *Index) classify(name string) (domain.FileKind, bool) {
	switch {
	case domain.HasExt(name, idx.imageExt):
		return domain.FileKindImage, true
	case domain.HasExt(name, idx.labelExt):
		return domain.FileKindLabel, true
	default:
		return "", false
	}
}
