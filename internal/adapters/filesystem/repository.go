package filesystem

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"labelsplit/internal/domain"
)

// Repository implements ports.DatasetRepository using a flat directory
type Repository struct {
	dataPath  string
	imageExt  string
	labelExt  string
	matchMode domain.MatchMode
	logger    *zap.Logger
}

// Option configures the Repository
type Option func(*Repository)

// WithImageExt sets the extension used to discover images
func WithImageExt(ext string) Option {
	return func(r *Repository) {
		r.imageExt = ext
	}
}

// WithLabelExt sets the extension of label files
func WithLabelExt(ext string) Option {
	return func(r *Repository) {
		r.labelExt = ext
	}
}

// WithMatchMode sets how label files are associated with image stems
func WithMatchMode(mode domain.MatchMode) Option {
	return func(r *Repository) {
		r.matchMode = mode
	}
}

// WithLogger sets the logger used for discovery details
func WithLogger(logger *zap.Logger) Option {
	return func(r *Repository) {
		r.logger = logger
	}
}

// NewRepository creates a new filesystem repository
func NewRepository(dataPath string, opts ...Option) *Repository {
	r := &Repository{
		dataPath:  ExpandHome(dataPath),
		imageExt:  domain.DefaultImageExt,
		labelExt:  domain.DefaultLabelExt,
		matchMode: domain.MatchExact,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// DataPath returns the resolved data directory
func (r *Repository) DataPath() string {
	return r.dataPath
}

// StemOf returns name without the configured image or label extension
func (r *Repository) StemOf(name string) string {
	return domain.TrimExt(name, r.imageExt, r.labelExt)
}

// ListImages returns all images in the data directory, sorted by filename
func (r *Repository) ListImages() ([]domain.ImageRecord, error) {
	entries, err := os.ReadDir(r.dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	var images []domain.ImageRecord
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !domain.HasExt(entry.Name(), r.imageExt) {
			continue
		}
		images = append(images, domain.NewImageRecord(r.dataPath, entry.Name()))
	}

	// os.ReadDir already sorts, but the split depends on it
	domain.SortImages(images)

	r.logger.Debug("discovered images",
		zap.String("dir", r.dataPath),
		zap.Int("entries", len(entries)),
		zap.Int("images", len(images)),
	)

	return images, nil
}

// FindLabel resolves the label file for stem
func (r *Repository) FindLabel(stem string) (*domain.LabelRecord, error) {
	entries, err := os.ReadDir(r.dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	var candidates []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if domain.MatchesLabel(entry.Name(), stem, r.labelExt, r.matchMode) {
			candidates = append(candidates, entry.Name())
		}
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w for stem %s", domain.ErrLabelNotFound, stem)
	}

	sort.Strings(candidates)
	name := candidates[0]

	return &domain.LabelRecord{
		Filename:   name,
		Stem:       stem,
		Path:       filepath.Join(r.dataPath, name),
		Ambiguous:  len(candidates) > 1,
		Candidates: candidates,
	}, nil
}

// ReadLabel tokenizes the first line of a label file
func (r *Repository) ReadLabel(record domain.LabelRecord) (*domain.Label, error) {
	f, err := os.Open(record.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open label: %w", err)
	}
	defer f.Close()

	raw, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read label: %w", err)
	}

	line, ok := domain.FirstLine(raw)
	if !ok {
		return nil, &domain.LabelFormatError{Path: record.Path, Reason: "no first line"}
	}

	return &domain.Label{
		Record: record,
		Tokens: domain.TokenizeLabelLine(line),
	}, nil
}
