package ports

import "labelsplit/internal/domain"

// DatasetRepository defines the interface for reading an image/label directory
type DatasetRepository interface {
	// DataPath returns the resolved directory being read
	DataPath() string

	// StemOf strips the configured image or label extension from name.
	// Any other dots belong to the stem.
	StemOf(name string) string

	// ListImages returns every image in the directory, sorted by filename
	ListImages() ([]domain.ImageRecord, error)

	// FindLabel resolves the label file for an image stem.
	// Returns an error matching domain.ErrLabelNotFound when there is none.
	FindLabel(stem string) (*domain.LabelRecord, error)

	// ReadLabel tokenizes the first line of a label file.
	// Returns an error matching domain.ErrEmptyLabel when the file has no first line.
	ReadLabel(record domain.LabelRecord) (*domain.Label, error)
}
