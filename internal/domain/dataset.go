package domain

import (
	"math"
	"path/filepath"
	"slices"
	"strings"
)

const (
	// DefaultImageExt is the extension of image files picked up by discovery
	DefaultImageExt = ".png"
	// DefaultLabelExt is the extension of label files associated with images
	DefaultLabelExt = ".txt"
	// DefaultSplitRatio is the fraction of images assigned to the training partition
	DefaultSplitRatio = 0.8
	// DefaultMaxItems is how many training images get their labels resolved in a run
	DefaultMaxItems = 5
)

// Partition identifies one side of a dataset split
type Partition int

const (
	PartitionTrain Partition = iota
	PartitionTest
)

func (p Partition) String() string {
	switch p {
	case PartitionTrain:
		return "train"
	case PartitionTest:
		return "test"
	default:
		return "unknown"
	}
}

// ImageRecord is an image file found in the data directory
type ImageRecord struct {
	Filename string // e.g., "0001.png"
	Stem     string // e.g., "0001"
	Path     string
}

// NewImageRecord builds the record for filename inside dir
func NewImageRecord(dir, filename string) ImageRecord {
	return ImageRecord{
		Filename: filename,
		Stem:     Stem(filename),
		Path:     filepath.Join(dir, filename),
	}
}

// DatasetSplit is the ordered partition of images into a training prefix and a test suffix
type DatasetSplit struct {
	Train []ImageRecord
	Test  []ImageRecord
	Ratio float64
}

// Total returns the number of images across both partitions
func (s DatasetSplit) Total() int {
	return len(s.Train) + len(s.Test)
}

// Images returns the images assigned to partition p
func (s DatasetSplit) Images(p Partition) []ImageRecord {
	if p == PartitionTest {
		return s.Test
	}
	return s.Train
}

// Stem returns filename without its final extension
// e.g., "0001.png" -> "0001", "scan.v2.png" -> "scan.v2"
func Stem(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

// ValidateRatio checks that ratio is a usable split fraction
func ValidateRatio(ratio float64) error {
	if math.IsNaN(ratio) || ratio < 0 || ratio > 1 {
		return ErrInvalidRatio
	}
	return nil
}

// TrainCount returns floor(ratio*total), clamped to [0, total].
func TrainCount(total int, ratio float64) int {
	n := int(math.Floor(ratio * float64(total)))
	return max(0, min(n, total))
}

// SplitImages partitions images into train and test keeping the input order.
// An empty input yields two empty partitions.
func SplitImages(images []ImageRecord, ratio float64) DatasetSplit {
	cut := TrainCount(len(images), ratio)
	return DatasetSplit{
		Train: slices.Clone(images[:cut]),
		Test:  slices.Clone(images[cut:]),
		Ratio: ratio,
	}
}

// SortImages sorts images by filename in ascending order
func SortImages(images []ImageRecord) {
	slices.SortFunc(images, func(a, b ImageRecord) int {
		return strings.Compare(a.Filename, b.Filename)
	})
}

// HasExt reports whether name ends with ext. The comparison is case-sensitive.
func HasExt(name, ext string) bool {
	return len(name) > len(ext) && strings.HasSuffix(name, ext)
}

// TrimExt removes the first of exts that name ends with.
// Names carrying none of exts are returned unchanged, so "scan.v2" stays "scan.v2".
func TrimExt(name string, exts ...string) string {
	for _, ext := range exts {
		if ext != "" && HasExt(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}
