package commands

import (
	"context"
	"fmt"

	"labelsplit/internal/application"
	"labelsplit/internal/domain"
	"labelsplit/internal/ports"
)

// DiscoverImagesCommand lists every image in the data directory
type DiscoverImagesCommand struct {
	repo ports.DatasetRepository
}

// NewDiscoverImagesCommand creates a new DiscoverImagesCommand
func NewDiscoverImagesCommand(repo ports.DatasetRepository) *DiscoverImagesCommand {
	return &DiscoverImagesCommand{repo: repo}
}

// Execute runs the discover command
func (c *DiscoverImagesCommand) Execute(ctx context.Context) ([]domain.ImageRecord, error) {
	images, err := c.repo.ListImages()
	if err != nil {
		return nil, fmt.Errorf("failed to discover images: %w", err)
	}
	return images, nil
}

// SplitCommand partitions the discovered images into train and test
type SplitCommand struct {
	repo  ports.DatasetRepository
	Ratio float64
}

// NewSplitCommand creates a new SplitCommand
func NewSplitCommand(repo ports.DatasetRepository, ratio float64) *SplitCommand {
	return &SplitCommand{
		repo:  repo,
		Ratio: ratio,
	}
}

// Validate checks the split ratio
func (c *SplitCommand) Validate() error {
	return application.ValidateRatio("ratio", c.Ratio)
}

// Execute runs the split command
func (c *SplitCommand) Execute(ctx context.Context) (*domain.DatasetSplit, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	images, err := NewDiscoverImagesCommand(c.repo).Execute(ctx)
	if err != nil {
		return nil, err
	}

	split := domain.SplitImages(images, c.Ratio)
	return &split, nil
}
