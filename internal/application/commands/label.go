package commands

import (
	"context"
	"fmt"

	"labelsplit/internal/application"
	"labelsplit/internal/domain"
	"labelsplit/internal/ports"
)

// FindLabelCommand resolves the label file for an image stem
type FindLabelCommand struct {
	repo ports.DatasetRepository
	Stem string
}

// NewFindLabelCommand creates a new FindLabelCommand
func NewFindLabelCommand(repo ports.DatasetRepository, stem string) *FindLabelCommand {
	return &FindLabelCommand{
		repo: repo,
		Stem: stem,
	}
}

// Validate checks the stem
func (c *FindLabelCommand) Validate() error {
	return application.ValidateStem("stem", c.Stem)
}

// Execute runs the find label command.
// A missing label is returned as an error matching domain.ErrLabelNotFound.
func (c *FindLabelCommand) Execute(ctx context.Context) (*domain.LabelRecord, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c.repo.FindLabel(c.Stem)
}

// ParseLabelCommand finds and tokenizes the label of an image stem
type ParseLabelCommand struct {
	repo ports.DatasetRepository
	Stem string
}

// NewParseLabelCommand creates a new ParseLabelCommand.
// stem may also be given as an image or label filename; only the
// repository's configured extensions are stripped from it.
func NewParseLabelCommand(repo ports.DatasetRepository, stem string) *ParseLabelCommand {
	return &ParseLabelCommand{
		repo: repo,
		Stem: repo.StemOf(stem),
	}
}

// Execute runs the parse label command
func (c *ParseLabelCommand) Execute(ctx context.Context) (*domain.Label, error) {
	record, err := NewFindLabelCommand(c.repo, c.Stem).Execute(ctx)
	if err != nil {
		return nil, err
	}

	label, err := c.repo.ReadLabel(*record)
	if err != nil {
		return nil, fmt.Errorf("failed to parse label %s: %w", record.Filename, err)
	}
	return label, nil
}
