package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"labelsplit/internal/application"
	"labelsplit/internal/domain"
	"labelsplit/internal/ports"
)

// PrepareCommand runs the full pass: discover, split, then resolve and parse
// the labels of the first MaxItems training images.
type PrepareCommand struct {
	repo     ports.DatasetRepository
	logger   *zap.Logger
	Ratio    float64
	MaxItems int // <= 0 processes every training image
}

// NewPrepareCommand creates a new PrepareCommand
func NewPrepareCommand(repo ports.DatasetRepository, logger *zap.Logger, ratio float64, maxItems int) *PrepareCommand {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrepareCommand{
		repo:     repo,
		logger:   logger,
		Ratio:    ratio,
		MaxItems: maxItems,
	}
}

// Validate checks the run parameters
func (c *PrepareCommand) Validate() error {
	return application.ValidateRatio("ratio", c.Ratio)
}

// Execute runs the prepare command.
// Per-image label problems become diagnostics; only directory errors abort the run.
func (c *PrepareCommand) Execute(ctx context.Context) (*domain.RunResult, error) {
	split, err := NewSplitCommand(c.repo, c.Ratio).Execute(ctx)
	if err != nil {
		return nil, err
	}

	c.logger.Info("dataset split",
		zap.String("dir", c.repo.DataPath()),
		zap.Int("train", len(split.Train)),
		zap.Int("test", len(split.Test)),
	)

	result := &domain.RunResult{Split: *split}

	batch := split.Train
	if c.MaxItems > 0 && len(batch) > c.MaxItems {
		batch = batch[:c.MaxItems]
	}

	for _, img := range batch {
		result.Processed++

		record, err := c.repo.FindLabel(img.Stem)
		if errors.Is(err, domain.ErrLabelNotFound) {
			c.diagnose(result, domain.MissingLabelDiagnostic(img.Filename))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to find label for %s: %w", img.Filename, err)
		}

		if record.Ambiguous {
			c.diagnose(result, domain.Diagnostic{
				Image: img.Filename,
				Kind:  domain.DiagnosticAmbiguousLabel,
				Message: fmt.Sprintf("Multiple labels match image %s (%s), using %s",
					img.Filename, strings.Join(record.Candidates, ", "), record.Filename),
			})
		}

		label, err := c.repo.ReadLabel(*record)
		if errors.Is(err, domain.ErrEmptyLabel) {
			c.diagnose(result, domain.Diagnostic{
				Image:   img.Filename,
				Kind:    domain.DiagnosticEmptyLabel,
				Message: fmt.Sprintf("Empty label file %s for image %s", record.Filename, img.Filename),
			})
			continue
		}
		if err != nil {
			c.diagnose(result, domain.Diagnostic{
				Image:   img.Filename,
				Kind:    domain.DiagnosticReadError,
				Message: fmt.Sprintf("Cannot read label %s for image %s: %v", record.Filename, img.Filename, err),
			})
			continue
		}

		result.Labels = append(result.Labels, *label)
	}

	return result, nil
}

func (c *PrepareCommand) diagnose(result *domain.RunResult, d domain.Diagnostic) {
	result.Diagnostics = append(result.Diagnostics, d)
	c.logger.Warn(d.Message,
		zap.String("image", d.Image),
		zap.String("kind", string(d.Kind)),
	)
}
