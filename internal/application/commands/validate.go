package commands

import (
	"context"

	"labelsplit/internal/ports"
)

// ValidateImagesResult summarizes a decode pass over the data directory
type ValidateImagesResult struct {
	Reports   []ports.ImageReport
	Valid     int
	Invalid   int
	TotalSize int64
}

// InvalidReports returns only the images that failed to decode
func (r *ValidateImagesResult) InvalidReports() []ports.ImageReport {
	var invalid []ports.ImageReport
	for _, report := range r.Reports {
		if !report.Valid() {
			invalid = append(invalid, report)
		}
	}
	return invalid
}

// ValidateImagesCommand decodes every discovered image
type ValidateImagesCommand struct {
	repo      ports.DatasetRepository
	validator ports.ImageValidator

	// OnStart is called with the number of images before decoding starts
	OnStart func(total int)
	// OnProgress is called after each decoded image
	OnProgress func(done int)
}

// NewValidateImagesCommand creates a new ValidateImagesCommand
func NewValidateImagesCommand(repo ports.DatasetRepository, validator ports.ImageValidator) *ValidateImagesCommand {
	return &ValidateImagesCommand{
		repo:      repo,
		validator: validator,
	}
}

// Execute runs the validation
func (c *ValidateImagesCommand) Execute(ctx context.Context) (*ValidateImagesResult, error) {
	images, err := NewDiscoverImagesCommand(c.repo).Execute(ctx)
	if err != nil {
		return nil, err
	}

	if c.OnStart != nil {
		c.OnStart(len(images))
	}

	return summarize(c.validator.Validate(images, c.OnProgress)), nil
}

func summarize(reports []ports.ImageReport) *ValidateImagesResult {
	result := &ValidateImagesResult{Reports: reports}
	for _, r := range reports {
		result.TotalSize += r.Size
		if r.Valid() {
			result.Valid++
		} else {
			result.Invalid++
		}
	}
	return result
}
