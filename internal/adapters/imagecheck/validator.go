package imagecheck

import (
	"fmt"
	"os"

	"github.com/disintegration/imaging"

	"labelsplit/internal/domain"
	"labelsplit/internal/ports"
)

// Validator implements ports.ImageValidator by fully decoding each image
type Validator struct{}

// Ensure Validator implements ImageValidator
var _ ports.ImageValidator = (*Validator)(nil)

// NewValidator creates a new image validator
func NewValidator() *Validator {
	return &Validator{}
}

// Validate decodes images in order and reports their dimensions
func (v *Validator) Validate(images []domain.ImageRecord, progress func(done int)) []ports.ImageReport {
	reports := make([]ports.ImageReport, 0, len(images))
	for i, img := range images {
		reports = append(reports, v.check(img))
		if progress != nil {
			progress(i + 1)
		}
	}
	return reports
}

func (v *Validator) check(img domain.ImageRecord) ports.ImageReport {
	report := ports.ImageReport{Image: img}

	info, err := os.Stat(img.Path)
	if err != nil {
		report.Err = fmt.Errorf("failed to stat image: %w", err)
		return report
	}
	report.Size = info.Size()

	decoded, err := imaging.Open(img.Path)
	if err != nil {
		report.Err = fmt.Errorf("failed to decode image: %w", err)
		return report
	}

	bounds := decoded.Bounds()
	report.Width = bounds.Dx()
	report.Height = bounds.Dy()
	return report
}
