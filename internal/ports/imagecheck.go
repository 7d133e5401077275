package ports

import "labelsplit/internal/domain"

// ImageReport is the decode result for one image
type ImageReport struct {
	Image  domain.ImageRecord
	Width  int
	Height int
	Size   int64
	Err    error
}

// Valid reports whether the image decoded successfully
func (r ImageReport) Valid() bool {
	return r.Err == nil
}

// ImageValidator decodes images to check they are readable
type ImageValidator interface {
	// Validate decodes each image in order. progress, when not nil, is called after every image.
	Validate(images []domain.ImageRecord, progress func(done int)) []ImageReport
}
