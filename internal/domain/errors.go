package domain

import (
	"errors"
	"fmt"
)

var (
	ErrLabelNotFound = errors.New("label not found")
	ErrEmptyLabel    = errors.New("empty label file")
	ErrInvalidRatio  = errors.New("split ratio must be between 0 and 1")
)

// LabelFormatError reports a label file that could not be tokenized
type LabelFormatError struct {
	Path   string
	Reason string
}

func (e *LabelFormatError) Error() string {
	return fmt.Sprintf("malformed label %s: %s", e.Path, e.Reason)
}

func (e *LabelFormatError) Is(target error) bool {
	return target == ErrEmptyLabel
}
