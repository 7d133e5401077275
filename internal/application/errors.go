package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// RunNotFoundError reports a manifest lookup for an unknown run
type RunNotFoundError struct {
	RunID string
}

func (e *RunNotFoundError) Error() string {
	return fmt.Sprintf("run %s not found", e.RunID)
}

func (e *RunNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// FileNotIndexedError reports a lookup for a file missing from the sample index
type FileNotIndexedError struct {
	Name string
}

func (e *FileNotIndexedError) Error() string {
	return fmt.Sprintf("file %s is not indexed", e.Name)
}

func (e *FileNotIndexedError) Is(target error) bool {
	return target == ErrNotFound
}
