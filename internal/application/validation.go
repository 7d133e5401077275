package application

import (
	"fmt"
	"strings"

	"labelsplit/internal/domain"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", formatFieldName(fieldName)),
		}
	}
	return nil
}

// formatFieldName converts field names to space-separated words
// for more readable error messages (e.g., "runID" -> "run ID")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"runID":    "run ID",
		"stem":     "image stem",
		"dataPath": "data path",
		"maxItems": "max items",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}

// ValidateRatio checks that a split ratio lies in [0, 1]
func ValidateRatio(fieldName string, ratio float64) error {
	if err := domain.ValidateRatio(ratio); err != nil {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("expected a value between 0 and 1, got: %g", ratio),
		}
	}
	return nil
}

// ValidateStem rejects stems that would escape the data directory
func ValidateStem(fieldName, stem string) error {
	if err := ValidateRequired(fieldName, stem); err != nil {
		return err
	}
	if strings.ContainsAny(stem, `/\`) {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must not contain path separators, got: %s", formatFieldName(fieldName), stem),
		}
	}
	return nil
}
