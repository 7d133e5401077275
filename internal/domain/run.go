package domain

import "fmt"

// DiagnosticKind classifies a recoverable per-image problem
type DiagnosticKind string

const (
	DiagnosticMissingLabel   DiagnosticKind = "missing_label"
	DiagnosticEmptyLabel     DiagnosticKind = "empty_label"
	DiagnosticAmbiguousLabel DiagnosticKind = "ambiguous_label"
	DiagnosticReadError      DiagnosticKind = "read_error"
)

// Diagnostic is emitted for an image whose label could not be used as-is
type Diagnostic struct {
	Image   string
	Kind    DiagnosticKind
	Message string
}

// MissingLabelDiagnostic builds the diagnostic for an image without a label file
func MissingLabelDiagnostic(image string) Diagnostic {
	return Diagnostic{
		Image:   image,
		Kind:    DiagnosticMissingLabel,
		Message: fmt.Sprintf("No metadata found for image %s", image),
	}
}

// RunResult is the outcome of a single preparation pass
type RunResult struct {
	Split       DatasetSplit
	Labels      []Label
	Diagnostics []Diagnostic
	Processed   int
}

// LabelFor returns the parsed label for an image stem, if any
func (r *RunResult) LabelFor(stem string) (Label, bool) {
	for _, l := range r.Labels {
		if l.Record.Stem == stem {
			return l, true
		}
	}
	return Label{}, false
}

// DiagnosticFor returns the first diagnostic recorded for an image filename
func (r *RunResult) DiagnosticFor(image string) (Diagnostic, bool) {
	for _, d := range r.Diagnostics {
		if d.Image == image {
			return d, true
		}
	}
	return Diagnostic{}, false
}
