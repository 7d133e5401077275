package domain

import (
	"fmt"
	"strings"
)

// MatchMode controls how a label file is associated with an image stem
type MatchMode int

const (
	// MatchExact only accepts "<stem><ext>"
	MatchExact MatchMode = iota
	// MatchPrefix accepts any file starting with the stem and ending with the label extension
	MatchPrefix
)

func (m MatchMode) String() string {
	switch m {
	case MatchExact:
		return "exact"
	case MatchPrefix:
		return "prefix"
	default:
		return "unknown"
	}
}

// ParseMatchMode converts a config value into a MatchMode
func ParseMatchMode(s string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exact":
		return MatchExact, nil
	case "prefix":
		return MatchPrefix, nil
	default:
		return MatchExact, fmt.Errorf("unknown match mode: %q (expected exact or prefix)", s)
	}
}

// LabelRecord is a label file associated with an image
type LabelRecord struct {
	Filename string
	Stem     string
	Path     string

	// Set in prefix mode when more than one file matched the stem
	Ambiguous  bool
	Candidates []string
}

// Label is a parsed label record
type Label struct {
	Record LabelRecord
	Tokens []string
}

// MatchesLabel reports whether filename is a label for stem under mode
func MatchesLabel(filename, stem, labelExt string, mode MatchMode) bool {
	if mode == MatchPrefix {
		return strings.HasPrefix(filename, stem) && strings.HasSuffix(filename, labelExt)
	}
	return filename == stem+labelExt
}

// FirstLine returns the first line of content without its line terminator.
// ok is false when content has no non-empty first line.
func FirstLine(content string) (line string, ok bool) {
	line, _, _ = strings.Cut(content, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, line != ""
}

// TokenizeLabelLine splits a label line on single spaces.
// Consecutive spaces produce empty tokens.
func TokenizeLabelLine(line string) []string {
	return strings.Split(line, " ")
}
