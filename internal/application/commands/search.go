package commands

import (
	"context"
	"sort"
	"strings"

	"labelsplit/internal/domain"
	"labelsplit/internal/ports"
)

// ImageMatch is an image ranked against a search query
type ImageMatch struct {
	domain.ImageRecord
	Score int
}

// SearchImagesCommand finds images whose filename matches a query
type SearchImagesCommand struct {
	repo  ports.DatasetRepository
	Query string
}

// NewSearchImagesCommand creates a new SearchImagesCommand
func NewSearchImagesCommand(repo ports.DatasetRepository, query string) *SearchImagesCommand {
	return &SearchImagesCommand{
		repo:  repo,
		Query: query,
	}
}

// Execute runs the search and returns scored matches, best first
func (c *SearchImagesCommand) Execute(ctx context.Context) ([]ImageMatch, error) {
	if strings.TrimSpace(c.Query) == "" {
		return nil, nil
	}

	images, err := NewDiscoverImagesCommand(c.repo).Execute(ctx)
	if err != nil {
		return nil, err
	}

	return RankImages(images, c.Query), nil
}

// FuzzyScore calculates a relevance score for how well target matches query
func FuzzyScore(target, query string) int {
	target = strings.ToLower(target)
	query = strings.ToLower(query)

	if len(query) == 0 {
		return 0
	}

	if strings.Contains(target, query) {
		score := 100
		if strings.HasPrefix(target, query) {
			score += 50
		}
		return score
	}

	// Fuzzy match: chars of query appear in order
	score := 0
	queryIdx := 0
	prevMatchIdx := -1

	for i := 0; i < len(target) && queryIdx < len(query); i++ {
		if target[i] != query[queryIdx] {
			continue
		}
		if prevMatchIdx == i-1 {
			score += 10 // consecutive chars
		}
		if i == 0 {
			score += 15
		}
		if i > 0 && strings.ContainsRune(" ._-", rune(target[i-1])) {
			score += 10 // after separator
		}
		score++
		prevMatchIdx = i
		queryIdx++
	}

	if queryIdx == len(query) {
		return score
	}
	return 0
}

// RankImages scores images against query, dropping non-matches.
// Ties keep filename order.
func RankImages(images []domain.ImageRecord, query string) []ImageMatch {
	matches := make([]ImageMatch, 0, len(images))

	for _, img := range images {
		if score := FuzzyScore(img.Filename, query); score > 0 {
			matches = append(matches, ImageMatch{ImageRecord: img, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches
}
