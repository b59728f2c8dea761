// Package query derives filtered views over an in-memory note collection.
// Every function preserves the relative order of its input.
package query

import (
	"strings"

	"github.com/starford/neuronpad/internal/models"
)

// FilterByCategory keeps notes whose category equals label.
// The "All" sentinel (and an empty label) passes every note through.
func FilterByCategory(notes []models.Note, label string) []models.Note {
	if label == "" || label == models.CategoryAll {
		return notes
	}
	out := make([]models.Note, 0, len(notes))
	for _, n := range notes {
		if string(n.Category) == label {
			out = append(out, n)
		}
	}
	return out
}

// Search keeps notes whose title or content contains q, case-insensitively.
// A blank query passes every note through.
func Search(notes []models.Note, q string) []models.Note {
	if strings.TrimSpace(q) == "" {
		return notes
	}
	needle := strings.ToLower(q)
	out := make([]models.Note, 0, len(notes))
	for _, n := range notes {
		if strings.Contains(strings.ToLower(n.Title), needle) ||
			strings.Contains(strings.ToLower(n.Content), needle) {
			out = append(out, n)
		}
	}
	return out
}

// Apply composes the category filter and the search conjunctively.
func Apply(notes []models.Note, label, q string) []models.Note {
	return Search(FilterByCategory(notes, label), q)
}

// CountsByCategory returns the number of notes per category present in notes.
// Categories with no notes are absent from the result.
func CountsByCategory(notes []models.Note) map[models.Category]int {
	counts := make(map[models.Category]int)
	for _, n := range notes {
		counts[n.Category]++
	}
	return counts
}

// Total sums every count, which is what the "All" folder shows.
func Total(counts map[models.Category]int) int {
	total := 0
	for _, c := range counts {
		total += c
	}
	return total
}
