// Package models defines the domain types for NeuronPad.
package models

import "time"

// Category is one of the fixed note classification labels.
type Category string

// Category labels. Archive is never assigned by the categorizer.
const (
	CategoryWork     Category = "Work"
	CategoryPersonal Category = "Personal"
	CategoryIdeas    Category = "Ideas"
	CategoryGeneral  Category = "General"
	CategoryArchive  Category = "Archive"
)

// CategoryAll is the filter sentinel meaning "no category filter". It is never stored.
const CategoryAll = "All"

// Categories lists every storable label in sidebar order.
var Categories = []Category{
	CategoryWork,
	CategoryPersonal,
	CategoryIdeas,
	CategoryGeneral,
	CategoryArchive,
}

// Valid reports whether c is one of the fixed labels.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Note is the sole persisted entity. Timestamps are epoch milliseconds.
type Note struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	Category     Category `json:"category"`
	CreatedAt    int64    `json:"createdAt"`
	UpdatedAt    int64    `json:"updatedAt"`
	IsBold       bool     `json:"isBold"`
	IsItalic     bool     `json:"isItalic"`
	HasBullets   bool     `json:"hasBullets"`
	HasHighlight bool     `json:"hasHighlight"`
}

// Blank reports whether both title and content are empty after trimming.
func (n Note) Blank() bool {
	return isBlank(n.Title) && isBlank(n.Content)
}

// Draft is an unsaved edit of a note: the user-editable fields only.
type Draft struct {
	Title        string `json:"title"`
	Content      string `json:"content"`
	IsBold       bool   `json:"isBold"`
	IsItalic     bool   `json:"isItalic"`
	HasBullets   bool   `json:"hasBullets"`
	HasHighlight bool   `json:"hasHighlight"`
}

// Millis converts t to epoch milliseconds.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}
