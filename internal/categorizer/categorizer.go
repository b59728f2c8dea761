// Package categorizer assigns a category label to note text by keyword scoring.
package categorizer

import (
	"strings"

	"github.com/starford/neuronpad/internal/models"
)

var (
	workKeywords = []string{
		"meeting", "project", "deadline", "client", "report", "task", "budget", "presentation",
		"email", "schedule", "office", "team", "manager", "sprint", "review", "agenda",
	}
	ideaKeywords = []string{
		"idea", "brainstorm", "concept", "what if", "maybe", "innovation", "creative",
		"inspiration", "design", "prototype", "experiment", "explore",
	}
	personalKeywords = []string{
		"grocery", "shopping", "birthday", "family", "vacation", "recipe", "workout",
		"doctor", "appointment", "hobby", "travel", "home", "personal",
	}
)

// Scores holds the per-set keyword hit counts for a piece of text.
type Scores struct {
	Work     int
	Ideas    int
	Personal int
}

// Score counts, for each keyword set, how many distinct keywords occur in the
// lower-cased "title content" text. Repeated occurrences count once.
func Score(title, content string) Scores {
	text := strings.ToLower(title + " " + content)
	return Scores{
		Work:     hits(text, workKeywords),
		Ideas:    hits(text, ideaKeywords),
		Personal: hits(text, personalKeywords),
	}
}

// Categorize returns Work, Ideas or Personal when that set's score is a unique
// maximum, and General otherwise (ties and all-zero included).
func Categorize(title, content string) models.Category {
	return Score(title, content).Category()
}

// Category resolves the scores to a label.
func (s Scores) Category() models.Category {
	switch {
	case s.Work > s.Ideas && s.Work > s.Personal:
		return models.CategoryWork
	case s.Ideas > s.Work && s.Ideas > s.Personal:
		return models.CategoryIdeas
	case s.Personal > s.Work && s.Personal > s.Ideas:
		return models.CategoryPersonal
	default:
		return models.CategoryGeneral
	}
}

func hits(text string, keywords []string) int {
	n := 0
	for _, k := range keywords {
		if strings.Contains(text, k) {
			n++
		}
	}
	return n
}
