package categorizer

import (
	"testing"

	"github.com/starford/neuronpad/internal/models"
)

func TestCategorize_Empty(t *testing.T) {
	if got := Categorize("", ""); got != models.CategoryGeneral {
		t.Errorf("empty = %q, want General", got)
	}
}

func TestCategorize_Work(t *testing.T) {
	content := "Don't forget the meeting deadline for the client report"
	s := Score("", content)
	if s.Work < 4 {
		t.Errorf("work score = %d, want >= 4", s.Work)
	}
	if got := Categorize("", content); got != models.CategoryWork {
		t.Errorf("got %q, want Work", got)
	}
}

func TestCategorize_Ideas(t *testing.T) {
	content := "Brainstorm a new creative concept, what if we explore this idea"
	if got := Categorize("", content); got != models.CategoryIdeas {
		t.Errorf("got %q, want Ideas (scores %+v)", got, Score("", content))
	}
}

func TestCategorize_Personal(t *testing.T) {
	if got := Categorize("Saturday", "grocery shopping then family birthday"); got != models.CategoryPersonal {
		t.Errorf("got %q, want Personal", got)
	}
}

func TestCategorize_TieIsGeneral(t *testing.T) {
	// one work keyword, one idea keyword
	if got := Categorize("budget", "prototype"); got != models.CategoryGeneral {
		t.Errorf("tie = %q, want General", got)
	}
}

func TestCategorize_RepeatsCountOnce(t *testing.T) {
	s := Score("meeting meeting meeting", "meeting")
	if s.Work != 1 {
		t.Errorf("work score = %d, want 1", s.Work)
	}
	// repeated work keyword must not beat two distinct idea keywords
	if got := Categorize("meeting meeting meeting", "idea brainstorm"); got != models.CategoryIdeas {
		t.Errorf("got %q, want Ideas", got)
	}
}

func TestCategorize_CaseInsensitiveAndTitleCounts(t *testing.T) {
	if got := Categorize("SPRINT Review", ""); got != models.CategoryWork {
		t.Errorf("got %q, want Work", got)
	}
}

func TestCategorize_TitleContentSeparator(t *testing.T) {
	// "what" + "if" across the boundary is joined by a space and still matches
	s := Score("what", "if")
	if s.Ideas != 1 {
		t.Errorf("ideas score = %d, want 1", s.Ideas)
	}
}

func TestCategorize_Deterministic(t *testing.T) {
	inputs := [][2]string{
		{"", ""},
		{"Team agenda", "design review"},
		{"Trip", "vacation travel home"},
	}
	for _, in := range inputs {
		a := Categorize(in[0], in[1])
		b := Categorize(in[0], in[1])
		if a != b {
			t.Errorf("Categorize(%q, %q) not deterministic: %q vs %q", in[0], in[1], a, b)
		}
	}
}

func TestCategorize_NeverArchive(t *testing.T) {
	if got := Categorize("archive", "archive old stuff"); got == models.CategoryArchive {
		t.Error("categorizer must never assign Archive")
	}
}
