// Package ai implements the text-transformation gateway: summarising and
// grammar-correcting note text through an external generation model.
package ai

import (
	"errors"
	"fmt"
)

// Kind selects the transformation.
type Kind string

const (
	Summarize  Kind = "summarize"
	GrammarFix Kind = "grammar"
)

// ErrUnknownKind is returned for a Kind outside the supported set.
var ErrUnknownKind = errors.New("unknown transform kind")

type instruction struct {
	template        string
	fallback        string
	temperature     float64
	maxOutputTokens int
}

var instructions = map[Kind]instruction{
	Summarize: {
		template:        "Summarize the following text concisely, capturing the key points in a clear and organized manner. Return only the summary, no extra commentary.\n\nText:\n%s",
		fallback:        "Could not generate summary.",
		temperature:     0.3,
		maxOutputTokens: 500,
	},
	GrammarFix: {
		template:        "Correct the grammar, spelling, and punctuation of the following text. Return ONLY the corrected text, preserving the original meaning and style. Do not add any explanations.\n\nText:\n%s",
		fallback:        "Could not correct grammar.",
		temperature:     0.2,
		maxOutputTokens: 1000,
	},
}

func lookup(k Kind) (instruction, error) {
	in, ok := instructions[k]
	if !ok {
		return instruction{}, fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}
	return in, nil
}

// Prompt returns the full instruction sent upstream for text.
func (k Kind) Prompt(text string) (string, error) {
	in, err := lookup(k)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(in.template, text), nil
}

// Fallback is the text substituted when the upstream reply carries no text.
func (k Kind) Fallback() string {
	return instructions[k].fallback
}
