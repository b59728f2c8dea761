package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL is the public Gemini REST endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// DefaultModel is the model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

// GenerationConfig tunes a single generation call.
type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, cfg GenerationConfig) (string, error)
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type generateRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// UpstreamError is a non-2xx reply from the generation endpoint.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("ai: upstream returned status %d: %s", e.Status, e.Body)
}

// Gemini calls the generateContent endpoint.
type Gemini struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
}

// NewGemini creates a Gemini generator. Empty baseURL/model fall back to defaults.
func NewGemini(apiKey, baseURL, model string, client *http.Client) *Gemini {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Gemini{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		http:    client,
	}
}

// Generate sends prompt upstream and returns the first candidate's text.
// A well-formed reply without that text yields ErrNoText.
func (g *Gemini) Generate(ctx context.Context, prompt string, cfg GenerationConfig) (string, error) {
	if g.apiKey == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(generateRequest{
		Contents:         []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: cfg,
	})
	if err != nil {
		return "", fmt.Errorf("ai: encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, url.QueryEscape(g.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ai: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &UpstreamError{Status: resp.StatusCode, Body: string(data)}
	}

	var out generateResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("ai: decode response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", ErrNoText
	}
	text := out.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}
