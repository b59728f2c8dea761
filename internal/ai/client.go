package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/starford/neuronpad/internal/apperr"
)

// Route paths served by the API for each kind.
const (
	SummarizePath = "/api/ai/summarize"
	GrammarPath   = "/api/ai/grammar"
)

// Path returns the API route for kind.
func (k Kind) Path() string {
	if k == GrammarFix {
		return GrammarPath
	}
	return SummarizePath
}

// TextRequest is the request body of the transform routes.
type TextRequest struct {
	Text string `json:"text"`
}

// TextResponse is the success body of the transform routes.
type TextResponse struct {
	Result string `json:"result"`
}

// Client is a Gateway that calls a NeuronPad server over HTTP.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

var _ Gateway = (*Client)(nil)

// NewClient creates a client for the server at baseURL. token is sent as a
// bearer token when non-empty.
func NewClient(baseURL, token string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), token: token, http: hc}
}

// Transform posts text to the kind's route. Blank text is rejected locally.
func (c *Client) Transform(ctx context.Context, kind Kind, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", apperr.ErrEmptyInput
	}
	if _, err := lookup(kind); err != nil {
		return "", err
	}

	body, err := json.Marshal(TextRequest{Text: text})
	if err != nil {
		return "", fmt.Errorf("ai: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+kind.Path(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &ServiceError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ServiceError{Message: err.Error(), Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &ServiceError{Message: failureMessage(kind, data)}
	}

	var out TextResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", &ServiceError{Message: "malformed response from AI service", Err: err}
	}
	return out.Result, nil
}

func failureMessage(kind Kind, body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	if s := strings.TrimSpace(string(body)); s != "" {
		return s
	}
	if kind == GrammarFix {
		return "Failed to correct grammar"
	}
	return "Failed to summarize"
}
