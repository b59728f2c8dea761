package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/starford/neuronpad/internal/apperr"
)

type stubGenerator struct {
	text   string
	err    error
	calls  int
	prompt string
	cfg    GenerationConfig
}

func (s *stubGenerator) Generate(_ context.Context, prompt string, cfg GenerationConfig) (string, error) {
	s.calls++
	s.prompt = prompt
	s.cfg = cfg
	return s.text, s.err
}

func TestTransformer_Success(t *testing.T) {
	gen := &stubGenerator{text: "short version"}
	tr := NewTransformer(gen, false, nil)

	got, err := tr.Transform(context.Background(), Summarize, "a long text")
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if got != "short version" {
		t.Errorf("got %q", got)
	}
	if !strings.HasPrefix(gen.prompt, "Summarize the following text concisely") || !strings.HasSuffix(gen.prompt, "Text:\na long text") {
		t.Errorf("prompt = %q", gen.prompt)
	}
	if gen.cfg.Temperature != 0.3 || gen.cfg.MaxOutputTokens != 500 {
		t.Errorf("cfg = %+v", gen.cfg)
	}
}

func TestTransformer_GrammarConfig(t *testing.T) {
	gen := &stubGenerator{text: "fixed"}
	tr := NewTransformer(gen, false, nil)
	if _, err := tr.Transform(context.Background(), GrammarFix, "teh text"); err != nil {
		t.Fatal(err)
	}
	if gen.cfg.Temperature != 0.2 || gen.cfg.MaxOutputTokens != 1000 {
		t.Errorf("cfg = %+v", gen.cfg)
	}
	if !strings.Contains(gen.prompt, "Return ONLY the corrected text") {
		t.Errorf("prompt = %q", gen.prompt)
	}
}

func TestTransformer_EmptyInputSkipsUpstream(t *testing.T) {
	gen := &stubGenerator{text: "x"}
	tr := NewTransformer(gen, false, nil)
	_, err := tr.Transform(context.Background(), Summarize, "  \n ")
	if !errors.Is(err, apperr.ErrEmptyInput) {
		t.Errorf("err = %v, want ErrEmptyInput", err)
	}
	if gen.calls != 0 {
		t.Errorf("upstream called %d times", gen.calls)
	}
}

func TestTransformer_FallbackOnMissingText(t *testing.T) {
	tr := NewTransformer(&stubGenerator{err: ErrNoText}, false, nil)
	got, err := tr.Transform(context.Background(), GrammarFix, "text")
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if got != "Could not correct grammar." {
		t.Errorf("got %q", got)
	}
}

func TestTransformer_StrictMissingText(t *testing.T) {
	tr := NewTransformer(&stubGenerator{err: ErrNoText}, true, nil)
	_, err := tr.Transform(context.Background(), Summarize, "text")
	var se *ServiceError
	if !errors.As(err, &se) || se.Message == "" {
		t.Errorf("err = %v, want ServiceError", err)
	}
}

func TestTransformer_UpstreamFailure(t *testing.T) {
	tr := NewTransformer(&stubGenerator{err: &UpstreamError{Status: 403, Body: "denied"}}, false, nil)
	got, err := tr.Transform(context.Background(), Summarize, "text")
	var se *ServiceError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want ServiceError", err)
	}
	if se.Message == "" || got != "" {
		t.Errorf("message = %q, result = %q", se.Message, got)
	}
}

func TestTransformer_NotConfigured(t *testing.T) {
	tr := NewTransformer(NewGemini("", "", "", nil), false, nil)
	_, err := tr.Transform(context.Background(), Summarize, "text")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestTransformer_UnknownKind(t *testing.T) {
	gen := &stubGenerator{text: "x"}
	tr := NewTransformer(gen, false, nil)
	if _, err := tr.Transform(context.Background(), Kind("translate"), "text"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("err = %v, want ErrUnknownKind", err)
	}
	if gen.prompt != "" {
		t.Error("unknown kind should not reach the generator")
	}
}

func geminiServer(t *testing.T, status int, body string) (*httptest.Server, *generateRequest) {
	t.Helper()
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/test-model:generateContent") {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "k3y" {
			t.Errorf("key = %q", r.URL.Query().Get("key"))
		}
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &got)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func TestGemini_ExtractsFirstCandidate(t *testing.T) {
	srv, req := geminiServer(t, http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"hello"},{"text":"ignored"}]}},{"content":{"parts":[{"text":"second"}]}}]}`)
	g := NewGemini("k3y", srv.URL, "test-model", srv.Client())

	got, err := g.Generate(context.Background(), "prompt", GenerationConfig{Temperature: 0.3, MaxOutputTokens: 500})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "hello" {
		t.Errorf("got %q", got)
	}
	if len(req.Contents) != 1 || req.Contents[0].Parts[0].Text != "prompt" {
		t.Errorf("request contents = %+v", req.Contents)
	}
	if req.GenerationConfig.MaxOutputTokens != 500 {
		t.Errorf("generationConfig = %+v", req.GenerationConfig)
	}
}

func TestGemini_NoCandidates(t *testing.T) {
	srv, _ := geminiServer(t, http.StatusOK, `{"candidates":[]}`)
	g := NewGemini("k3y", srv.URL, "test-model", srv.Client())
	if _, err := g.Generate(context.Background(), "p", GenerationConfig{}); !errors.Is(err, ErrNoText) {
		t.Errorf("err = %v, want ErrNoText", err)
	}
}

func TestGemini_NonSuccessStatus(t *testing.T) {
	srv, _ := geminiServer(t, http.StatusForbidden, `{"error":{"message":"bad key"}}`)
	g := NewGemini("k3y", srv.URL, "test-model", srv.Client())
	_, err := g.Generate(context.Background(), "p", GenerationConfig{})
	var ue *UpstreamError
	if !errors.As(err, &ue) || ue.Status != http.StatusForbidden {
		t.Errorf("err = %v, want UpstreamError 403", err)
	}
}

func TestGemini_MalformedBodyIsNotFallback(t *testing.T) {
	srv, _ := geminiServer(t, http.StatusOK, `<html>`)
	g := NewGemini("k3y", srv.URL, "test-model", srv.Client())
	_, err := g.Generate(context.Background(), "p", GenerationConfig{})
	if err == nil || errors.Is(err, ErrNoText) {
		t.Errorf("err = %v, want decode error", err)
	}
}

func TestClient_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != GrammarPath || r.Method != http.MethodPost {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("auth = %q", r.Header.Get("Authorization"))
		}
		var req TextRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(TextResponse{Result: strings.ToUpper(req.Text)})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "tok", srv.Client())
	got, err := c.Transform(context.Background(), GrammarFix, "fix me")
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if got != "FIX ME" {
		t.Errorf("got %q", got)
	}
}

func TestClient_ErrorStatusSurfacesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"AI service error. Check your API key."}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", srv.Client())
	got, err := c.Transform(context.Background(), Summarize, "text")
	var se *ServiceError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want ServiceError", err)
	}
	if se.Message != "AI service error. Check your API key." || got != "" {
		t.Errorf("message = %q, result = %q", se.Message, got)
	}
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, "", nil).Transform(context.Background(), Summarize, "text")
	var se *ServiceError
	if !errors.As(err, &se) || se.Message == "" {
		t.Errorf("err = %v, want ServiceError with message", err)
	}
}

func TestClient_EmptyInput(t *testing.T) {
	_, err := NewClient("http://127.0.0.1:0", "", nil).Transform(context.Background(), Summarize, " ")
	if !errors.Is(err, apperr.ErrEmptyInput) {
		t.Errorf("err = %v, want ErrEmptyInput", err)
	}
}
