package internal

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/neuronpad/internal/ai"
	"github.com/starford/neuronpad/internal/models"
	"github.com/starford/neuronpad/internal/storage"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should pass: %v", err)
	}
	if cfg.AI.APIKey != "" {
		t.Error("default config should not carry an API key")
	}
}

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestStorageConfig_DriverDefaultsToFile(t *testing.T) {
	cfg := StorageConfig{Path: "./data"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Driver != storage.DriverFile {
		t.Errorf("driver = %q, want %q", cfg.Driver, storage.DriverFile)
	}
}

func TestStorageConfig_UnknownDriver(t *testing.T) {
	cfg := StorageConfig{Driver: "postgres", Path: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown driver should fail validation")
	}
}

func TestStorageConfig_WatchNeedsFileDriver(t *testing.T) {
	cfg := StorageConfig{Driver: storage.DriverSQLite, Path: "x.db", Watch: true}
	if err := cfg.Validate(); err == nil {
		t.Fatal("watch with sqlite should fail validation")
	}
}

func TestAIConfig_FillsDefaults(t *testing.T) {
	cfg := AIConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty ai section should pass: %v", err)
	}
	if cfg.BaseURL != ai.DefaultBaseURL || cfg.Model != ai.DefaultModel {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestAIConfig_BadURL(t *testing.T) {
	cfg := AIConfig{BaseURL: "not a url", Model: "m"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("malformed base_url should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestBuild_EachDriverPersists(t *testing.T) {
	for _, driver := range []string{storage.DriverFile, storage.DriverSQLite, storage.DriverBadger} {
		t.Run(driver, func(t *testing.T) {
			cfg := NewDefaultConfig()
			cfg.Storage.Driver = driver
			cfg.Storage.Path = t.TempDir()
			if driver == storage.DriverSQLite {
				cfg.Storage.Path = filepath.Join(cfg.Storage.Path, "notes.db")
			}

			app, err := newApplication([]Option{WithConfig(cfg), WithLogOutput(io.Discard)})
			if err != nil {
				t.Fatal(err)
			}
			c, err := app.build(app.logger(io.Discard), nil)
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			defer c.records.Close()

			ctx := context.Background()
			n, saved, err := c.service.Create(ctx, models.Draft{Title: "Project deadline"})
			if err != nil || !saved {
				t.Fatalf("create: saved=%v err=%v", saved, err)
			}
			got, err := c.service.Get(ctx, n.ID)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got.Category != models.CategoryWork {
				t.Errorf("category = %q, want Work", got.Category)
			}
		})
	}
}

func TestNewApplication_RequiresConfig(t *testing.T) {
	if _, err := newApplication(nil); err == nil {
		t.Fatal("expected error without config")
	}
}
