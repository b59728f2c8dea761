package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/starford/neuronpad/internal/ai"
	"github.com/starford/neuronpad/internal/storage"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Storage StorageConfig     `yaml:"storage"`
	Auth    AuthConfig        `yaml:"auth"`
	AI      AIConfig          `yaml:"ai"`
	Gateway GatewayConfig     `yaml:"gateway"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.AI.Validate(); err != nil {
		return err
	}
	return c.Gateway.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// StorageConfig selects where the notes collection and auth flag live.
//
// Path is a directory for the file and badger drivers and a database file
// for sqlite. Watch only applies to the file driver.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	Watch  bool   `yaml:"watch"`
}

// Validate validates the storage configuration.
func (c *StorageConfig) Validate() error {
	if c.Driver == "" {
		c.Driver = storage.DriverFile
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required,
			validation.In(storage.DriverFile, storage.DriverSQLite, storage.DriverBadger)),
		validation.Field(&c.Path, validation.Required),
	); err != nil {
		return err
	}
	if c.Watch && c.Driver != storage.DriverFile {
		return fmt.Errorf("storage: watch requires the %q driver, got %q", storage.DriverFile, c.Driver)
	}
	return nil
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// AIConfig configures the upstream text generation service.
//
// APIKey may be empty; the AI routes then answer 500 instead of the server
// refusing to start.
type AIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	Strict  bool   `yaml:"strict"`
}

// Validate validates the AI configuration.
func (c *AIConfig) Validate() error {
	if c.BaseURL == "" {
		c.BaseURL = ai.DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = ai.DefaultModel
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.Model, validation.Required),
	)
}

// GatewayConfig points CLI client commands at a running server.
type GatewayConfig struct {
	URL string `yaml:"url"`
}

// Validate validates the gateway configuration.
func (c *GatewayConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.URL, is.URL),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Storage: StorageConfig{
			Driver: storage.DriverFile,
			Path:   "./data",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		AI: AIConfig{
			BaseURL: ai.DefaultBaseURL,
			Model:   ai.DefaultModel,
		},
		Gateway: GatewayConfig{
			URL: "http://localhost:8080",
		},
	}
}
