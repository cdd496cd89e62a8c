package internal

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/veleda/muninn/internal/build"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App   ApplicationConfig `yaml:"app"`
	Site  SiteConfig        `yaml:"site"`
	Build BuildConfig       `yaml:"build"`
	Index IndexConfig       `yaml:"index"`
	Serve ServeConfig       `yaml:"serve"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Site.Validate(); err != nil {
		return err
	}
	if err := c.Build.Validate(); err != nil {
		return err
	}
	if err := c.Index.Validate(); err != nil {
		return err
	}
	return c.Serve.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// SiteConfig describes the source tree and the generated site.
type SiteConfig struct {
	// Root is the project directory: _quarto.yml and index.qmd are
	// written here, and StagingDir/OutputDir resolve against it.
	Root       string `yaml:"root"`
	StagingDir string `yaml:"staging_dir"`
	OutputDir  string `yaml:"output_dir"`
	Title      string `yaml:"title"`
	Theme      string `yaml:"theme"`
	CSS        string `yaml:"css"`
}

// StagingPath returns the absolute-or-root-relative staging directory as a
// filesystem path.
func (c *SiteConfig) StagingPath() string {
	if filepath.IsAbs(c.StagingDir) {
		return c.StagingDir
	}
	return filepath.Join(c.Root, c.StagingDir)
}

// Validate validates the site configuration. OutputDir must stay relative:
// the build clears it on every run, and keeping it under the site root
// bounds what can be deleted.
func (c *SiteConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.StagingDir, validation.Required),
		validation.Field(&c.OutputDir, validation.Required, validation.NotIn(".", "..")),
		validation.Field(&c.Title, validation.Required),
	); err != nil {
		return err
	}
	if filepath.IsAbs(c.OutputDir) {
		return fmt.Errorf("site: output_dir must be relative to root, got %q", c.OutputDir)
	}
	// The build clears OutputDir on every run; refuse layouts where that
	// would delete the sources.
	if !filepath.IsAbs(c.StagingDir) {
		stag := filepath.Clean(c.StagingDir)
		out := filepath.Clean(c.OutputDir)
		if stag == out || strings.HasPrefix(stag, out+string(filepath.Separator)) {
			return fmt.Errorf("site: staging_dir %q lies inside output_dir %q", c.StagingDir, c.OutputDir)
		}
	}
	return nil
}

// BuildConfig holds conversion pipeline configuration.
type BuildConfig struct {
	Jobs        int    `yaml:"jobs"`
	OnCollision string `yaml:"on_collision"`
	PandocPath  string `yaml:"pandoc_path"`
}

// Validate validates the build configuration.
func (c *BuildConfig) Validate() error {
	// Normalise empty collision policy to "warn" for backward compatibility.
	if c.OnCollision == "" {
		c.OnCollision = build.OnCollisionWarn
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Jobs, validation.Required, validation.Min(1), validation.Max(256)),
		validation.Field(&c.OnCollision, validation.Required, validation.In(build.OnCollisionWarn, build.OnCollisionFail)),
	)
}

// IndexConfig holds SQLite search index configuration.
type IndexConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the index configuration.
func (c *IndexConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// ServeConfig holds preview server configuration.
type ServeConfig struct {
	Port int        `yaml:"port"`
	Auth AuthConfig `yaml:"auth"`
}

// Address returns the HTTP listen address.
func (c *ServeConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the serve configuration.
func (c *ServeConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// AuthConfig holds authentication configuration for the preview API.
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
	// Normalise empty mode to "disabled" for backward compatibility.
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

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Site: SiteConfig{
			Root:       ".",
			StagingDir: "notes_staging",
			OutputDir:  "notes",
			Title:      "Personal Notes",
			Theme:      "cosmo",
			CSS:        "styles.css",
		},
		Build: BuildConfig{
			Jobs:        1,
			OnCollision: build.OnCollisionWarn,
			PandocPath:  "pandoc",
		},
		Index: IndexConfig{
			Path: "./muninn.db",
		},
		Serve: ServeConfig{
			Port: 8080,
			Auth: AuthConfig{
				Mode: AuthModeDisabled,
			},
		},
	}
}
