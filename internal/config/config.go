// Package config provides configuration loading and validation for the CLI.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-forge/internal/localize"
	"github.com/jonathan/resume-forge/internal/types"
)

// EnvPrefix starts every environment override
const EnvPrefix = "RESUME_FORGE_"

// Config represents the render configuration loaded from a YAML or JSON file.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Inputs
	Document string `yaml:"document,omitempty" json:"document,omitempty"` // Career document path
	Template string `yaml:"template,omitempty" json:"template,omitempty"` // Template file; its directory holds support files
	Recipe   string `yaml:"recipe,omitempty" json:"recipe,omitempty"`     // Dockerfile for the sandbox image

	// Output naming
	Basename string   `yaml:"basename,omitempty" json:"basename,omitempty" validate:"max=128"`
	Language string   `yaml:"language,omitempty" json:"language,omitempty" validate:"omitempty,min=2,max=16"`
	OutDir   string   `yaml:"out_dir,omitempty" json:"out_dir,omitempty"`
	Exclude  []string `yaml:"exclude_projects,omitempty" json:"exclude_projects,omitempty" validate:"dive,required"`

	// Template inputs
	Labels      types.Ordered[localize.Label] `yaml:"labels,omitempty" json:"-"`
	Environment map[string]any                `yaml:"environment,omitempty" json:"environment,omitempty"`

	// Sandbox
	Engine        string `yaml:"engine,omitempty" json:"engine,omitempty"`
	WorkspaceRoot string `yaml:"workspace_root,omitempty" json:"workspace_root,omitempty"`

	// Behavior
	LogFile     string `yaml:"log_file,omitempty" json:"log_file,omitempty"`
	LogLevel    string `yaml:"log_level,omitempty" json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn warning error"`
	MetricsFile string `yaml:"metrics_file,omitempty" json:"metrics_file,omitempty"`
	Verbose     bool   `yaml:"verbose,omitempty" json:"verbose,omitempty"`

	hash string
}

// Defaults returns the values used when neither the file nor flags set a field
func Defaults() Config {
	return Config{
		Template: filepath.Join("template", "main.tex.tmpl"),
		Recipe:   filepath.Join("docker", "Dockerfile"),
		Language: localize.DefaultLanguage,
		OutDir:   "out",
		Engine:   "docker",
		LogLevel: "info",
	}
}

// LoadConfig loads configuration from a YAML or JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	sum := sha256.Sum256(data)
	cfg.hash = hex.EncodeToString(sum[:])
	return &cfg, nil
}

// Hash is the sha256 of the config file the values were loaded from; "" when not loaded from a file
func (c *Config) Hash() string {
	return c.hash
}

// ApplyEnv overrides fields from RESUME_FORGE_* environment variables
func (c *Config) ApplyEnv() {
	c.Document = getEnv(EnvPrefix+"DOCUMENT", c.Document)
	c.Template = getEnv(EnvPrefix+"TEMPLATE", c.Template)
	c.Recipe = getEnv(EnvPrefix+"RECIPE", c.Recipe)
	c.Language = getEnv(EnvPrefix+"LANGUAGE", c.Language)
	c.OutDir = getEnv(EnvPrefix+"OUT_DIR", c.OutDir)
	c.Engine = getEnv(EnvPrefix+"ENGINE", c.Engine)
	c.WorkspaceRoot = getEnv(EnvPrefix+"WORKSPACE_ROOT", c.WorkspaceRoot)
	c.LogFile = getEnv(EnvPrefix+"LOG_FILE", c.LogFile)
	c.LogLevel = getEnv(EnvPrefix+"LOG_LEVEL", c.LogLevel)
	c.MetricsFile = getEnv(EnvPrefix+"METRICS_FILE", c.MetricsFile)
	if exclude := os.Getenv(EnvPrefix + "EXCLUDE"); exclude != "" {
		c.Exclude = splitList(exclude)
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks field formats and that the document file exists when set
func (c *Config) Validate() error {
	normalized := *c
	normalized.LogLevel = strings.ToLower(c.LogLevel)
	if err := validator.New().Struct(&normalized); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return checkFiles(map[string]string{"document": c.Document})
}

// ValidateBuild extends Validate with the template and recipe a compile needs
func (c *Config) ValidateBuild() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Template == "" || c.Recipe == "" {
		return fmt.Errorf("config error: template and recipe are required to build")
	}
	return checkFiles(map[string]string{"template": c.Template, "recipe": c.Recipe})
}

func checkFiles(files map[string]string) error {
	for _, name := range []string{"document", "template", "recipe"} {
		path := files[name]
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config error: %s file not found: %s", name, path)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&result.Document, defaults.Document)
	fill(&result.Template, defaults.Template)
	fill(&result.Recipe, defaults.Recipe)
	fill(&result.Basename, defaults.Basename)
	fill(&result.Language, defaults.Language)
	fill(&result.OutDir, defaults.OutDir)
	fill(&result.Engine, defaults.Engine)
	fill(&result.WorkspaceRoot, defaults.WorkspaceRoot)
	fill(&result.LogFile, defaults.LogFile)
	fill(&result.LogLevel, defaults.LogLevel)
	fill(&result.MetricsFile, defaults.MetricsFile)

	if len(result.Exclude) == 0 {
		result.Exclude = defaults.Exclude
	}
	if result.Labels.Len() == 0 {
		result.Labels = defaults.Labels
	}
	if len(result.Environment) == 0 {
		result.Environment = defaults.Environment
	}
	if result.hash == "" {
		result.hash = defaults.hash
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Level parses LogLevel, defaulting to info
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
