// Package config loads runtime settings from a YAML file, an optional .env
// file and HLVL_* environment variables, in increasing precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-hlvl/internal/logging"
	"github.com/goliatone/go-hlvl/pkg/metrics"
	"github.com/goliatone/go-hlvl/pkg/renderers/report"
	"github.com/goliatone/go-hlvl/pkg/source"
	"github.com/goliatone/go-hlvl/pkg/staging"
)

// Environment variables read by ApplyEnv.
const (
	EnvWorkspace     = "HLVL_WORKSPACE"
	EnvFetchTimeout  = "HLVL_FETCH_TIMEOUT"
	EnvFetchMaxBytes = "HLVL_FETCH_MAX_BYTES"
	EnvAllowFileURLs = "HLVL_ALLOW_FILE_URLS"
	EnvLogLevel      = "HLVL_LOG_LEVEL"
	EnvLogFormat     = "HLVL_LOG_FORMAT"
)

// DefaultEnvFile is read when present.
const DefaultEnvFile = ".env"

type Config struct {
	Workspace WorkspaceConfig `yaml:"workspace"`
	Fetch     FetchConfig     `yaml:"fetch"`
	Log       LogConfig       `yaml:"log"`
	Report    ReportConfig    `yaml:"report"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type WorkspaceConfig struct {
	BaseDir string `yaml:"baseDir"`
}

type FetchConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	MaxBytes      int64         `yaml:"maxBytes"`
	AllowFileURLs bool          `yaml:"allowFileURLs"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ReportConfig struct {
	Title  string `yaml:"title"`
	Banner string `yaml:"banner"`
	// TemplatesDir replaces the embedded report.tpl when set.
	TemplatesDir string `yaml:"templatesDir"`
}

type MetricsConfig struct {
	Namespace string `yaml:"namespace"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Workspace: WorkspaceConfig{BaseDir: staging.DefaultBaseDir},
		Fetch: FetchConfig{
			Timeout:  source.DefaultRequestTimeout,
			MaxBytes: source.DefaultMaxBytes,
		},
		Log:     LogConfig{Level: "info", Format: string(logging.FormatText)},
		Report:  ReportConfig{Title: report.DefaultTitle},
		Metrics: MetricsConfig{Namespace: metrics.DefaultNamespace},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// empty), DefaultEnvFile and the process environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := cfg.decodeYAML(data); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	dotenv, err := readEnvFile(DefaultEnvFile)
	if err != nil {
		return nil, err
	}
	lookup := func(key string) (string, bool) {
		if value := os.Getenv(key); value != "" {
			return value, true
		}
		value, ok := dotenv[key]
		return value, ok
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeYAML(data []byte) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func readEnvFile(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return values, nil
}

// ApplyEnv overrides fields from variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		return nil
	}
	get := func(key string) (string, bool) {
		value, ok := lookup(key)
		value = strings.TrimSpace(value)
		return value, ok && value != ""
	}

	if value, ok := get(EnvWorkspace); ok {
		c.Workspace.BaseDir = value
	}
	if value, ok := get(EnvFetchTimeout); ok {
		timeout, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvFetchTimeout, err)
		}
		c.Fetch.Timeout = timeout
	}
	if value, ok := get(EnvFetchMaxBytes); ok {
		limit, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvFetchMaxBytes, err)
		}
		c.Fetch.MaxBytes = limit
	}
	if value, ok := get(EnvAllowFileURLs); ok {
		allow, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvAllowFileURLs, err)
		}
		c.Fetch.AllowFileURLs = allow
	}
	if value, ok := get(EnvLogLevel); ok {
		c.Log.Level = value
	}
	if value, ok := get(EnvLogFormat); ok {
		c.Log.Format = value
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Workspace.BaseDir) == "" {
		return errors.New("config: workspace.baseDir is required")
	}
	if c.Fetch.MaxBytes <= 0 {
		return fmt.Errorf("config: fetch.maxBytes must be positive, got %d", c.Fetch.MaxBytes)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return fmt.Errorf("config: log.format: %w", err)
	}
	return nil
}

// FetcherOptions converts the fetch settings.
func (c *Config) FetcherOptions() source.FetcherOptions {
	return source.NewFetcherOptions(
		source.WithRequestTimeout(c.Fetch.Timeout),
		source.WithMaxBytes(c.Fetch.MaxBytes),
		source.WithFileURLs(c.Fetch.AllowFileURLs),
	)
}

// ReportOptions converts the report settings.
func (c *Config) ReportOptions() []report.Option {
	return []report.Option{
		report.WithTitle(c.Report.Title),
		report.WithBanner(c.Report.Banner),
		report.WithTemplatesDir(c.Report.TemplatesDir),
	}
}

// Logger builds the logger described by the log settings. Call Validate
// first; invalid values fall back to info/text.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, _ := logging.ParseLevel(c.Log.Level)
	format, _ := logging.ParseFormat(c.Log.Format)
	return logging.New(level, format, w)
}
