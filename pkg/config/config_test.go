package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	if cfg.Report.Title != "Test Results" {
		t.Fatalf("title = %q", cfg.Report.Title)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path, err := filepath.Abs(filepath.Join("testdata", "hlvl.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	chdir(t, t.TempDir())
	clearEnv(t)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := &Config{
		Workspace: WorkspaceConfig{BaseDir: "/var/lib/hlvl"},
		Fetch:     FetchConfig{Timeout: 5 * time.Second, MaxBytes: 1024, AllowFileURLs: true},
		Log:       LogConfig{Level: "debug", Format: "json"},
		Report:    ReportConfig{Title: "Conversion Report", Banner: "<strong>staging</strong>"},
		Metrics:   MetricsConfig{Namespace: "hlvl_test"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}

	opts := cfg.FetcherOptions()
	if opts.RequestTimeout != 5*time.Second || opts.MaxBytes != 1024 || !opts.AllowFileURLs {
		t.Fatalf("unexpected fetcher options %+v", opts)
	}
	if got := len(cfg.ReportOptions()); got != 3 {
		t.Fatalf("expected three report options, got %d", got)
	}
}

func TestLoad_UnknownKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("workspace:\n  base: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)
	clearEnv(t)

	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestLoad_EnvFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	dotenv := "HLVL_WORKSPACE=/from/dotenv\nHLVL_LOG_LEVEL=warn\nHLVL_FETCH_MAX_BYTES=2048\n"
	if err := os.WriteFile(filepath.Join(dir, DefaultEnvFile), []byte(dotenv), 0o644); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)
	clearEnv(t)
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvFetchTimeout, "250ms")
	t.Setenv(EnvAllowFileURLs, "true")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Workspace.BaseDir != "/from/dotenv" {
		t.Fatalf("base dir = %q", cfg.Workspace.BaseDir)
	}
	if cfg.Log.Level != "error" {
		t.Fatalf("environment should win over .env, got level %q", cfg.Log.Level)
	}
	if cfg.Fetch.MaxBytes != 2048 || cfg.Fetch.Timeout != 250*time.Millisecond || !cfg.Fetch.AllowFileURLs {
		t.Fatalf("unexpected fetch config %+v", cfg.Fetch)
	}
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	cases := map[string]string{
		EnvFetchTimeout:  "soon",
		EnvFetchMaxBytes: "lots",
		EnvAllowFileURLs: "maybe",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			cfg := Default()
			err := cfg.ApplyEnv(func(k string) (string, bool) {
				if k == key {
					return value, true
				}
				return "", false
			})
			if err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"empty base dir": func(c *Config) { c.Workspace.BaseDir = " " },
		"max bytes":      func(c *Config) { c.Fetch.MaxBytes = 0 },
		"log level":      func(c *Config) { c.Log.Level = "loud" },
		"log format":     func(c *Config) { c.Log.Format = "xml" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

// clearEnv blanks every HLVL_* variable for the duration of the test. Empty
// values are treated as unset by ApplyEnv.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvWorkspace, EnvFetchTimeout, EnvFetchMaxBytes, EnvAllowFileURLs, EnvLogLevel, EnvLogFormat} {
		t.Setenv(key, "")
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory and restores the previous one when the test ends.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
