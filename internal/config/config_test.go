package config_test

import (
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"mdeval/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("MDEVAL_HISTORY_PATH", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantHistory := filepath.Join(tempHome, ".local", "share", "mdeval", "history.db")
	if cfg.History.Path != wantHistory {
		t.Fatalf("unexpected history path: got %q want %q", cfg.History.Path, wantHistory)
	}
	if cfg.History.Enabled {
		t.Fatal("expected history disabled by default")
	}
	if cfg.Scoring.Collar != 0 || cfg.Scoring.IgnoreOverlap {
		t.Fatalf("unexpected scoring defaults: %+v", cfg.Scoring)
	}
	if cfg.Scoring.Workers != runtime.NumCPU() {
		t.Fatalf("expected workers to default to NumCPU, got %d", cfg.Scoring.Workers)
	}
	if cfg.Report.Format != config.FormatText || cfg.Report.Condition != "ALL" {
		t.Fatalf("unexpected report defaults: %+v", cfg.Report)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("MDEVAL_HISTORY_PATH", "")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `[scoring]
collar = 0.25
ignore_overlap = true
workers = 3

[report]
format = " JSON "
condition = "  "

[history]
enabled = true
path = "~/runs/history.db"

[logging]
format = "yaml"
level = "DEBUG"
file = "~/logs/mdeval.log"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}

	if cfg.Scoring.Collar != 0.25 || !cfg.Scoring.IgnoreOverlap || cfg.Scoring.Workers != 3 {
		t.Fatalf("unexpected scoring section: %+v", cfg.Scoring)
	}
	if cfg.Report.Format != config.FormatJSON {
		t.Fatalf("expected format to be normalized to json, got %q", cfg.Report.Format)
	}
	if cfg.Report.Condition != "ALL" {
		t.Fatalf("expected blank condition to fall back to ALL, got %q", cfg.Report.Condition)
	}
	if cfg.History.Path != filepath.Join(tempHome, "runs", "history.db") {
		t.Fatalf("unexpected history path: %q", cfg.History.Path)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("expected unknown log format to fall back to console, got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected lowercased log level, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.File != filepath.Join(tempHome, "logs", "mdeval.log") {
		t.Fatalf("unexpected log file: %q", cfg.Logging.File)
	}

	opts := cfg.ScoringOptions()
	if opts.Collar != 0.25 || !opts.IgnoreOverlap {
		t.Fatalf("unexpected scoring options: %+v", opts)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[scoring]\ncolar = 0.25\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error for misspelled key")
	}
}

func TestEnvVarOverridesHistoryPath(t *testing.T) {
	override := filepath.Join(t.TempDir(), "override.db")
	t.Setenv("MDEVAL_HISTORY_PATH", override)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[history]\npath = \"/tmp/from-file.db\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.History.Path != override {
		t.Fatalf("expected env override %q, got %q", override, cfg.History.Path)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "[scoring]") {
		t.Fatalf("sample config missing scoring section: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Report.Format != config.FormatText {
		t.Fatalf("expected sample report format text, got %q", cfg.Report.Format)
	}
	if !strings.Contains(cfg.History.Path, "mdeval") {
		t.Fatalf("expected history path to contain mdeval, got %q", cfg.History.Path)
	}

	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config should load cleanly: %v", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := config.Default()
	cfg.Scoring.Collar = 0.5
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal encoded config: %v", err)
	}
	if decoded.Scoring.Collar != 0.5 || decoded.Report.Condition != "ALL" {
		t.Fatalf("unexpected decoded config: %+v", decoded)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"negative collar", func(c *config.Config) { c.Scoring.Collar = -0.1 }},
		{"nan collar", func(c *config.Config) { c.Scoring.Collar = math.NaN() }},
		{"negative workers", func(c *config.Config) { c.Scoring.Workers = -2 }},
		{"unknown format", func(c *config.Config) { c.Report.Format = "xml" }},
		{"history without path", func(c *config.Config) {
			c.History.Enabled = true
			c.History.Path = ""
		}},
		{"unknown level", func(c *config.Config) { c.Logging.Level = "verbose" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error for %s", tc.name)
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}
