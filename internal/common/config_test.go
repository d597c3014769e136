package common

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfigLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlDoc := `
batch:
  workers: 8
  job_timeout: 30s
photos:
  min_dimension: 64
report:
  supervision_tag: SBAB
`
	if err := os.WriteFile(path, []byte(yamlDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BATCH_WORKERS", "2")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Batch.Workers != 2 {
		t.Errorf("env should override yaml: workers = %d", cfg.Batch.Workers)
	}
	if cfg.Batch.JobTimeout != 30*time.Second {
		t.Errorf("job timeout = %v", cfg.Batch.JobTimeout)
	}
	if cfg.Photos.MinDimension != 64 {
		t.Errorf("min dimension = %d", cfg.Photos.MinDimension)
	}
	if cfg.Photos.MinPayloadBytes != 500 {
		t.Errorf("default payload threshold lost: %d", cfg.Photos.MinPayloadBytes)
	}
	if cfg.Report.SupervisionTag != "SBAB" {
		t.Errorf("supervision tag = %q", cfg.Report.SupervisionTag)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if CodeOf(err) != CodeConfig {
		t.Fatalf("want CONFIG_ERROR, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "zero workers", mutate: func(c *Config) { c.Batch.Workers = 0 }, wantErr: "batch.workers"},
		{name: "margin too wide", mutate: func(c *Config) { c.Photos.EdgeMargin = 0.7 }, wantErr: "photos.edge_margin"},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantErr: "logging.level"},
		{name: "bad dsn", mutate: func(c *Config) { c.Store.DSN = "mysql://x" }, wantErr: "store.dsn"},
		{name: "postgres dsn", mutate: func(c *Config) { c.Store.DSN = "postgres://u:p@localhost/db" }},
		{name: "sqlite file path", mutate: func(c *Config) { c.Store.DSN = "/var/lib/rf/session.db" }},
		{name: "relative sqlite path", mutate: func(c *Config) { c.Store.DSN = "session.db" }},
		{name: "sqlite file uri", mutate: func(c *Config) { c.Store.DSN = "file:session.db?_pragma=foreign_keys(1)" }},
		{name: "memory dsn", mutate: func(c *Config) { c.Store.DSN = ":memory:" }},
		{name: "unsupported scheme", mutate: func(c *Config) { c.Store.DSN = "sqlserver://u@host/db" }, wantErr: "store.dsn"},
		{name: "empty tag", mutate: func(c *Config) { c.Report.SupervisionTag = " " }, wantErr: "report.supervision_tag"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("want error mentioning %q, got %v", tt.wantErr, err)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("error should wrap ErrInvalidInput")
			}
		})
	}
}

func TestConfigStringRedactsPassword(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Store.DSN = "postgres://user:secret@db:5432/rf"
	if s := cfg.String(); strings.Contains(s, "secret") {
		t.Fatalf("password leaked: %s", s)
	}
}

func TestDocumentUnreadableMatchesSentinel(t *testing.T) {
	cause := errors.New("exit status 1")
	err := DocumentUnreadable("a.pdf", cause)
	if !errors.Is(err, ErrDocumentUnreadable) {
		t.Fatal("errors.Is(ErrDocumentUnreadable) = false")
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause lost")
	}
	if CodeOf(err) != CodeDocumentUnreadable {
		t.Fatalf("code = %q", CodeOf(err))
	}
}
