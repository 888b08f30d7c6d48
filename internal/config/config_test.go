package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault_Validates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}

func TestDefaultPath(t *testing.T) {
	path := DefaultPath()
	if !strings.HasSuffix(path, filepath.Join(AppDir, ConfigFile)) {
		t.Errorf("DefaultPath() = %q", path)
	}
}

func TestLoad_NotFound(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Workers != Default().Workers {
		t.Errorf("Workers = %d, want default", cfg.Workers)
	}
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	content := `workers: 8
timeout: 5s
endpoints:
  plumx: http://localhost:9000/plumx
credentials:
  elsevier_api_key: abc
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Workers)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %s, want 5s", cfg.Timeout)
	}
	if cfg.Endpoints.PlumX != "http://localhost:9000/plumx" {
		t.Errorf("PlumX = %q", cfg.Endpoints.PlumX)
	}
	if cfg.Endpoints.Scopus != Default().Endpoints.Scopus {
		t.Errorf("Scopus = %q, want default", cfg.Endpoints.Scopus)
	}
	if cfg.Credentials.ElsevierAPIKey != "abc" {
		t.Errorf("ElsevierAPIKey = %q", cfg.Credentials.ElsevierAPIKey)
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	if err := os.WriteFile(path, []byte("workers: [unclosed"), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() expected parse error")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvElsevierAPIKey:  "from-env",
		EnvZoteroLibraryID: "  12345 ",
		EnvZoteroAPIKey:    "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	cfg.Credentials.ElsevierAPIKey = "from-file"
	cfg.Credentials.ZoteroAPIKey = "zot-file"
	cfg.ApplyEnv(lookup)

	if cfg.Credentials.ElsevierAPIKey != "from-env" {
		t.Errorf("ElsevierAPIKey = %q, want from-env", cfg.Credentials.ElsevierAPIKey)
	}
	if cfg.Credentials.ZoteroLibraryID != "12345" {
		t.Errorf("ZoteroLibraryID = %q, want 12345", cfg.Credentials.ZoteroLibraryID)
	}
	if cfg.Credentials.ZoteroAPIKey != "zot-file" {
		t.Errorf("empty env value overrode file: %q", cfg.Credentials.ZoteroAPIKey)
	}
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("ALAMETRICS_TEST_VAR=loaded\n"), 0644); err != nil {
		t.Fatalf("writing .env: %v", err)
	}
	t.Setenv("ALAMETRICS_TEST_VAR", "")
	os.Unsetenv("ALAMETRICS_TEST_VAR")

	if err := LoadEnv(path, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	if got := os.Getenv("ALAMETRICS_TEST_VAR"); got != "loaded" {
		t.Errorf("ALAMETRICS_TEST_VAR = %q, want loaded", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
		{"zero attempts", func(c *Config) { c.Attempts = 0 }},
		{"zero rate", func(c *Config) { c.RateLimit = 0 }},
		{"empty endpoint", func(c *Config) { c.Endpoints.Scopus = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() expected error")
			}
		})
	}
}

func TestRequire(t *testing.T) {
	cfg := Default()
	if err := cfg.Require(ServiceElsevier); !errors.Is(err, ErrMissingCredential) {
		t.Errorf("Require(elsevier) error = %v, want ErrMissingCredential", err)
	}

	cfg.Credentials.ElsevierAPIKey = "k"
	if err := cfg.Require(ServiceElsevier); err != nil {
		t.Errorf("Require(elsevier) error = %v", err)
	}

	cfg.Credentials.ZoteroAPIKey = "z"
	if err := cfg.Require(ServiceZotero); !errors.Is(err, ErrMissingCredential) {
		t.Errorf("Require(zotero) without library id error = %v", err)
	}
	cfg.Credentials.ZoteroLibraryID = "1"
	if err := cfg.Require(ServiceElsevier, ServiceZotero); err != nil {
		t.Errorf("Require(all) error = %v", err)
	}
}
