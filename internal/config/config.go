// Package config handles pipeline configuration: provider endpoints,
// credentials and batch tuning, read from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// AppDir is the directory name under XDG_CONFIG_HOME.
	AppDir = "alametrics"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
)

// Environment variables that override file credentials.
const (
	EnvElsevierAPIKey  = "ELSEVIER_API_KEY"
	EnvAltmetricAPIKey = "ALTMETRIC_API_KEY"
	EnvZoteroAPIKey    = "ZOTERO_API_KEY"
	EnvZoteroLibraryID = "ZOTERO_LIBRARY_ID"
)

// ErrMissingCredential is returned by Require when a provider's credential
// is not configured.
var ErrMissingCredential = errors.New("missing credential")

// Config is passed by value into every client constructor.
type Config struct {
	Endpoints   Endpoints     `yaml:"endpoints"`
	Credentials Credentials   `yaml:"credentials"`
	Workers     int           `yaml:"workers"`
	Timeout     time.Duration `yaml:"timeout"`
	Attempts    int           `yaml:"attempts"`
	RateLimit   float64       `yaml:"rate_limit"`
	LogLevel    string        `yaml:"log_level"`
}

// Endpoints are the base URLs of every upstream service.
type Endpoints struct {
	Literature      string `yaml:"literature"`
	DatasetSearch   string `yaml:"dataset_search"`
	RegistryWebHost string `yaml:"registry_web_host"`
	Resolver        string `yaml:"resolver"`
	PlumX           string `yaml:"plumx"`
	Altmetric       string `yaml:"altmetric"`
	Scopus          string `yaml:"scopus"`
	Zotero          string `yaml:"zotero"`
	ALAFacets       string `yaml:"ala_facets"`
	ALACollections  string `yaml:"ala_collections"`
}

// Credentials are opaque to the pipeline.
type Credentials struct {
	ElsevierAPIKey  string `yaml:"elsevier_api_key,omitempty"`
	AltmetricAPIKey string `yaml:"altmetric_api_key,omitempty"`
	ZoteroAPIKey    string `yaml:"zotero_api_key,omitempty"`
	ZoteroLibraryID string `yaml:"zotero_library_id,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Endpoints: Endpoints{
			Literature:      "https://www.gbif.org/api/resource/search",
			DatasetSearch:   "https://api.gbif.org/v1/dataset/search",
			RegistryWebHost: "www.gbif.org",
			Resolver:        "http://doi.org/",
			PlumX:           "https://api.elsevier.com/analytics/plumx",
			Altmetric:       "https://api.altmetric.com/v1",
			Scopus:          "https://api.elsevier.com",
			Zotero:          "https://api.zotero.org",
			ALAFacets:       "https://biocache-ws.ala.org.au/ws/occurrence/facets",
			ALACollections:  "https://collections.ala.org.au/ws/dataResource/",
		},
		Workers:   4,
		Timeout:   30 * time.Second,
		Attempts:  2,
		RateLimit: 5,
		LogLevel:  "info",
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/alametrics/config.yml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppDir, ConfigFile)
}

// Load reads the YAML file at path over Default. A missing file is not an
// error; the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadEnv loads .env files into the process environment. Missing files are
// ignored; with no arguments ./.env is tried.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides credentials with any non-empty environment values.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(&c.Credentials.ElsevierAPIKey, EnvElsevierAPIKey)
	set(&c.Credentials.AltmetricAPIKey, EnvAltmetricAPIKey)
	set(&c.Credentials.ZoteroAPIKey, EnvZoteroAPIKey)
	set(&c.Credentials.ZoteroLibraryID, EnvZoteroLibraryID)
}

// Validate checks the tuning values and that every endpoint is set.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.Attempts < 1 {
		return fmt.Errorf("attempts must be at least 1, got %d", c.Attempts)
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("rate_limit must be positive, got %v", c.RateLimit)
	}

	endpoints := map[string]string{
		"literature":        c.Endpoints.Literature,
		"dataset_search":    c.Endpoints.DatasetSearch,
		"registry_web_host": c.Endpoints.RegistryWebHost,
		"resolver":          c.Endpoints.Resolver,
		"plumx":             c.Endpoints.PlumX,
		"altmetric":         c.Endpoints.Altmetric,
		"scopus":            c.Endpoints.Scopus,
		"zotero":            c.Endpoints.Zotero,
		"ala_facets":        c.Endpoints.ALAFacets,
		"ala_collections":   c.Endpoints.ALACollections,
	}
	for name, v := range endpoints {
		if v == "" {
			return fmt.Errorf("endpoints.%s is empty", name)
		}
	}
	return nil
}

// Service names a credentialed upstream.
type Service string

const (
	ServiceElsevier Service = "elsevier"
	ServiceZotero   Service = "zotero"
)

// Require returns ErrMissingCredential naming the first service whose
// credentials are not configured.
func (c Config) Require(services ...Service) error {
	for _, s := range services {
		switch s {
		case ServiceElsevier:
			if c.Credentials.ElsevierAPIKey == "" {
				return fmt.Errorf("%w: set %s or credentials.elsevier_api_key in %s",
					ErrMissingCredential, EnvElsevierAPIKey, DefaultPath())
			}
		case ServiceZotero:
			if c.Credentials.ZoteroAPIKey == "" {
				return fmt.Errorf("%w: set %s or credentials.zotero_api_key in %s",
					ErrMissingCredential, EnvZoteroAPIKey, DefaultPath())
			}
			if c.Credentials.ZoteroLibraryID == "" {
				return fmt.Errorf("%w: set %s or credentials.zotero_library_id in %s",
					ErrMissingCredential, EnvZoteroLibraryID, DefaultPath())
			}
		}
	}
	return nil
}

// HelpfulConfigMessage explains where credentials are read from.
func HelpfulConfigMessage() string {
	path := DefaultPath()
	return fmt.Sprintf(`Credentials are read from %s, a .env file, or the environment.

Tip: create the config file with
  mkdir -p %s
  printf 'credentials:\n  elsevier_api_key: <key>\n' > %s`,
		path, filepath.Dir(path), path)
}
