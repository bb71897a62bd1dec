package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"time"

	ferrors "github.com/Mshivam2409/rustduino/internal/foundation/errors"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "navbuilder.yaml"

// Config is the navbuilder configuration file.
type Config struct {
	Site    Site          `yaml:"site"`
	Docs    DocsConfig    `yaml:"docs"`
	Sidebar SidebarConfig `yaml:"sidebar"`
	Oracle  OracleConfig  `yaml:"oracle"`
	Store   StoreConfig   `yaml:"store"`
	Events  EventsConfig  `yaml:"events,omitempty"`
	Metrics MetricsConfig `yaml:"metrics,omitempty"`
	Logging LoggingConfig `yaml:"logging"`
	Watch   WatchConfig   `yaml:"watch"`
}

// DocsConfig locates the documentation sources.
type DocsConfig struct {
	Path       string   `yaml:"path"`
	Extensions []string `yaml:"extensions"`
}

// SidebarConfig locates the raw sidebar declaration.
type SidebarConfig struct {
	File string `yaml:"file"`
	Name string `yaml:"name,omitempty"` // empty selects the first sidebar
}

// OracleConfig selects and configures the document-existence lookup.
type OracleConfig struct {
	Type     OracleType       `yaml:"type"`
	CacheTTL string           `yaml:"cache_ttl,omitempty"`
	Git      GitOracleConfig  `yaml:"git,omitempty"`
	NATS     NATSOracleConfig `yaml:"nats,omitempty"`
	Static   []string         `yaml:"static,omitempty"`
}

type GitOracleConfig struct {
	Repo string `yaml:"repo"`
	Ref  string `yaml:"ref"`
	Path string `yaml:"path"`
}

type NATSOracleConfig struct {
	URL    string `yaml:"url"`
	Bucket string `yaml:"bucket"`
}

// StoreConfig locates the revision database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// EventsConfig enables publishing reports and revisions. Empty URL disables it.
type EventsConfig struct {
	URL     string `yaml:"url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// Enabled reports whether events should be published.
func (e EventsConfig) Enabled() bool { return e.URL != "" }

// MetricsConfig names a node-exporter textfile; empty disables metrics output.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// WatchConfig controls watch mode timings, as Go duration strings.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
	Recheck  string `yaml:"recheck"`
}

// DebounceDuration returns the parsed debounce window. Parse has validated it.
func (w WatchConfig) DebounceDuration() time.Duration { return parseDuration(w.Debounce) }

// RecheckInterval returns the parsed periodic recheck interval; zero disables it.
func (w WatchConfig) RecheckInterval() time.Duration { return parseDuration(w.Recheck) }

// CacheDuration returns the oracle cache TTL; zero disables caching.
func (o OracleConfig) CacheDuration() time.Duration { return parseDuration(o.CacheTTL) }

func parseDuration(s string) time.Duration {
	if s == "" {
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}

// Default returns a configuration with every default applied, used when no
// configuration file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads, expands, normalizes, defaults and validates a configuration file.
// Environment files are loaded first so ${VAR} references can use them.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ferrors.NotFoundError("configuration file not found").WithContext("path", path).Build()
	}
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read config file").
			WithContext("path", path).Build()
	}
	cfg, err := Parse(data)
	if err != nil {
		if ce, ok := ferrors.AsClassified(err); ok {
			return nil, ce.WithContext("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes configuration bytes. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to parse config").Build()
	}

	if err := normalizeConfig(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init writes an example configuration file derived from the site defaults.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).Build()
	}

	example := Default()
	if example.Site.Algolia != nil {
		example.Site.Algolia.APIKey = "${ALGOLIA_API_KEY}"
	}

	data, err := yaml.Marshal(example)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal config").Build()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write config file").
			WithContext("path", path).Build()
	}
	return nil
}
