// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the client configuration.
//
// Configuration comes from a YAML file named by the --config flag or
// the SCIRE_CONFIG environment variable. Without either, [Default] is
// used as is. The file may carry development and production sections
// that override the base values when the environment matches. After
// the file, a small set of SCIRE_* variables override endpoints, the
// log level and the session path; a .env file in the working directory
// is read first so those variables can live there.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment selects which override block applies.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

// Config is the complete client configuration.
type Config struct {
	Environment Environment      `yaml:"environment"`
	Endpoints   EndpointsConfig  `yaml:"endpoints"`
	Connection  ConnectionConfig `yaml:"connection"`
	HTTP        HTTPConfig       `yaml:"http"`
	Session     SessionConfig    `yaml:"session"`
	Display     DisplayConfig    `yaml:"display"`
	Logging     LoggingConfig    `yaml:"logging"`
	Metrics     MetricsConfig    `yaml:"metrics"`

	Development *Overrides `yaml:"development,omitempty"`
	Production  *Overrides `yaml:"production,omitempty"`
}

// Overrides holds the fields an environment block may replace. Empty
// fields leave the base value alone.
type Overrides struct {
	Endpoints *EndpointsConfig `yaml:"endpoints,omitempty"`
	Logging   *LoggingConfig   `yaml:"logging,omitempty"`
}

// EndpointsConfig holds the backend base URLs.
type EndpointsConfig struct {
	Identity string `yaml:"identity"`
	API      string `yaml:"api"`
	Storage  string `yaml:"storage"`
	// Socket is the realtime websocket URL (ws:// or wss://).
	Socket string `yaml:"socket"`
}

// ConnectionConfig tunes the realtime connection.
type ConnectionConfig struct {
	// ReconnectDelay is the flat wait between a drop and the next dial.
	ReconnectDelay   time.Duration `yaml:"reconnect_delay"`
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
}

// HTTPConfig tunes the REST client.
type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// SessionConfig locates the stored credential. An empty Path means
// the default under the user config directory.
type SessionConfig struct {
	Path string `yaml:"path"`
}

// DisplayConfig controls rendering.
type DisplayConfig struct {
	// UTCOffset is the zone, in hours east of UTC, for displayed times.
	UTCOffset int `yaml:"utc_offset"`
}

// LoggingConfig configures lib/logging.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// MetricsConfig configures the optional Prometheus listener.
type MetricsConfig struct {
	// Listen is a host:port for /metrics. Empty disables it.
	Listen string `yaml:"listen"`
}

// Default returns the production endpoints with the stock timings.
func Default() *Config {
	return &Config{
		Environment: Production,
		Endpoints: EndpointsConfig{
			Identity: "https://oauth.antonkuzm.in",
			API:      "https://scire-server.antonkuzm.in",
			Storage:  "https://storage.antonkuzm.in",
			Socket:   "wss://scire-server.antonkuzm.in",
		},
		Connection: ConnectionConfig{
			ReconnectDelay:   5 * time.Second,
			HandshakeTimeout: 10 * time.Second,
			WriteTimeout:     10 * time.Second,
		},
		HTTP:    HTTPConfig{Timeout: 30 * time.Second},
		Display: DisplayConfig{UTCOffset: 4},
		Logging: LoggingConfig{Level: "info", MaxSizeMB: 10, MaxBackups: 3},
	}
}

// Load resolves the configuration. path wins over SCIRE_CONFIG; with
// neither the defaults are used. The result has been validated.
func Load(path string) (*Config, error) {
	if err := loadDotenv(".env"); err != nil {
		return nil, err
	}
	if path == "" {
		path = os.Getenv("SCIRE_CONFIG")
	}

	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnvironmentOverrides()
	cfg.applyVariables(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotenv reads path into the process environment without
// replacing variables that are already set. A missing file is fine.
func loadDotenv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvironmentOverrides() {
	var overrides *Overrides
	switch c.Environment {
	case Development:
		overrides = c.Development
	case Production:
		overrides = c.Production
	}
	if overrides == nil {
		return
	}

	if endpoints := overrides.Endpoints; endpoints != nil {
		setIfNonEmpty(&c.Endpoints.Identity, endpoints.Identity)
		setIfNonEmpty(&c.Endpoints.API, endpoints.API)
		setIfNonEmpty(&c.Endpoints.Storage, endpoints.Storage)
		setIfNonEmpty(&c.Endpoints.Socket, endpoints.Socket)
	}
	if logging := overrides.Logging; logging != nil {
		setIfNonEmpty(&c.Logging.Level, logging.Level)
		setIfNonEmpty(&c.Logging.File, logging.File)
		if logging.MaxSizeMB > 0 {
			c.Logging.MaxSizeMB = logging.MaxSizeMB
		}
		if logging.MaxBackups > 0 {
			c.Logging.MaxBackups = logging.MaxBackups
		}
	}
}

// variables maps SCIRE_* names onto the fields they override.
func (c *Config) variables() map[string]*string {
	return map[string]*string{
		"SCIRE_IDENTITY_URL": &c.Endpoints.Identity,
		"SCIRE_API_URL":      &c.Endpoints.API,
		"SCIRE_STORAGE_URL":  &c.Endpoints.Storage,
		"SCIRE_SOCKET_URL":   &c.Endpoints.Socket,
		"SCIRE_LOG_LEVEL":    &c.Logging.Level,
		"SCIRE_LOG_FILE":     &c.Logging.File,
		"SCIRE_SESSION":      &c.Session.Path,
	}
}

func (c *Config) applyVariables(lookup func(string) (string, bool)) {
	for name, field := range c.variables() {
		if value, ok := lookup(name); ok && value != "" {
			*field = value
		}
	}
}

func setIfNonEmpty(field *string, value string) {
	if value != "" {
		*field = value
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	for _, endpoint := range []struct {
		name    string
		value   string
		schemes []string
	}{
		{"endpoints.identity", c.Endpoints.Identity, []string{"http", "https"}},
		{"endpoints.api", c.Endpoints.API, []string{"http", "https"}},
		{"endpoints.storage", c.Endpoints.Storage, []string{"http", "https"}},
		{"endpoints.socket", c.Endpoints.Socket, []string{"ws", "wss"}},
	} {
		if err := checkURL(endpoint.value, endpoint.schemes); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", endpoint.name, err))
		}
	}

	for _, duration := range []struct {
		name  string
		value time.Duration
	}{
		{"connection.reconnect_delay", c.Connection.ReconnectDelay},
		{"connection.handshake_timeout", c.Connection.HandshakeTimeout},
		{"connection.write_timeout", c.Connection.WriteTimeout},
		{"http.timeout", c.HTTP.Timeout},
	} {
		if duration.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", duration.name, duration.value))
		}
	}

	if c.Display.UTCOffset < -12 || c.Display.UTCOffset > 14 {
		errs = append(errs, fmt.Errorf("display.utc_offset must be between -12 and 14, got %d", c.Display.UTCOffset))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level))
	}

	return errors.Join(errs...)
}

func checkURL(value string, schemes []string) error {
	if value == "" {
		return errors.New("is required")
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return err
	}
	if parsed.Host == "" {
		return fmt.Errorf("%q has no host", value)
	}
	for _, scheme := range schemes {
		if parsed.Scheme == scheme {
			return nil
		}
	}
	return fmt.Errorf("%q must use one of %v", value, schemes)
}
