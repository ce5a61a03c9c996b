// Package config loads the YAML configuration: documentation sources, the
// autolink-format override, index fetching and logging.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/javadocref/internal/foundation/errors"
	"git.home.luguber.info/inful/javadocref/internal/retry"
	"git.home.luguber.info/inful/javadocref/internal/source"
)

// Config is the whole configuration file.
type Config struct {
	// Sources are tried in declared order.
	Sources []source.Entry `yaml:"sources"`
	// AutolinkFormat is the body of a Risor function receiving "ref".
	AutolinkFormat string        `yaml:"autolink-format,omitempty"`
	Fetch          FetchConfig   `yaml:"fetch,omitempty"`
	Render         RenderConfig  `yaml:"render,omitempty"`
	Logging        LoggingConfig `yaml:"logging,omitempty"`
}

// FetchConfig controls how remote indexes are downloaded.
type FetchConfig struct {
	Timeout      time.Duration    `yaml:"timeout,omitempty"`
	Retries      *int             `yaml:"retries,omitempty"`
	Backoff      RetryBackoffMode `yaml:"backoff,omitempty"`
	InitialDelay time.Duration    `yaml:"initial_delay,omitempty"`
	MaxDelay     time.Duration    `yaml:"max_delay,omitempty"`
	UserAgent    string           `yaml:"user_agent,omitempty"`
}

// RenderConfig tunes markdown rendering.
type RenderConfig struct {
	// Concurrency bounds parallel resolutions per document.
	Concurrency int `yaml:"concurrency,omitempty"`
}

// LoggingConfig selects the CLI log handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// Defaults.
const (
	DefaultTimeout     = 15 * time.Second
	DefaultRetries     = 2
	DefaultUserAgent   = "javadocref"
	DefaultConcurrency = 8
)

// Default returns a configuration without sources and with every default applied.
func Default() *Config {
	c := &Config{}
	applyDefaults(c)
	return c
}

// Load reads the configuration file at path. Environment variables in the
// file are expanded before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ferrors.ConfigError("configuration file not found").
				WithContext("path", path).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read configuration file").
			WithContext("path", path).
			Build()
	}
	return Parse([]byte(os.ExpandEnv(string(data))))
}

// Parse decodes a configuration document and applies defaults. Unknown keys
// are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid configuration").
			UserAction().
			Build()
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(c *Config) {
	if c.Fetch.Timeout <= 0 {
		c.Fetch.Timeout = DefaultTimeout
	}
	if c.Fetch.Retries == nil {
		retries := DefaultRetries
		c.Fetch.Retries = &retries
	}
	if c.Fetch.Backoff == "" {
		c.Fetch.Backoff = RetryBackoffLinear
	}
	def := retry.DefaultPolicy()
	if c.Fetch.InitialDelay <= 0 {
		c.Fetch.InitialDelay = def.Initial
	}
	if c.Fetch.MaxDelay <= 0 {
		c.Fetch.MaxDelay = def.Max
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = DefaultUserAgent
	}
	if c.Render.Concurrency <= 0 {
		c.Render.Concurrency = DefaultConcurrency
	}
	if c.Logging.Level == "" {
		c.Logging.Level = LogLevelInfo
	}
	if c.Logging.Format == "" {
		c.Logging.Format = LogFormatText
	}
}

// RetryPolicy returns the backoff policy for index fetches.
func (c *Config) RetryPolicy() retry.Policy {
	retries := DefaultRetries
	if c.Fetch.Retries != nil {
		retries = max(*c.Fetch.Retries, 0)
	}
	mode, ok := retry.ParseMode(string(c.Fetch.Backoff))
	if !ok {
		mode = retry.BackoffLinear
	}
	return retry.NewPolicy(mode, c.Fetch.InitialDelay, c.Fetch.MaxDelay, retries)
}

// SourceList normalizes the configured sources. Dropped entries appear in
// the result's warnings.
func (c *Config) SourceList() source.Result {
	return source.Normalize(c.Sources)
}
