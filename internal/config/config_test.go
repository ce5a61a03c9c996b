package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/javadocref/internal/foundation/errors"
	"git.home.luguber.info/inful/javadocref/internal/retry"
	"git.home.luguber.info/inful/javadocref/internal/source"
)

const sample = `
sources:
  - https://docs.oracle.com/en/java/javase/24/docs/api/
  - alias: jdk8
    url: https://docs.oracle.com/javase/8/docs/api/
    type: old
    auto_searched: "false"
  - ./docs/javadoc
autolink-format: |
  if ref["kind"] == "class" {
      return ref["package"] + "." + ref["name"]
  }
fetch:
  timeout: 5s
  retries: 0
  backoff: exponential
logging:
  level: debug
  format: json
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	require.Len(t, cfg.Sources, 3)
	assert.Equal(t, "jdk8", cfg.Sources[1].Alias)
	assert.Contains(t, cfg.AutolinkFormat, `ref["package"]`)
	assert.Equal(t, 5*time.Second, cfg.Fetch.Timeout)
	require.NotNil(t, cfg.Fetch.Retries)
	assert.Equal(t, 0, *cfg.Fetch.Retries)
	assert.Equal(t, RetryBackoffExponential, cfg.Fetch.Backoff)
	assert.Equal(t, DefaultUserAgent, cfg.Fetch.UserAgent)
	assert.Equal(t, LogLevelDebug, cfg.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
	assert.Equal(t, DefaultConcurrency, cfg.Render.Concurrency)

	policy := cfg.RetryPolicy()
	assert.Equal(t, retry.BackoffExponential, policy.Mode)
	assert.Equal(t, 0, policy.MaxRetries)

	sources := cfg.SourceList()
	require.Len(t, sources.Sources, 3)
	assert.Equal(t, source.KindOld, sources.Sources[1].Kind)
	assert.False(t, sources.Sources[1].AutoSearched)
	assert.Equal(t, source.KindLocal, sources.Sources[2].Kind)
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, cfg.Sources)
	assert.Equal(t, DefaultTimeout, cfg.Fetch.Timeout)
	require.NotNil(t, cfg.Fetch.Retries)
	assert.Equal(t, DefaultRetries, *cfg.Fetch.Retries)
	assert.Equal(t, RetryBackoffLinear, cfg.Fetch.Backoff)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, Default(), cfg)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("urls:\n  - https://example.com/\n"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestParseRejectsUnknownSourceField(t *testing.T) {
	_, err := Parse([]byte("sources:\n  - url: https://example.com/\n    colour: red\n"))
	require.Error(t, err)
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("JAVADOC_BASE", "https://javadoc.example.com/api/")
	path := filepath.Join(t.TempDir(), "javadocref.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sources:\n  - ${JAVADOC_BASE}\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Sources, 1)
	assert.Equal(t, "https://javadoc.example.com/api/", cfg.Sources[0].URL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestNormalizeConfigEnums(t *testing.T) {
	retries := -3
	cfg := Default()
	cfg.Logging.Level = "WARNING"
	cfg.Logging.Format = " JSON "
	cfg.Fetch.Backoff = "ExPoNeNtIaL"
	cfg.Fetch.Retries = &retries

	res, err := NormalizeConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, LogLevelWarn, cfg.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
	assert.Equal(t, RetryBackoffExponential, cfg.Fetch.Backoff)
	assert.Equal(t, 0, *cfg.Fetch.Retries)
	assert.Len(t, res.Warnings, 4)
}

func TestNormalizeConfigUnknowns(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "chatty"
	cfg.Logging.Format = "xml"
	cfg.Fetch.Backoff = "spiral"
	cfg.Sources = []source.Entry{{URL: "ftp://example.com/api/"}}

	res, err := NormalizeConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
	assert.Equal(t, RetryBackoffLinear, cfg.Fetch.Backoff)
	require.Len(t, res.Warnings, 3)
	for _, w := range res.Warnings {
		assert.NotContains(t, w, "sources[0]")
	}
}

func TestNormalizeConfigNil(t *testing.T) {
	_, err := NormalizeConfig(nil)
	assert.Error(t, err)
}

func TestLogLevelSlog(t *testing.T) {
	assert.Equal(t, "DEBUG", LogLevelDebug.SlogLevel().String())
	assert.Equal(t, "ERROR", LogLevelError.SlogLevel().String())
	assert.Equal(t, "INFO", LogLevel("").SlogLevel().String())
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	name, err := LoadEnvFile()
	require.NoError(t, err)
	assert.Empty(t, name)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("JAVADOCREF_TEST_VALUE=from-file\n"), 0o600))
	t.Setenv("JAVADOCREF_TEST_VALUE", "")
	require.NoError(t, os.Unsetenv("JAVADOCREF_TEST_VALUE"))

	name, err = LoadEnvFile()
	require.NoError(t, err)
	assert.Equal(t, ".env.local", name)
	assert.Equal(t, "from-file", os.Getenv("JAVADOCREF_TEST_VALUE"))
}
