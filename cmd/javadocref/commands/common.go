package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/javadocref"
	"git.home.luguber.info/inful/javadocref/internal/config"
	"git.home.luguber.info/inful/javadocref/internal/foundation/errors"
	"git.home.luguber.info/inful/javadocref/internal/logfields"
	"git.home.luguber.info/inful/javadocref/internal/metrics"
)

// DefaultConfigPath is used when neither --config nor JAVADOCREF_CONFIG is set.
// A missing default file means "no sources" rather than an error.
const DefaultConfigPath = "javadocref.yaml"

// Global is the state shared by every subcommand after flag parsing.
type Global struct {
	Logger   *slog.Logger
	Config   *config.Config
	Recorder metrics.Recorder
	Stdout   io.Writer

	registry *prometheus.Registry
}

// CLI definition & global flags.
type CLI struct {
	Config      string           `short:"c" env:"JAVADOCREF_CONFIG" help:"Configuration file path" default:"javadocref.yaml"`
	Verbose     bool             `short:"v" help:"Enable verbose logging"`
	MetricsFile string           `name:"metrics-file" help:"Write Prometheus metrics to this textfile on exit"`
	Version     kong.VersionFlag `name:"version" help:"Show version and exit"`

	Render  RenderCmd  `cmd:"" help:"Render markdown files to HTML with javadoc references resolved"`
	Resolve ResolveCmd `cmd:"" help:"Resolve a single reference and print its link"`
	Sources SourcesCmd `cmd:"" help:"List the configured documentation sources"`

	global *Global
}

// AfterApply runs after flag parsing: it loads .env files and the
// configuration, then installs the log handler once.
func (c *CLI) AfterApply() error {
	envFile, err := config.LoadEnvFile()
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "load .env file").Build()
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	norm, err := config.NormalizeConfig(cfg)
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "normalize configuration").Build()
	}

	logger := newLogger(os.Stderr, cfg.Logging, c.Verbose)
	slog.SetDefault(logger)
	if envFile != "" {
		logger.Debug("Loaded environment file", logfields.File(envFile))
	}
	for _, w := range norm.Warnings {
		logger.Warn("Configuration adjusted", slog.String("warning", w))
	}

	g := &Global{Logger: logger, Config: cfg, Stdout: os.Stdout}
	if c.MetricsFile != "" {
		g.registry = prometheus.NewRegistry()
		g.Recorder = metrics.NewPrometheusRecorder(g.registry)
	}
	c.global = g
	return nil
}

// Global returns the state prepared by AfterApply.
func (c *CLI) Global() *Global { return c.global }

func (c *CLI) loadConfig() (*config.Config, error) {
	if c.Config == DefaultConfigPath {
		if _, err := os.Stat(c.Config); err != nil {
			return config.Default(), nil
		}
	}
	return config.Load(c.Config)
}

// Close flushes metrics to --metrics-file when requested.
func (c *CLI) Close() error {
	if c.global == nil || c.global.registry == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(c.MetricsFile, c.global.registry); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "write metrics file").
			WithContext("path", c.MetricsFile).
			Build()
	}
	return nil
}

// newLogger picks the handler: JSON when configured, colored tint output on
// a terminal, plain text otherwise. --verbose forces debug.
func newLogger(w *os.File, lc config.LoggingConfig, verbose bool) *slog.Logger {
	level := lc.Level.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	switch {
	case lc.Format == config.LogFormatJSON:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	case isatty.IsTerminal(w.Fd()):
		return slog.New(tint.NewHandler(w, &tint.Options{Level: level, TimeFormat: time.Kitchen}))
	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	}
}

// NewEngine builds the rendering engine from the loaded configuration.
func (g *Global) NewEngine(ctx context.Context) (*javadocref.Engine, error) {
	return javadocref.New(ctx, g.Config,
		javadocref.WithLogger(g.Logger),
		javadocref.WithRecorder(g.Recorder))
}
