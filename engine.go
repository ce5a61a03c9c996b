// Package javadocref turns short javadoc references written in markdown
// ("<String>", "[label][[jdk8 -> java.util.List#add(E)]]") into links to the
// matching page of a configured javadoc site.
package javadocref

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"

	"git.home.luguber.info/inful/javadocref/internal/config"
	"git.home.luguber.info/inful/javadocref/internal/format"
	"git.home.luguber.info/inful/javadocref/internal/index"
	"git.home.luguber.info/inful/javadocref/internal/logfields"
	"git.home.luguber.info/inful/javadocref/internal/mdext"
	"git.home.luguber.info/inful/javadocref/internal/metrics"
	"git.home.luguber.info/inful/javadocref/internal/reference"
	"git.home.luguber.info/inful/javadocref/internal/source"
)

// Engine renders markdown with javadoc references resolved against one
// configuration. It is safe for concurrent use; every Convert call gets its
// own index cache.
type Engine struct {
	registry *source.Registry
	ext      *mdext.Extension
	md       goldmark.Markdown
	logger   *slog.Logger
}

type options struct {
	provider  index.Provider
	formatter format.Formatter
	recorder  metrics.Recorder
	logger    *slog.Logger
	client    *http.Client
	markdown  []goldmark.Option
}

// Option customizes an Engine.
type Option func(*options)

// WithProvider replaces the network and filesystem index loader.
func WithProvider(p index.Provider) Option {
	return func(o *options) { o.provider = p }
}

// WithFormatter replaces the formatter built from autolink-format.
func WithFormatter(f format.Formatter) Option {
	return func(o *options) { o.formatter = f }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithHTTPClient sets the client used for remote indexes.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.client = c }
}

// WithMarkdownOptions passes extra options to the goldmark instance.
func WithMarkdownOptions(opts ...goldmark.Option) Option {
	return func(o *options) { o.markdown = append(o.markdown, opts...) }
}

// New builds an Engine. Unusable source entries are dropped with a warning;
// an autolink-format that does not compile or does not cover every variant
// is a configuration error.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	o.recorder = metrics.OrNoop(o.recorder)

	list := cfg.SourceList()
	for _, w := range list.Warnings {
		o.logger.WarnContext(ctx, "Source configuration adjusted", slog.String("warning", w))
	}
	for range list.Dropped {
		o.recorder.IncSourceDropped()
	}
	registry := source.NewRegistry(list.Sources)
	for _, alias := range registry.DuplicateAliases() {
		o.logger.WarnContext(ctx, "Duplicate source alias, first declaration wins", logfields.Source(alias))
	}

	if o.formatter == nil && cfg.AutolinkFormat != "" {
		script, err := format.NewScript(ctx, cfg.AutolinkFormat)
		if err != nil {
			return nil, err
		}
		o.formatter = script
	}

	if o.provider == nil {
		loaderOpts := []index.LoaderOption{
			index.WithTimeout(cfg.Fetch.Timeout),
			index.WithRetryPolicy(cfg.RetryPolicy()),
			index.WithUserAgent(cfg.Fetch.UserAgent),
			index.WithLoaderLogger(o.logger),
		}
		if o.client != nil {
			loaderOpts = append(loaderOpts, index.WithHTTPClient(o.client))
		}
		o.provider = index.NewLoader(loaderOpts...)
	}

	ext := mdext.New(mdext.Config{
		Registry:    registry,
		Provider:    o.provider,
		Formatter:   o.formatter,
		Recorder:    o.recorder,
		Logger:      o.logger,
		Concurrency: cfg.Render.Concurrency,
	})
	md := goldmark.New(append(o.markdown, goldmark.WithExtensions(ext))...)

	o.logger.DebugContext(ctx, "Engine ready", logfields.Count(registry.Len()))
	return &Engine{registry: registry, ext: ext, md: md, logger: o.logger}, nil
}

// Extension returns the goldmark extension so callers can add it to their
// own markdown pipeline.
func (e *Engine) Extension() goldmark.Extender { return e.ext }

// Markdown returns the engine's goldmark instance.
func (e *Engine) Markdown() goldmark.Markdown { return e.md }

// Sources returns the registered sources in declared order.
func (e *Engine) Sources() []source.Source { return e.registry.Sources() }

// Convert renders src as HTML into w. Indexes are fetched at most once per
// call and shared by every reference in the document.
func (e *Engine) Convert(ctx context.Context, src []byte, w io.Writer) error {
	renderID := uuid.NewString()
	start := time.Now()
	session := e.ext.NewSession(ctx, renderID)
	pc := parser.NewContext()
	session.Attach(pc)

	if err := e.md.Convert(src, w, parser.WithContext(pc)); err != nil {
		return err
	}
	e.logger.DebugContext(ctx, "Rendered document",
		logfields.RenderID(renderID),
		logfields.Duration(time.Since(start)))
	return nil
}

// Result is a resolved reference.
type Result struct {
	// Source is the alias of the source that knew the reference.
	Source string
	URL    string
	Label  string
}

// Resolve resolves one reference as it would be written between "<" and ">".
// Text that is not a reference yields reference.ErrNotReference.
func (e *Engine) Resolve(ctx context.Context, raw string) (Result, error) {
	ref, err := reference.Parse(raw)
	if err != nil {
		return Result{}, err
	}
	session := e.ext.NewSession(ctx, uuid.NewString())
	target, err := session.Resolver().Resolve(ctx, ref)
	if err != nil {
		return Result{}, err
	}
	return Result{Source: target.Source.Alias, URL: target.URL, Label: target.Label}, nil
}

// InvalidText is the visible text of a reference that could not be resolved.
func InvalidText(raw string) string { return mdext.InvalidPrefix + raw }
