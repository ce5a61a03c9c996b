// Package mdext plugs javadoc reference resolution into goldmark: inline
// parsers for "<ref>" and "[label][[ref]]", a transformer that resolves every
// reference of a document, and an HTML renderer for the result.
package mdext

import (
	"context"
	"log/slog"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/javadocref/internal/format"
	"git.home.luguber.info/inful/javadocref/internal/index"
	"git.home.luguber.info/inful/javadocref/internal/logfields"
	"git.home.luguber.info/inful/javadocref/internal/metrics"
	"git.home.luguber.info/inful/javadocref/internal/resolver"
	"git.home.luguber.info/inful/javadocref/internal/source"
)

const defaultConcurrency = 8

// Config is everything a render needs. It is passed explicitly so that
// renders with different configurations can run side by side.
type Config struct {
	Registry  *source.Registry
	Provider  index.Provider
	Formatter format.Formatter
	Recorder  metrics.Recorder
	Logger    *slog.Logger
	// Concurrency bounds parallel resolutions per document.
	Concurrency int
}

// Extension is a goldmark.Extender.
type Extension struct {
	cfg Config
}

var _ goldmark.Extender = (*Extension)(nil)

// New returns an Extension for cfg, filling defaults for unset fields.
func New(cfg Config) *Extension {
	if cfg.Registry == nil {
		cfg.Registry = source.NewRegistry(nil)
	}
	if cfg.Provider == nil {
		cfg.Provider = index.Static{}
	}
	if cfg.Formatter == nil {
		cfg.Formatter = format.Default{}
	}
	cfg.Recorder = metrics.OrNoop(cfg.Recorder)
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	return &Extension{cfg: cfg}
}

// Extend implements goldmark.Extender.
func (e *Extension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithInlineParsers(
			util.Prioritized(inTextParser{}, inTextPriority),
			util.Prioritized(autolinkParser{}, autolinkPriority),
		),
		parser.WithASTTransformers(
			util.Prioritized(&transformer{ext: e}, 100),
		),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(&htmlRenderer{}, 100),
		),
	)
}

var sessionKey = parser.NewContextKey()

// Session is the state of one render: its context, its index cache and its
// correlation ID. Sessions are never shared between renders.
type Session struct {
	ctx       context.Context
	renderID  string
	resolver  *resolver.Resolver
	formatter format.Formatter
	logger    *slog.Logger
}

// NewSession starts a render with a fresh index cache.
func (e *Extension) NewSession(ctx context.Context, renderID string) *Session {
	logger := e.cfg.Logger
	if renderID != "" {
		logger = logger.With(logfields.RenderID(renderID))
	}
	cache := index.NewCache(e.cfg.Provider, e.cfg.Recorder, logger)
	return &Session{
		ctx:      ctx,
		renderID: renderID,
		resolver: resolver.New(e.cfg.Registry, cache,
			resolver.WithRecorder(e.cfg.Recorder),
			resolver.WithLogger(logger)),
		formatter: e.cfg.Formatter,
		logger:    logger,
	}
}

// RenderID returns the correlation ID of the render.
func (s *Session) RenderID() string { return s.renderID }

// Resolver returns the session's resolver.
func (s *Session) Resolver() *resolver.Resolver { return s.resolver }

// Attach stores s in pc so the transformer uses it for that parse.
func (s *Session) Attach(pc parser.Context) {
	pc.Set(sessionKey, s)
}

func sessionFrom(pc parser.Context) (*Session, bool) {
	s, ok := pc.Get(sessionKey).(*Session)
	return s, ok && s != nil
}

// resolution is the outcome for one node, applied after all nodes resolved.
type resolution struct {
	ok          bool
	destination string
	content     format.Output
}

func (s *Session) resolveNode(n *Node) resolution {
	target, err := s.resolver.Resolve(s.ctx, n.Ref)
	if err != nil {
		return resolution{}
	}
	res := resolution{ok: true, destination: target.URL, content: format.PlainText(target.Label)}
	if n.Form != FormAutolink || target.Member != nil {
		return res
	}

	out, err := s.formatter.Format(s.ctx, format.ClassRef{
		Module:     target.Class.Module,
		Package:    target.Class.Package,
		Name:       target.Class.Name,
		Annotation: target.Annotation(),
		URL:        target.URL,
		Label:      target.Label,
	})
	if err != nil {
		s.logger.WarnContext(s.ctx, "Link formatter failed, using default label",
			logfields.Reference(n.Raw),
			logfields.Error(err))
		return res
	}
	res.content = out
	return res
}
