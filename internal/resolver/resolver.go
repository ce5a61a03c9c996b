// Package resolver turns parsed references into documentation URLs using the
// configured sources and their indexes.
package resolver

import (
	"context"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/javadocref/internal/foundation/errors"
	"git.home.luguber.info/inful/javadocref/internal/index"
	"git.home.luguber.info/inful/javadocref/internal/logfields"
	"git.home.luguber.info/inful/javadocref/internal/metrics"
	"git.home.luguber.info/inful/javadocref/internal/reference"
	"git.home.luguber.info/inful/javadocref/internal/source"
)

var (
	// ErrUnknownAlias reports an explicit source selector that names no source.
	ErrUnknownAlias = errors.NotFoundError("unknown source alias").Build()
	// ErrNotFound reports a class, member or overload absent from every candidate source.
	ErrNotFound = errors.NotFoundError("reference not found").Build()
	// ErrSourceUnreachable reports that no candidate source could provide its index.
	ErrSourceUnreachable = errors.NetworkError("documentation source unreachable").Build()
)

// Target is a successful resolution.
type Target struct {
	Reference reference.Reference
	Source    source.Source
	Class     index.Class
	// Member is set for references with a '#member' part.
	Member *index.Member
	URL    string
	// Label is the default display text.
	Label string
}

// Annotation reports whether the target is displayed with the '@' marker.
func (t Target) Annotation() bool {
	return t.Reference.Annotation || t.Class.IsAnnotation()
}

// Resolver resolves references against one registry. It holds no state of
// its own beyond the per-render cache it was built with.
type Resolver struct {
	registry *source.Registry
	cache    *index.Cache
	recorder metrics.Recorder
	logger   *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(res *Resolver) { res.recorder = metrics.OrNoop(r) }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(res *Resolver) {
		if l != nil {
			res.logger = l
		}
	}
}

// New returns a Resolver over registry using cache for index lookups.
func New(registry *source.Registry, cache *index.Cache, opts ...Option) *Resolver {
	r := &Resolver{
		registry: registry,
		cache:    cache,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Candidates returns the sources a reference is searched in, in order. An
// explicit alias selects exactly that source regardless of its auto-search
// flag; no alias selects every auto-searched source.
func (r *Resolver) Candidates(ref reference.Reference) ([]source.Source, error) {
	if !ref.HasAlias() {
		return r.registry.AutoSearched(), nil
	}
	src, ok := r.registry.Lookup(ref.Alias)
	if !ok {
		return nil, ErrUnknownAlias.WithContext("alias", ref.Alias)
	}
	return []source.Source{src}, nil
}

// Resolve searches the candidate sources in order and returns the first
// full match. Failures match ErrUnknownAlias, ErrNotFound or
// ErrSourceUnreachable; the last only when every candidate was unreachable.
func (r *Resolver) Resolve(ctx context.Context, ref reference.Reference) (Target, error) {
	target, err := r.resolve(ctx, ref)
	outcome := outcomeOf(err)
	r.recorder.IncResolution(outcome)
	if err != nil {
		r.logger.DebugContext(ctx, "Reference not resolved",
			logfields.Reference(ref.Raw),
			logfields.Outcome(string(outcome)),
			logfields.Error(err))
		return Target{}, err
	}
	r.logger.DebugContext(ctx, "Reference resolved",
		logfields.Reference(ref.Raw),
		logfields.Source(target.Source.Alias),
		logfields.URL(target.URL))
	return target, nil
}

func (r *Resolver) resolve(ctx context.Context, ref reference.Reference) (Target, error) {
	candidates, err := r.Candidates(ref)
	if err != nil {
		return Target{}, err
	}

	unreachable := 0
	for _, src := range candidates {
		if err := ctx.Err(); err != nil {
			return Target{}, ErrSourceUnreachable.WithContext("reason", err.Error())
		}
		target, err := r.resolveIn(ctx, src, ref)
		if err == nil {
			return target, nil
		}
		if errors.Is(err, ErrSourceUnreachable) {
			unreachable++
		}
	}
	if len(candidates) > 0 && unreachable == len(candidates) {
		return Target{}, ErrSourceUnreachable.WithContext("reference", ref.Raw)
	}
	return Target{}, ErrNotFound.WithContext("reference", ref.Raw)
}

func (r *Resolver) resolveIn(ctx context.Context, src source.Source, ref reference.Reference) (Target, error) {
	ix, err := r.cache.Index(ctx, src)
	if err != nil {
		return Target{}, errors.WrapError(err, errors.CategoryNetwork, ErrSourceUnreachable.Message()).
			WithContext("source", src.Alias).
			Build()
	}

	cls, ok := findClass(ix, ref)
	if !ok {
		return Target{}, ErrNotFound.WithContext("source", src.Alias)
	}

	target := Target{
		Reference: ref,
		Source:    src,
		Class:     cls,
		URL:       src.Join(cls.Path(src.IncludesModule())),
	}
	if ref.HasMember() {
		members, err := r.cache.Members(ctx, src, ix, cls)
		if err != nil {
			return Target{}, errors.WrapError(err, errors.CategoryNotFound, ErrNotFound.Message()).
				WithContext("source", src.Alias).
				Build()
		}
		m, ok := pickMember(members, cls, ref)
		if !ok {
			return Target{}, ErrNotFound.WithContext("source", src.Alias).WithContext("member", ref.Member)
		}
		target.Member = &m
		target.URL += "#" + fragment(m)
	}
	target.Label = ref.Label(target.Annotation())
	return target, nil
}

// findClass looks a package-qualified name up directly and searches by
// simple (possibly nested) name otherwise.
func findClass(ix *index.Index, ref reference.Reference) (index.Class, bool) {
	if ref.HasPackage() {
		return ix.Lookup(ref.PackageName(), ref.ClassName)
	}
	return ix.Search(ref.ClassName)
}

// pickMember returns the first member named ref.Member whose parameters
// match. A reference without a parameter list takes the first member of
// that name; "m()" selects the zero-argument overload.
func pickMember(members []index.Member, cls index.Class, ref reference.Reference) (index.Member, bool) {
	for _, m := range members {
		if memberName(m, cls) != ref.Member {
			continue
		}
		if !ref.HasParameters {
			return m, true
		}
		if m.IsCallable() && index.ParametersMatch(ref.Parameters, m.ParameterTypes()) {
			return m, true
		}
	}
	return index.Member{}, false
}

func memberName(m index.Member, cls index.Class) string {
	name := m.Name()
	if name != index.ConstructorName {
		return name
	}
	simple := cls.Name
	if dot := strings.LastIndexByte(simple, '.'); dot >= 0 {
		simple = simple[dot+1:]
	}
	return simple
}

func fragment(m index.Member) string {
	return strings.Replace(m.Signature, index.ConstructorName, "%3Cinit%3E", 1)
}

func outcomeOf(err error) metrics.Outcome {
	switch {
	case err == nil:
		return metrics.OutcomeResolved
	case errors.Is(err, ErrUnknownAlias):
		return metrics.OutcomeUnknownAlias
	case errors.Is(err, ErrSourceUnreachable):
		return metrics.OutcomeUnreachable
	default:
		return metrics.OutcomeNotFound
	}
}
