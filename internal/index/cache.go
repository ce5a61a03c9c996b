package index

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/javadocref/internal/logfields"
	"git.home.luguber.info/inful/javadocref/internal/metrics"
	"git.home.luguber.info/inful/javadocref/internal/source"
)

type loadResult struct {
	once sync.Once
	ix   *Index
	err  error
}

type membersResult struct {
	once    sync.Once
	members []Member
	err     error
}

type memberKey struct {
	location string
	pkg      string
	class    string
}

// Cache memoizes index loads for one render. Every source is loaded at most
// once, even when many references resolve concurrently. A Cache must not be
// shared between renders.
type Cache struct {
	provider Provider
	recorder metrics.Recorder
	logger   *slog.Logger

	mu      sync.Mutex
	indexes map[string]*loadResult
	members map[memberKey]*membersResult
}

// NewCache returns an empty cache in front of provider.
func NewCache(provider Provider, recorder metrics.Recorder, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		provider: provider,
		recorder: metrics.OrNoop(recorder),
		logger:   logger,
		indexes:  make(map[string]*loadResult),
		members:  make(map[memberKey]*membersResult),
	}
}

// Index returns the index of src, loading it on first use. A failed load is
// remembered for the rest of the render and logged once.
func (c *Cache) Index(ctx context.Context, src source.Source) (*Index, error) {
	c.mu.Lock()
	entry, ok := c.indexes[src.Location]
	if !ok {
		entry = &loadResult{}
		c.indexes[src.Location] = entry
	}
	c.mu.Unlock()

	entry.once.Do(func() {
		start := time.Now()
		entry.ix, entry.err = c.provider.Load(ctx, src)
		if entry.err == nil && entry.ix == nil {
			entry.err = ErrUnavailable
		}
		elapsed := time.Since(start)
		c.recorder.ObserveIndexLoad(src.Alias, elapsed, entry.err == nil)
		if entry.err != nil {
			c.logger.WarnContext(ctx, "Documentation index unavailable",
				logfields.Source(src.Alias),
				logfields.SourceKind(string(src.Kind)),
				logfields.URL(src.BaseURL()),
				logfields.Error(entry.err))
			return
		}
		c.logger.DebugContext(ctx, "Loaded documentation index",
			logfields.Source(src.Alias),
			logfields.SourceKind(string(src.Kind)),
			logfields.Count(entry.ix.Len()),
			logfields.Duration(elapsed))
	})
	return entry.ix, entry.err
}

// Members returns the members of cls. When the index carries no member data
// and the provider is a MemberProvider, the class page is consulted once.
func (c *Cache) Members(ctx context.Context, src source.Source, ix *Index, cls Class) ([]Member, error) {
	if ix.MembersKnown() {
		return ix.Members(cls), nil
	}
	mp, ok := c.provider.(MemberProvider)
	if !ok {
		return nil, nil
	}

	key := memberKey{location: src.Location, pkg: cls.Package, class: cls.Name}
	c.mu.Lock()
	entry, found := c.members[key]
	if !found {
		entry = &membersResult{}
		c.members[key] = entry
	}
	c.mu.Unlock()

	entry.once.Do(func() {
		entry.members, entry.err = mp.LoadMembers(ctx, src, cls)
		if entry.err != nil {
			c.logger.DebugContext(ctx, "Class page unavailable",
				logfields.Source(src.Alias),
				logfields.Reference(cls.QualifiedName()),
				logfields.Error(entry.err))
		}
	})
	return entry.members, entry.err
}
