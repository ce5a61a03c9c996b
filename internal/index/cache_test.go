package index

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/javadocref/internal/metrics"
	"git.home.luguber.info/inful/javadocref/internal/source"
)

type countingProvider struct {
	Static
	loads   atomic.Int32
	members atomic.Int32
	page    []Member
}

func (p *countingProvider) Load(ctx context.Context, src source.Source) (*Index, error) {
	p.loads.Add(1)
	return p.Static.Load(ctx, src)
}

func (p *countingProvider) LoadMembers(_ context.Context, _ source.Source, _ Class) ([]Member, error) {
	p.members.Add(1)
	return p.page, nil
}

type loadObservation struct {
	source  string
	success bool
}

type recordingRecorder struct {
	mu    sync.Mutex
	loads []loadObservation
}

func (r *recordingRecorder) ObserveIndexLoad(src string, _ time.Duration, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads = append(r.loads, loadObservation{source: src, success: success})
}

func (r *recordingRecorder) IncResolution(metrics.Outcome) {}
func (r *recordingRecorder) IncSourceDropped()             {}

func TestCacheLoadsEachSourceOnce(t *testing.T) {
	jdk := source.Source{Alias: "jdk", Location: "https://docs.example.com/api/", Kind: source.KindNew}
	provider := &countingProvider{Static: Static{jdk.Location: New([]Class{{Package: "java.lang", Name: "String"}}, nil)}}
	cache := NewCache(provider, nil, nil)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ix, err := cache.Index(t.Context(), jdk)
			assert.NoError(t, err)
			assert.Equal(t, 1, ix.Len())
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), provider.loads.Load())
}

func TestCacheRemembersFailures(t *testing.T) {
	missing := source.Source{Alias: "missing", Location: "https://nowhere.example.com/", Kind: source.KindNew}
	provider := &countingProvider{Static: Static{}}
	rec := &recordingRecorder{}
	cache := NewCache(provider, rec, nil)

	_, err := cache.Index(t.Context(), missing)
	require.ErrorIs(t, err, ErrUnavailable)
	_, err = cache.Index(t.Context(), missing)
	require.ErrorIs(t, err, ErrUnavailable)

	assert.Equal(t, int32(1), provider.loads.Load())
	assert.Equal(t, []loadObservation{{source: "missing", success: false}}, rec.loads)
}

func TestCacheMembersOnDemand(t *testing.T) {
	jdk8 := source.Source{Alias: "jdk8", Location: "https://docs.example.com/8/", Kind: source.KindOld}
	str := Class{Package: "java.lang", Name: "String"}
	provider := &countingProvider{
		Static: Static{jdk8.Location: New([]Class{str}, nil)},
		page:   []Member{{Package: "java.lang", Class: "String", Signature: "length--"}},
	}
	cache := NewCache(provider, nil, nil)

	ix, err := cache.Index(t.Context(), jdk8)
	require.NoError(t, err)
	for range 3 {
		members, err := cache.Members(t.Context(), jdk8, ix, str)
		require.NoError(t, err)
		assert.Len(t, members, 1)
	}
	assert.Equal(t, int32(1), provider.members.Load())
}

func TestCacheMembersFromIndex(t *testing.T) {
	jdk := source.Source{Alias: "jdk", Location: "https://docs.example.com/api/", Kind: source.KindNew}
	str := Class{Package: "java.lang", Name: "String"}
	provider := &countingProvider{Static: Static{jdk.Location: New([]Class{str}, []Member{
		{Package: "java.lang", Class: "String", Signature: "length()"},
	})}}
	cache := NewCache(provider, nil, nil)

	ix, err := cache.Index(t.Context(), jdk)
	require.NoError(t, err)
	members, err := cache.Members(t.Context(), jdk, ix, str)
	require.NoError(t, err)
	assert.Len(t, members, 1)
	assert.Zero(t, provider.members.Load())
}

func TestStaticLooksUpByAlias(t *testing.T) {
	ix := New(nil, nil)
	s := Static{"jdk": ix}
	got, err := s.Load(t.Context(), source.Source{Alias: "jdk", Location: "https://docs.example.com/"})
	require.NoError(t, err)
	assert.Same(t, ix, got)
}
