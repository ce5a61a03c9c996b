package index

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/viant/afs"

	"git.home.luguber.info/inful/javadocref/internal/foundation/errors"
	"git.home.luguber.info/inful/javadocref/internal/logfields"
	"git.home.luguber.info/inful/javadocref/internal/retry"
	"git.home.luguber.info/inful/javadocref/internal/source"
)

const (
	maxIndexBytes    = 64 * 1024 * 1024
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "javadocref"
)

// Files read from a documentation root.
const (
	fileTypeIndex       = "type-search-index.js"
	fileTypeIndexZip    = "type-search-index.zip"
	fileMemberIndex     = "member-search-index.js"
	fileMemberIndexZip  = "member-search-index.zip"
	filePackageIndex    = "package-search-index.js"
	filePackageIndexZip = "package-search-index.zip"
	fileAllClassesIndex = "allclasses-index.html"
	fileAllClassesNoFr  = "allclasses-noframe.html"
	fileAllClassesFrame = "allclasses-frame.html"
)

// errMissing reports a documentation file the source does not have.
var errMissing = errors.NotFoundError("documentation file missing").Build()

// Loader is the Provider for real documentation sites and local javadoc trees.
type Loader struct {
	client    *http.Client
	fs        afs.Service
	policy    retry.Policy
	userAgent string
	logger    *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHTTPClient replaces the HTTP client used for remote sources.
func WithHTTPClient(c *http.Client) LoaderOption {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) {
		if d > 0 {
			l.client.Timeout = d
		}
	}
}

// WithRetryPolicy sets the backoff used for transient fetch failures.
func WithRetryPolicy(p retry.Policy) LoaderOption {
	return func(l *Loader) { l.policy = p }
}

// WithUserAgent sets the User-Agent header of remote requests.
func WithUserAgent(ua string) LoaderOption {
	return func(l *Loader) {
		if ua != "" {
			l.userAgent = ua
		}
	}
}

// WithFileService replaces the afs service used for local sources.
func WithFileService(fs afs.Service) LoaderOption {
	return func(l *Loader) {
		if fs != nil {
			l.fs = fs
		}
	}
}

// WithLoaderLogger sets the logger.
func WithLoaderLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader returns a Loader with safe defaults.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		client:    &http.Client{Timeout: defaultTimeout},
		fs:        afs.New(),
		policy:    retry.DefaultPolicy(),
		userAgent: defaultUserAgent,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load implements Provider. Sources declared old are read from the
// frame-era class lists. All others try the search index scripts first and
// fall back to the class lists when the site has none, as pre-module sites
// such as JDK 8 do.
func (l *Loader) Load(ctx context.Context, src source.Source) (*Index, error) {
	var (
		ix  *Index
		err error
	)
	switch src.Kind {
	case source.KindOld:
		ix, err = l.loadClassList(ctx, src)
	default:
		ix, err = l.loadSearchIndex(ctx, src)
		if errors.Is(err, errMissing) {
			l.logger.DebugContext(ctx, "No search index, reading the class list",
				logfields.Source(src.Alias),
				logfields.SourceKind(string(src.Kind)))
			ix, err = l.loadClassList(ctx, src)
		}
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryNetwork, ErrUnavailable.Message()).
			WithContext("source", src.Alias).
			WithContext("location", src.Location).
			Build()
	}
	return ix, nil
}

// LoadMembers implements MemberProvider by reading anchors from the class page.
func (l *Loader) LoadMembers(ctx context.Context, src source.Source, c Class) ([]Member, error) {
	body, err := l.fetch(ctx, src, c.Path(src.IncludesModule()))
	if err != nil {
		return nil, err
	}
	return parseClassPage(bytes.NewReader(body), c)
}

func (l *Loader) loadSearchIndex(ctx context.Context, src source.Source) (*Index, error) {
	modules := map[string]string{}
	if pkgs, err := fetchEntries[packageEntry](ctx, l, src, filePackageIndex, filePackageIndexZip); err == nil {
		modules = packageModules(pkgs)
	}

	types, err := fetchEntries[typeEntry](ctx, l, src, fileTypeIndex, fileTypeIndexZip)
	if err != nil {
		return nil, err
	}
	classes := classesFromTypeIndex(types, modules)

	if body, err := l.fetch(ctx, src, fileAllClassesIndex); err == nil {
		if listed, err := parseAllClasses(bytes.NewReader(body)); err == nil {
			applyKinds(classes, listed)
		}
	}

	var members []Member
	if entries, err := fetchEntries[memberEntry](ctx, l, src, fileMemberIndex, fileMemberIndexZip); err == nil {
		members = membersFromIndex(entries, modules)
	} else {
		l.logger.DebugContext(ctx, "No member index, class pages will be read on demand",
			logfields.Source(src.Alias), logfields.Error(err))
	}
	return New(classes, members), nil
}

func (l *Loader) loadClassList(ctx context.Context, src source.Source) (*Index, error) {
	body, err := l.fetch(ctx, src, fileAllClassesNoFr)
	if errors.Is(err, errMissing) {
		body, err = l.fetch(ctx, src, fileAllClassesFrame)
	}
	if err != nil {
		return nil, err
	}
	classes, err := parseAllClasses(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return New(classes, nil), nil
}

// fetchEntries reads a search index, trying the script form before the zip form.
func fetchEntries[T any](ctx context.Context, l *Loader, src source.Source, script, archive string) ([]T, error) {
	body, err := l.fetch(ctx, src, script)
	if err == nil {
		return decodeEntries[T](body, false)
	}
	if !errors.Is(err, errMissing) {
		return nil, err
	}
	body, err = l.fetch(ctx, src, archive)
	if err != nil {
		return nil, err
	}
	return decodeEntries[T](body, true)
}

func (l *Loader) fetch(ctx context.Context, src source.Source, rel string) ([]byte, error) {
	target := src.Join(rel)
	if src.IsLocal() {
		return l.readLocal(ctx, target)
	}
	var body []byte
	err := l.policy.Do(ctx, errors.IsRetryable, func(ctx context.Context) error {
		var err error
		body, err = l.get(ctx, target)
		return err
	})
	return body, err
}

func (l *Loader) readLocal(ctx context.Context, target string) ([]byte, error) {
	exists, err := l.fs.Exists(ctx, target)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "stat documentation file").
			WithContext("url", target).
			Build()
	}
	if !exists {
		return nil, errMissing.WithContext("url", target)
	}
	data, err := l.fs.DownloadWithURL(ctx, target)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "read documentation file").
			WithContext("url", target).
			Build()
	}
	return data, nil
}

func (l *Loader) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "build request").Build()
	}
	req.Header.Set("User-Agent", l.userAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryNetwork, "fetch documentation file").
			Retryable().
			WithContext("url", target).
			Build()
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, errMissing.WithContext("url", target)
	case resp.StatusCode >= 500:
		return nil, errors.NetworkError(fmt.Sprintf("fetch documentation file: HTTP %d", resp.StatusCode)).
			WithContext("url", target).
			Build()
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, errors.NewError(errors.CategoryNetwork, fmt.Sprintf("fetch documentation file: HTTP %d", resp.StatusCode)).
			WithContext("url", target).
			Build()
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxIndexBytes+1))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryNetwork, "read response").
			Retryable().
			WithContext("url", target).
			Build()
	}
	if len(data) > maxIndexBytes {
		return nil, errors.NewError(errors.CategoryNetwork, "documentation file too large").
			WithContext("url", target).
			Build()
	}
	l.logger.DebugContext(ctx, "Fetched documentation file", logfields.URL(target), logfields.Count(len(data)))
	return data, nil
}
