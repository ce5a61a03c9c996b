package source

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/javadocref/internal/foundation/normalization"
)

var kindNormalizer = normalization.NewNormalizer(map[string]Kind{
	"new":     KindNew,
	"modular": KindNew,
	"old":     KindOld,
	"legacy":  KindOld,
}, KindNew)

var boolNormalizer = normalization.NewNormalizer(map[string]bool{
	"true":  true,
	"yes":   true,
	"on":    true,
	"1":     true,
	"false": false,
	"no":    false,
	"off":   false,
	"0":     false,
}, true)

// Result is the outcome of normalizing a list of entries.
type Result struct {
	Sources []Source
	// Warnings describe dropped entries and coerced fields, in entry order.
	Warnings []string
	// Dropped counts entries that produced no source.
	Dropped int
}

// Normalize turns configured entries into sources, preserving declared order.
// Entries without a usable URL or path are dropped with a warning.
func Normalize(entries []Entry) Result {
	var res Result
	for i, e := range entries {
		src, warns, ok := normalizeEntry(e)
		for _, w := range warns {
			res.Warnings = append(res.Warnings, fmt.Sprintf("sources[%d]: %s", i, w))
		}
		if !ok {
			res.Dropped++
			continue
		}
		res.Sources = append(res.Sources, src)
	}
	return res
}

func normalizeEntry(e Entry) (Source, []string, bool) {
	var warns []string
	location := strings.TrimSpace(e.URL)
	if location == "" {
		return Source{}, []string{"no url or path configured, source dropped"}, false
	}

	src := Source{Kind: KindNew, AutoSearched: true}

	if raw := strings.TrimSpace(e.AutoSearched); raw != "" {
		v, ok := boolNormalizer.Lookup(raw)
		if !ok {
			warns = append(warns, fmt.Sprintf("unknown auto_searched %q, defaulting to true", raw))
		}
		src.AutoSearched = v || !ok
	}

	if raw := strings.TrimSpace(e.Type); raw != "" {
		k, ok := kindNormalizer.Lookup(raw)
		if !ok {
			warns = append(warns, fmt.Sprintf("unknown type %q, defaulting to %s", raw, KindNew))
			k = kindNormalizer.Default()
		}
		src.Kind = k
	}

	if root, ok := localRoot(location); ok {
		abs, err := filepath.Abs(root)
		if err != nil {
			return Source{}, append(warns, fmt.Sprintf("unusable path %q: %v, source dropped", location, err)), false
		}
		if e.Type != "" {
			warns = append(warns, fmt.Sprintf("type %q ignored for local path %q", e.Type, location))
		}
		src.Kind = KindLocal
		src.Location = filepath.Clean(abs)
		src.Alias = defaultLocalAlias(src.Location)
	} else {
		u, err := url.Parse(location)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return Source{}, append(warns, fmt.Sprintf("unusable url %q, source dropped", location)), false
		}
		u.RawQuery, u.Fragment = "", ""
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		src.Location = u.String()
		src.Alias = defaultURLAlias(u)
	}

	if alias := strings.TrimSpace(e.Alias); alias != "" {
		if strings.ContainsAny(alias, " \t") || strings.Contains(alias, "->") {
			warns = append(warns, fmt.Sprintf("alias %q contains whitespace or '->', using %q", alias, src.Alias))
		} else {
			src.Alias = alias
		}
	}
	return src, warns, true
}

// localRoot reports whether location names a filesystem path rather than a URL.
func localRoot(location string) (string, bool) {
	if strings.HasPrefix(location, "file://") {
		u, err := url.Parse(location)
		if err != nil {
			return "", false
		}
		return filepath.FromSlash(u.Path), true
	}
	scheme, _, found := strings.Cut(location, "://")
	if !found || scheme == "" || strings.ContainsAny(scheme, `/\`) {
		return location, true
	}
	return "", false
}

func defaultURLAlias(u *url.URL) string {
	return u.Host + strings.TrimSuffix(u.Path, "/")
}

func defaultLocalAlias(root string) string {
	return filepath.Base(root)
}
