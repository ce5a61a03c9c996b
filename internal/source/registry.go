package source

import (
	"strings"

	"golang.org/x/text/cases"
)

// Registry is an ordered, read-only set of sources for one rendering configuration.
type Registry struct {
	sources []Source
	byAlias map[string]int
	byURL   map[string]int
}

// NewRegistry indexes sources by alias and location. When two sources share an
// alias the first declared one wins the alias.
func NewRegistry(sources []Source) *Registry {
	r := &Registry{
		sources: append([]Source(nil), sources...),
		byAlias: make(map[string]int, len(sources)),
		byURL:   make(map[string]int, len(sources)),
	}
	for i, s := range r.sources {
		if _, taken := r.byAlias[foldAlias(s.Alias)]; !taken {
			r.byAlias[foldAlias(s.Alias)] = i
		}
		if _, taken := r.byURL[canonicalLocation(s.Location)]; !taken {
			r.byURL[canonicalLocation(s.Location)] = i
		}
	}
	return r
}

// Sources returns all sources in declared order.
func (r *Registry) Sources() []Source {
	return append([]Source(nil), r.sources...)
}

// Len returns the number of sources.
func (r *Registry) Len() int { return len(r.sources) }

// Lookup finds the source selected by an alias or by its full URL or path.
// Alias matching ignores case.
func (r *Registry) Lookup(selector string) (Source, bool) {
	selector = strings.TrimSpace(selector)
	if i, ok := r.byAlias[foldAlias(selector)]; ok {
		return r.sources[i], true
	}
	if i, ok := r.byURL[canonicalLocation(selector)]; ok {
		return r.sources[i], true
	}
	return Source{}, false
}

// AutoSearched returns the sources eligible for unaliased references, in declared order.
func (r *Registry) AutoSearched() []Source {
	var out []Source
	for _, s := range r.sources {
		if s.AutoSearched {
			out = append(out, s)
		}
	}
	return out
}

// DuplicateAliases lists aliases declared by more than one source.
func (r *Registry) DuplicateAliases() []string {
	seen := make(map[string]int, len(r.sources))
	var dups []string
	for _, s := range r.sources {
		key := foldAlias(s.Alias)
		seen[key]++
		if seen[key] == 2 {
			dups = append(dups, s.Alias)
		}
	}
	return dups
}

func foldAlias(alias string) string {
	return cases.Fold().String(alias)
}

func canonicalLocation(loc string) string {
	loc = strings.TrimPrefix(loc, "file://")
	return strings.TrimSuffix(toSlash(loc), "/")
}
