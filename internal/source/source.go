// Package source normalizes configured documentation origins into Source records.
package source

import (
	"strings"
)

// Kind is the directory convention a source follows.
type Kind string

const (
	// KindNew is the modular javadoc layout (JDK 9+): "<module>/<package path>/<Class>.html".
	KindNew Kind = "new"
	// KindOld is the pre-module layout (JDK 8 and older): "<package path>/<Class>.html".
	KindOld Kind = "old"
	// KindLocal is a javadoc tree on the local filesystem; links use file:// URIs.
	KindLocal Kind = "local"
)

// Source is one normalized documentation origin. Sources are immutable once
// built by Normalize.
type Source struct {
	// Alias selects this source explicitly in "alias -> Name" references.
	Alias string
	// Location is the base URL (always ending in '/') or the absolute root directory.
	Location string
	Kind     Kind
	// AutoSearched makes the source eligible for references without an alias.
	AutoSearched bool
}

// IsLocal reports whether the source reads from the local filesystem.
func (s Source) IsLocal() bool { return s.Kind == KindLocal }

// IncludesModule reports whether class paths carry a module segment when the
// index knows one.
func (s Source) IncludesModule() bool { return s.Kind != KindOld }

// BaseURL returns the prefix resolved links start with.
func (s Source) BaseURL() string {
	if !s.IsLocal() {
		return s.Location
	}
	root := strings.TrimSuffix(toSlash(s.Location), "/")
	if !strings.HasPrefix(root, "/") {
		// Windows drive letters: file:///C:/docs
		root = "/" + root
	}
	return "file://" + root + "/"
}

// Join appends a slash-separated relative path to the base URL.
func (s Source) Join(rel string) string {
	return s.BaseURL() + strings.TrimPrefix(rel, "/")
}

// String implements fmt.Stringer for log output.
func (s Source) String() string {
	return s.Alias + " (" + string(s.Kind) + " " + s.Location + ")"
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
