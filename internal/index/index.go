// Package index models the per-source lookup table of documented classes and
// members, and loads it from javadoc sites or local javadoc trees.
package index

import (
	"sort"
	"strings"
)

// Kind is the declared kind of a documented type.
type Kind string

const (
	KindClass      Kind = "class"
	KindInterface  Kind = "interface"
	KindEnum       Kind = "enum"
	KindRecord     Kind = "record"
	KindAnnotation Kind = "annotation"
	KindException  Kind = "exception"
	KindError      Kind = "error"
	KindUnknown    Kind = ""
)

// Class is one documented type.
type Class struct {
	// Module is empty for non-modular documentation.
	Module  string
	Package string
	// Name is dotted for nested types, e.g. "Map.Entry".
	Name string
	Kind Kind
}

// QualifiedName returns "package.Name".
func (c Class) QualifiedName() string {
	if c.Package == "" {
		return c.Name
	}
	return c.Package + "." + c.Name
}

// Path returns the page path relative to the documentation root, with the
// module segment when withModule is set and the class has a module.
func (c Class) Path(withModule bool) string {
	var b strings.Builder
	if withModule && c.Module != "" {
		b.WriteString(c.Module)
		b.WriteByte('/')
	}
	if c.Package != "" {
		b.WriteString(strings.ReplaceAll(c.Package, ".", "/"))
		b.WriteByte('/')
	}
	b.WriteString(c.Name)
	b.WriteString(".html")
	return b.String()
}

// IsAnnotation reports whether the class is an annotation type.
func (c Class) IsAnnotation() bool { return c.Kind == KindAnnotation }

// Member is one documented field, constructor or method of a class.
type Member struct {
	Module  string
	Package string
	Class   string
	// Label is the simple-name form: "join(CharSequence, CharSequence...)".
	Label string
	// Signature is the in-page anchor: "join(java.lang.CharSequence,java.lang.CharSequence...)".
	Signature string
}

// Name returns the member name without parameters.
func (m Member) Name() string {
	name, _, _ := cutSignature(m.Signature)
	return name
}

// IsCallable reports whether the member takes a parameter list.
func (m Member) IsCallable() bool {
	_, _, ok := cutSignature(m.Signature)
	return ok
}

// ParameterTypes returns the parameter types recorded in Signature.
func (m Member) ParameterTypes() []string {
	_, params, _ := cutSignature(m.Signature)
	return params
}

type classKey struct {
	pkg  string
	name string
}

// Index is an immutable lookup table for one source.
type Index struct {
	classes     []Class
	byName      map[string][]int
	byQualified map[classKey]int
	members     map[classKey][]Member
	hasMembers  bool
}

// New builds an index. Classes are ordered by qualified name so that name
// searches pick the same class on every run. members may be nil when the
// source has no member index; MembersKnown then reports false.
func New(classes []Class, members []Member) *Index {
	sorted := append([]Class(nil), classes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].QualifiedName() < sorted[j].QualifiedName()
	})

	ix := &Index{
		classes:     sorted[:0],
		byName:      make(map[string][]int),
		byQualified: make(map[classKey]int, len(sorted)),
		members:     make(map[classKey][]Member),
		hasMembers:  members != nil,
	}
	for _, c := range sorted {
		key := classKey{pkg: c.Package, name: c.Name}
		if _, dup := ix.byQualified[key]; dup {
			continue
		}
		ix.byQualified[key] = len(ix.classes)
		ix.byName[c.Name] = append(ix.byName[c.Name], len(ix.classes))
		ix.classes = append(ix.classes, c)
	}
	for _, m := range members {
		key := classKey{pkg: m.Package, name: m.Class}
		ix.members[key] = append(ix.members[key], m)
	}
	return ix
}

// Len returns the number of classes.
func (ix *Index) Len() int { return len(ix.classes) }

// Classes returns all classes in index order.
func (ix *Index) Classes() []Class {
	return append([]Class(nil), ix.classes...)
}

// Lookup finds a class by package and name.
func (ix *Index) Lookup(pkg, name string) (Class, bool) {
	i, ok := ix.byQualified[classKey{pkg: pkg, name: name}]
	if !ok {
		return Class{}, false
	}
	return ix.classes[i], true
}

// Search returns the first class, in index order, whose name equals name.
func (ix *Index) Search(name string) (Class, bool) {
	hits := ix.byName[name]
	if len(hits) == 0 {
		return Class{}, false
	}
	return ix.classes[hits[0]], true
}

// MembersKnown reports whether the index was built with member data.
func (ix *Index) MembersKnown() bool { return ix.hasMembers }

// Members returns the members recorded for c, in index order.
func (ix *Index) Members(c Class) []Member {
	return ix.members[classKey{pkg: c.Package, name: c.Name}]
}

// ConstructorName is the member name the search index records for constructors.
const ConstructorName = "<init>"
