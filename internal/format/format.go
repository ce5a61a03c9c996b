// Package format produces the link text of resolved references. The default
// formatter uses the display label; a Risor script supplied as
// "autolink-format" can override it per reference variant.
package format

import "context"

// Variant is the closed set of reference kinds a formatter is asked about.
type Variant interface {
	variant()
	// Kind names the variant to scripts.
	Kind() string
}

// ClassRef is a resolved class reference. Package and Name always come from
// the index, whether or not the author wrote the package.
type ClassRef struct {
	Module     string
	Package    string
	Name       string
	Annotation bool
	URL        string
	// Label is the default display text, e.g. "@Retention".
	Label string
}

func (ClassRef) variant() {}

// Kind implements Variant.
func (ClassRef) Kind() string { return "class" }

// Variants returns one sample of every variant. Formatters are checked against
// them to prove they are total.
func Variants() []Variant {
	return []Variant{
		ClassRef{Module: "java.base", Package: "java.lang", Name: "String", Label: "String"},
	}
}

// Output is link content: plain text, or text wrapped in an inline element.
type Output struct {
	Text string
	// Tag is empty for plain text.
	Tag string
}

// PlainText returns text content.
func PlainText(s string) Output { return Output{Text: s} }

// Element returns s wrapped in an inline element.
func Element(tag, s string) Output { return Output{Tag: tag, Text: s} }

// IsElement reports whether the output nests an element in the anchor.
func (o Output) IsElement() bool { return o.Tag != "" }

// inlineTags are the elements a formatter may nest inside an anchor.
var inlineTags = map[string]bool{
	"code": true, "em": true, "strong": true, "span": true,
	"kbd": true, "samp": true, "var": true,
}

// IsInlineTag reports whether tag may be returned by a formatter.
func IsInlineTag(tag string) bool { return inlineTags[tag] }

// Formatter turns a resolved variant into link content. Implementations
// must be pure and safe for concurrent use.
type Formatter interface {
	Format(ctx context.Context, v Variant) (Output, error)
}

// Default renders the display label as plain text.
type Default struct{}

// Format implements Formatter.
func (Default) Format(_ context.Context, v Variant) (Output, error) {
	switch v := v.(type) {
	case ClassRef:
		return PlainText(v.Label), nil
	}
	return Output{}, errUnsupported(v)
}
