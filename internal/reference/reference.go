// Package reference parses the short API references authors write in markdown,
// such as "String", "java.lang.annotation.Retention", "jdk8 -> String" or
// "String#join(CharSequence, CharSequence...)".
package reference

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"git.home.luguber.info/inful/javadocref/internal/foundation/errors"
)

// ErrNotReference reports text that does not follow the reference grammar.
// Callers leave such text untouched.
var ErrNotReference = errors.ValidationError("not a reference").Build()

// AliasSeparator splits an explicit source selector from the qualified name.
const AliasSeparator = "->"

// Reference is the structured form of one written reference.
type Reference struct {
	// Raw is the text exactly as written between the delimiters.
	Raw string
	// Alias is the explicit source selector, empty when the reference should
	// be searched in every auto-searched source.
	Alias string
	// Package holds the package path segments when the author wrote them.
	Package []string
	// ClassName is the simple class name, dotted for nested types ("Map.Entry").
	ClassName string
	// Member is the method or field name after '#'.
	Member string
	// Parameters are the parameter types as written, without surrounding spaces.
	Parameters []string
	// ParameterText is the parameter list exactly as written between the parentheses.
	ParameterText string
	// HasParameters distinguishes "m()" (zero-argument overload) from "m" (any member named m).
	HasParameters bool
	// Annotation is set when the name was written with a leading '@'.
	Annotation bool
}

// HasAlias reports whether the reference pins a single source.
func (r Reference) HasAlias() bool { return r.Alias != "" }

// HasPackage reports whether the author qualified the class with a package.
func (r Reference) HasPackage() bool { return len(r.Package) > 0 }

// HasMember reports whether the reference points into a class page.
func (r Reference) HasMember() bool { return r.Member != "" }

// PackageName returns the dotted package path, or "".
func (r Reference) PackageName() string { return strings.Join(r.Package, ".") }

// QualifiedName returns the package-qualified class name as written.
func (r Reference) QualifiedName() string {
	if !r.HasPackage() {
		return r.ClassName
	}
	return r.PackageName() + "." + r.ClassName
}

// Label returns the default display text. The parameter list is kept
// exactly as the author wrote it.
func (r Reference) Label(annotation bool) string {
	var b strings.Builder
	if annotation || r.Annotation {
		b.WriteByte('@')
	}
	b.WriteString(r.ClassName)
	if !r.HasMember() {
		return b.String()
	}
	b.WriteByte('#')
	b.WriteString(r.Member)
	if r.HasParameters {
		b.WriteByte('(')
		b.WriteString(r.ParameterText)
		b.WriteByte(')')
	}
	return b.String()
}

// Parse decomposes raw into a Reference. Text that is not a reference yields
// an error matching ErrNotReference.
func Parse(raw string) (Reference, error) {
	ref := Reference{Raw: raw}
	rest := strings.TrimSpace(raw)

	if lhs, rhs, ok := strings.Cut(rest, AliasSeparator); ok {
		ref.Alias = strings.TrimSpace(lhs)
		rest = strings.TrimSpace(rhs)
		if ref.Alias == "" || strings.ContainsAny(ref.Alias, " \t") {
			return Reference{}, notReference(raw, "invalid source selector")
		}
	}

	name, member, hasMember := strings.Cut(rest, "#")
	if strings.ContainsAny(name, " \t\n") {
		return Reference{}, notReference(raw, "whitespace in name")
	}
	if strings.HasPrefix(name, "@") {
		ref.Annotation = true
		name = name[1:]
	}
	if err := ref.parseName(name); err != nil {
		return Reference{}, notReference(raw, err.Error())
	}
	if hasMember {
		if err := ref.parseMember(member); err != nil {
			return Reference{}, notReference(raw, err.Error())
		}
	}
	return ref, nil
}

// parseName splits a dotted name into package and class. Leading lowercase
// segments form the package; the class starts at the first uppercase segment
// and every segment after it must be uppercase too.
func (r *Reference) parseName(name string) error {
	if name == "" {
		return errString("empty name")
	}
	segments := strings.Split(name, ".")
	classAt := -1
	for i, seg := range segments {
		if !IsIdentifier(seg) {
			return errString("invalid identifier " + `"` + seg + `"`)
		}
		upper := startsUpper(seg)
		switch {
		case classAt < 0 && upper:
			classAt = i
		case classAt >= 0 && !upper:
			return errString("ambiguous name: lowercase segment after class")
		}
	}
	if classAt < 0 {
		return errString("no class segment")
	}
	if classAt > 0 {
		r.Package = segments[:classAt]
	}
	r.ClassName = strings.Join(segments[classAt:], ".")
	return nil
}

func (r *Reference) parseMember(member string) error {
	name, params, hasParams := strings.Cut(member, "(")
	name = strings.TrimSpace(name)
	if !IsIdentifier(name) {
		return errString("invalid member name")
	}
	r.Member = name
	if !hasParams {
		if strings.ContainsAny(member, " \t)") {
			return errString("invalid member")
		}
		return nil
	}
	if !strings.HasSuffix(params, ")") {
		return errString("unterminated parameter list")
	}
	text := strings.TrimSuffix(params, ")")
	list, err := splitParameters(text)
	if err != nil {
		return err
	}
	r.ParameterText = text
	r.HasParameters = true
	r.Parameters = list
	return nil
}

// splitParameters splits on top-level commas so generic arguments stay intact.
func splitParameters(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return []string{}, nil
	}
	var out []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth < 0 {
				return nil, errString("unbalanced generic arguments")
			}
		case '(', ')':
			return nil, errString("unexpected parenthesis in parameter list")
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, errString("unbalanced generic arguments")
	}
	out = append(out, strings.TrimSpace(s[start:]))
	for _, p := range out {
		if !isTypeName(p) {
			return nil, errString("invalid parameter type " + `"` + p + `"`)
		}
	}
	return out, nil
}

// IsIdentifier reports whether s is a Java identifier.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || r == '$' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

func isTypeName(p string) bool {
	if p == "" {
		return false
	}
	for _, r := range p {
		switch {
		case r == '.' || r == '[' || r == ']' || r == '<' || r == '>' || r == '?' || r == ',' || r == ' ':
		case r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

type errString string

func (e errString) Error() string { return string(e) }

func notReference(raw, reason string) error {
	return errors.ValidationError("not a reference").
		WithContext("reference", raw).
		WithContext("reason", reason).
		Build()
}
