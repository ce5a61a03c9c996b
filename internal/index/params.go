package index

import "strings"

// cutSignature splits an anchor into member name and parameter types. Both the
// parenthesized form "m(a.B,c.D...)" and the dashed form "m-a.B-c.D...-" of
// older javadoc are understood; array markers ":A" become "[]".
func cutSignature(sig string) (string, []string, bool) {
	if open := strings.IndexByte(sig, '('); open >= 0 {
		inner := strings.TrimSuffix(sig[open+1:], ")")
		return sig[:open], splitTopLevel(inner, ','), true
	}
	if dash := strings.IndexByte(sig, '-'); dash >= 0 {
		inner := strings.TrimSuffix(sig[dash+1:], "-")
		params := splitTopLevel(inner, '-')
		for i, p := range params {
			params[i] = strings.ReplaceAll(p, ":A", "[]")
		}
		return sig[:dash], params, true
	}
	return sig, nil, false
}

func splitTopLevel(s string, sep byte) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	var out []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case sep:
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(out, strings.TrimSpace(s[start:]))
}

// ParameterMatches reports whether a type written by an author matches a type
// recorded in a signature. Generic arguments are ignored; an unqualified
// written type matches by simple name and a qualified one by dotted suffix.
func ParameterMatches(written, recorded string) bool {
	w := normalizeType(written)
	r := normalizeType(recorded)
	if w == r {
		return true
	}
	return strings.HasSuffix(r, "."+w)
}

// ParametersMatch compares a written parameter list with a recorded one.
func ParametersMatch(written, recorded []string) bool {
	if len(written) != len(recorded) {
		return false
	}
	for i := range written {
		if !ParameterMatches(written[i], recorded[i]) {
			return false
		}
	}
	return true
}

// SimpleTypeName strips the package from a type: "java.lang.String[]" -> "String[]".
func SimpleTypeName(t string) string {
	t = normalizeType(t)
	base, suffix := splitArraySuffix(t)
	if dot := strings.LastIndexByte(base, '.'); dot >= 0 {
		base = base[dot+1:]
	}
	return base + suffix
}

func normalizeType(t string) string {
	t = stripGenerics(strings.TrimSpace(t))
	return strings.ReplaceAll(t, " ", "")
}

func stripGenerics(t string) string {
	if !strings.ContainsRune(t, '<') {
		return t
	}
	var b strings.Builder
	depth := 0
	for _, r := range t {
		switch {
		case r == '<':
			depth++
		case r == '>':
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func splitArraySuffix(t string) (string, string) {
	i := len(t)
	for i > 0 && (t[i-1] == '[' || t[i-1] == ']' || t[i-1] == '.') {
		i--
	}
	return t[:i], t[i:]
}
