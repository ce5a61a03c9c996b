package reference

import "bytes"

// Autolink describes a "<ref>" span at the start of a line segment.
type Autolink struct {
	// Raw is the text between the angle brackets.
	Raw string
	// Length is the number of bytes consumed including both brackets.
	Length int
}

// ScanAutolink recognizes "<" ref ">" at the start of line. It only checks the
// delimiters; the content still has to pass Parse. The "->" selector arrow and
// generic brackets inside a parameter list do not close the span.
func ScanAutolink(line []byte) (Autolink, bool) {
	if len(line) < 3 || line[0] != '<' {
		return Autolink{}, false
	}
	depth, params := 0, false
	for i := 1; i < len(line); i++ {
		switch line[i] {
		case '\n':
			return Autolink{}, false
		case '(':
			params = true
		case ')':
			params = false
		case '<':
			if !params {
				return Autolink{}, false
			}
			depth++
		case '>':
			switch {
			case depth > 0:
				depth--
			case line[i-1] == '-' && !params:
			case i == 1:
				return Autolink{}, false
			default:
				return Autolink{Raw: string(line[1:i]), Length: i + 1}, true
			}
		}
	}
	return Autolink{}, false
}

// InText describes a "[label][[ref]]" span at the start of a line segment.
// Offsets are relative to the start of the span.
type InText struct {
	LabelStart, LabelEnd int
	RefStart, RefEnd     int
	// Length is the number of bytes consumed by the whole construct.
	Length int
}

// Label returns the label bytes of m within line.
func (m InText) Label(line []byte) []byte { return line[m.LabelStart:m.LabelEnd] }

// Raw returns the reference text of m within line.
func (m InText) Raw(line []byte) string { return string(line[m.RefStart:m.RefEnd]) }

// ScanInText recognizes "[" label "][[" ref "]]" at the start of line. Brackets
// inside backtick code spans and backslash-escaped brackets do not count.
func ScanInText(line []byte) (InText, bool) {
	if len(line) < 7 || line[0] != '[' {
		return InText{}, false
	}
	labelEnd := scanLabelEnd(line)
	if labelEnd < 0 || !bytes.HasPrefix(line[labelEnd:], []byte("][[")) {
		return InText{}, false
	}
	refStart := labelEnd + 3
	rel := bytes.Index(line[refStart:], []byte("]]"))
	if rel <= 0 {
		return InText{}, false
	}
	refEnd := refStart + rel
	if bytes.ContainsAny(line[refStart:refEnd], "[\n") {
		return InText{}, false
	}
	return InText{
		LabelStart: 1,
		LabelEnd:   labelEnd,
		RefStart:   refStart,
		RefEnd:     refEnd,
		Length:     refEnd + 2,
	}, true
}

// scanLabelEnd returns the index of the ']' closing the label opened at line[0].
func scanLabelEnd(line []byte) int {
	depth := 0
	for i := 1; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '`':
			run := backtickRun(line[i:])
			closeAt := bytes.Index(line[i+run:], bytes.Repeat([]byte{'`'}, run))
			if closeAt < 0 {
				i += run - 1
				continue
			}
			i += run + closeAt + run - 1
		case '\n':
			return -1
		case '[':
			depth++
		case ']':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

func backtickRun(b []byte) int {
	n := 0
	for n < len(b) && b[n] == '`' {
		n++
	}
	return n
}

// LabelSpan is one piece of an in-text label: plain text or a code span.
type LabelSpan struct {
	Start, Stop int
	Code        bool
}

// SplitLabel splits label into text and code-span pieces. Offsets are relative
// to label; code spans exclude their backticks and one surrounding space pair.
func SplitLabel(label []byte) []LabelSpan {
	var spans []LabelSpan
	textStart := 0
	for i := 0; i < len(label); {
		if label[i] == '\\' {
			i += 2
			continue
		}
		if label[i] != '`' {
			i++
			continue
		}
		run := backtickRun(label[i:])
		closeAt := bytes.Index(label[i+run:], bytes.Repeat([]byte{'`'}, run))
		if closeAt < 0 {
			i += run
			continue
		}
		if i > textStart {
			spans = append(spans, LabelSpan{Start: textStart, Stop: i})
		}
		start, stop := i+run, i+run+closeAt
		if stop-start >= 2 && label[start] == ' ' && label[stop-1] == ' ' {
			start++
			stop--
		}
		spans = append(spans, LabelSpan{Start: start, Stop: stop, Code: true})
		i = i + run + closeAt + run
		textStart = i
	}
	if textStart < len(label) {
		spans = append(spans, LabelSpan{Start: textStart, Stop: len(label)})
	}
	return spans
}

// htmlElements are the element names an author is likely to write in upper
// case, as older HTML and javadoc comments often do.
var htmlElements = map[string]struct{}{
	"A": {}, "ABBR": {}, "B": {}, "BIG": {}, "BLOCKQUOTE": {}, "BODY": {}, "BR": {},
	"CAPTION": {}, "CENTER": {}, "CITE": {}, "CODE": {}, "DD": {}, "DEL": {}, "DFN": {},
	"DIV": {}, "DL": {}, "DT": {}, "EM": {}, "FONT": {}, "H1": {}, "H2": {}, "H3": {},
	"H4": {}, "H5": {}, "H6": {}, "HEAD": {}, "HR": {}, "HTML": {}, "I": {}, "IMG": {},
	"INS": {}, "KBD": {}, "LI": {}, "OL": {}, "P": {}, "PRE": {}, "Q": {}, "S": {},
	"SAMP": {}, "SMALL": {}, "SPAN": {}, "STRIKE": {}, "STRONG": {}, "SUB": {}, "SUP": {},
	"TABLE": {}, "TBODY": {}, "TD": {}, "TH": {}, "THEAD": {}, "TR": {}, "TT": {}, "U": {},
	"UL": {}, "VAR": {},
}

// IsHTMLTag reports whether r is a bare upper case HTML element name such as
// "B" or "TABLE". Those are left to the raw HTML parser.
func (r Reference) IsHTMLTag() bool {
	if r.HasAlias() || len(r.Package) > 0 || r.Member != "" || r.Annotation {
		return false
	}
	_, ok := htmlElements[r.ClassName]
	return ok
}
