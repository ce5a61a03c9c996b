package mdext

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/javadocref/internal/reference"
)

// Priorities relative to goldmark's defaults: the link parser runs at 200,
// autolinks at 300 and raw HTML at 400. Code spans (100) are consumed
// before either of ours sees a delimiter.
const (
	inTextPriority   = 199
	autolinkPriority = 250
)

type autolinkParser struct{}

func (autolinkParser) Trigger() []byte { return []byte{'<'} }

// Parse recognizes "<ref>". Anything that is not a reference, and upper case
// HTML tags such as "<B>", is left for goldmark's autolink and raw HTML parsers.
func (autolinkParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()
	al, ok := reference.ScanAutolink(line)
	if !ok {
		return nil
	}
	ref, err := reference.Parse(al.Raw)
	if err != nil || ref.IsHTMLTag() {
		return nil
	}
	block.Advance(al.Length)
	return NewNode(FormAutolink, al.Raw, ref)
}

type inTextParser struct{}

func (inTextParser) Trigger() []byte { return []byte{'['} }

// Parse recognizes "[label][[ref]]". The label becomes child nodes so that
// code spans inside it render as <code>.
func (inTextParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, seg := block.PeekLine()
	m, ok := reference.ScanInText(line)
	if !ok {
		return nil
	}
	raw := m.Raw(line)
	ref, err := reference.Parse(raw)
	if err != nil {
		return nil
	}

	node := NewNode(FormInText, raw, ref)
	base := seg.Start + m.LabelStart
	for _, span := range reference.SplitLabel(m.Label(line)) {
		s := text.NewSegment(base+span.Start, base+span.Stop)
		if !span.Code {
			node.AppendChild(node, ast.NewTextSegment(s))
			continue
		}
		code := ast.NewCodeSpan()
		code.AppendChild(code, ast.NewRawTextSegment(s))
		node.AppendChild(node, code)
	}
	block.Advance(m.Length)
	return node
}
