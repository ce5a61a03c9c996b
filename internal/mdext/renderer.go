package mdext

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/javadocref/internal/format"
)

// InvalidPrefix starts the label of a reference that could not be resolved.
const InvalidPrefix = "Invalid reference to "

type htmlRenderer struct{}

func (r *htmlRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindReference, r.render)
}

func (r *htmlRenderer) render(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*Node)
	if !entering {
		_, _ = w.WriteString("</a>")
		return ast.WalkContinue, nil
	}

	if !n.Resolved {
		WriteInvalid(w, n.Raw)
		return ast.WalkSkipChildren, nil
	}

	_, _ = w.WriteString(`<a href="`)
	_, _ = w.Write(util.EscapeHTML([]byte(n.Destination)))
	_, _ = w.WriteString(`">`)
	if n.Form == FormInText {
		return ast.WalkContinue, nil
	}
	WriteContent(w, n.Content)
	return ast.WalkSkipChildren, nil
}

// WriteInvalid writes the opening anchor and label of a failed reference:
// the href is the raw reference text and the label says it is invalid. The
// caller closes the anchor.
func WriteInvalid(w util.BufWriter, raw string) {
	escaped := util.EscapeHTML([]byte(raw))
	_, _ = w.WriteString(`<a href="`)
	_, _ = w.Write(escaped)
	_, _ = w.WriteString(`">`)
	_, _ = w.WriteString(InvalidPrefix)
	_, _ = w.Write(escaped)
}

// WriteContent writes formatter output as anchor content.
func WriteContent(w util.BufWriter, out format.Output) {
	text := util.EscapeHTML([]byte(out.Text))
	if !out.IsElement() {
		_, _ = w.Write(text)
		return
	}
	_ = w.WriteByte('<')
	_, _ = w.WriteString(out.Tag)
	_ = w.WriteByte('>')
	_, _ = w.Write(text)
	_, _ = w.WriteString("</")
	_, _ = w.WriteString(out.Tag)
	_ = w.WriteByte('>')
}
