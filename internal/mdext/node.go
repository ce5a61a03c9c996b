package mdext

import (
	"strconv"

	"github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/javadocref/internal/format"
	"git.home.luguber.info/inful/javadocref/internal/reference"
)

// KindReference is the AST kind of a javadoc reference.
var KindReference = ast.NewNodeKind("JavadocReference")

// Form records which syntax produced a reference.
type Form int

const (
	// FormAutolink is "<ref>".
	FormAutolink Form = iota
	// FormInText is "[label][[ref]]"; the label is kept as child nodes.
	FormInText
)

func (f Form) String() string {
	if f == FormInText {
		return "in-text"
	}
	return "autolink"
}

// Node is an inline reference. The parser fills Raw and Ref; the resolving
// transformer fills the rest before rendering.
type Node struct {
	ast.BaseInline

	Form Form
	// Raw is the reference text exactly as written.
	Raw string
	Ref reference.Reference

	// Resolved is false until resolution succeeded.
	Resolved    bool
	Destination string
	// Content is the link text of resolved autolinks.
	Content format.Output
}

// NewNode returns an unresolved reference node.
func NewNode(form Form, raw string, ref reference.Reference) *Node {
	return &Node{Form: form, Raw: raw, Ref: ref}
}

// Kind implements ast.Node.
func (n *Node) Kind() ast.NodeKind { return KindReference }

// Dump implements ast.Node.
func (n *Node) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Form":        n.Form.String(),
		"Raw":         n.Raw,
		"Resolved":    strconv.FormatBool(n.Resolved),
		"Destination": n.Destination,
	}, nil)
}
