package mdext

import (
	"context"

	"github.com/sourcegraph/conc/iter"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// transformer resolves every reference node of a document. Resolutions run
// concurrently; results are written back to the nodes they belong to, so
// output order always follows the source text.
type transformer struct {
	ext *Extension
}

func (t *transformer) Transform(doc *ast.Document, _ text.Reader, pc parser.Context) {
	var nodes []*Node
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if rn, ok := n.(*Node); ok && entering {
			nodes = append(nodes, rn)
		}
		return ast.WalkContinue, nil
	})
	if len(nodes) == 0 {
		return
	}

	session, ok := sessionFrom(pc)
	if !ok {
		session = t.ext.NewSession(context.Background(), "")
		session.Attach(pc)
	}

	mapper := iter.Mapper[*Node, resolution]{MaxGoroutines: t.ext.cfg.Concurrency}
	results := mapper.Map(nodes, func(n **Node) resolution {
		return session.resolveNode(*n)
	})
	for i, res := range results {
		n := nodes[i]
		n.Resolved = res.ok
		n.Destination = res.destination
		n.Content = res.content
	}
}
