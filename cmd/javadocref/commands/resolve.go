package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/javadocref"
	"git.home.luguber.info/inful/javadocref/internal/foundation/errors"
)

// ResolveCmd implements the 'resolve' command.
type ResolveCmd struct {
	Ref string `arg:"" help:"Reference as written between < and >, e.g. 'jdk8 -> String#join(CharSequence, CharSequence...)'"`
}

// Run prints "label<TAB>url". Unresolved references print the invalid marker
// and fail with exit code 1.
func (r *ResolveCmd) Run(g *Global) error {
	ctx := context.Background()
	engine, err := g.NewEngine(ctx)
	if err != nil {
		return err
	}

	res, err := engine.Resolve(ctx, r.Ref)
	if err != nil {
		_, _ = fmt.Fprintln(g.Stdout, javadocref.InvalidText(r.Ref))
		return errors.WrapError(err, errors.CategoryNotFound, "reference not resolved").
			WithContext("reference", r.Ref).
			Build()
	}
	_, err = fmt.Fprintf(g.Stdout, "%s\t%s\n", res.Label, res.URL)
	return err
}
