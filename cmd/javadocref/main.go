package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/javadocref/cmd/javadocref/commands"
	"git.home.luguber.info/inful/javadocref/internal/foundation/errors"
	"git.home.luguber.info/inful/javadocref/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cli := &commands.CLI{}
	parser, err := kong.New(cli,
		kong.Name("javadocref"),
		kong.Description("Resolve javadoc references in markdown and render HTML."),
		kong.Vars{"version": version.String()},
		kong.UsageOnError(),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	kctx, err := parser.Parse(args)
	if err == nil {
		err = kctx.Run(cli.Global())
	}
	if cerr := cli.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		return 0
	}

	// Hook errors arrive wrapped in a ParseError; classified ones are ours.
	var parseErr *kong.ParseError
	if _, ok := errors.AsClassified(err); !ok && errors.As(err, &parseErr) {
		parser.Errorf("%s", parseErr.Error())
		return parseErr.ExitCode()
	}
	adapter := errors.NewCLIErrorAdapter(cli.Verbose, slog.Default())
	adapter.Log(err)
	fmt.Fprintln(os.Stderr, adapter.FormatError(err))
	return adapter.ExitCodeFor(err)
}
