package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// SourcesCmd implements the 'sources' command.
type SourcesCmd struct{}

func (s *SourcesCmd) Run(g *Global) error {
	engine, err := g.NewEngine(context.Background())
	if err != nil {
		return err
	}

	sources := engine.Sources()
	if len(sources) == 0 {
		_, err := fmt.Fprintln(g.Stdout, "No sources configured.")
		return err
	}

	table := tablewriter.NewTable(g.Stdout, tablewriter.WithHeaderAutoFormat(tw.Off))
	table.Header("Alias", "Type", "Location", "Auto-searched")
	rows := make([][]string, 0, len(sources))
	for _, src := range sources {
		rows = append(rows, []string{src.Alias, string(src.Kind), src.BaseURL(), strconv.FormatBool(src.AutoSearched)})
	}
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("error formatting sources: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("error rendering sources: %w", err)
	}
	return nil
}
