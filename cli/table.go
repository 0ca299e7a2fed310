package cli

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"go.hackfix.me/seqmig/migration"
)

// renderMigrations writes the candidate migrations as a two column table of
// revision and filename, in the order given.
func renderMigrations(files []migration.File, w io.Writer) error {
	cols := []tw.Align{tw.AlignRight, tw.AlignLeft}
	table := tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Borders: tw.BorderNone,
			Symbols: tw.NewSymbols(tw.StyleASCII),
			Settings: tw.Settings{
				Lines: tw.Lines{ShowHeaderLine: tw.On},
				Separators: tw.Separators{
					ShowHeader:     tw.Off,
					BetweenRows:    tw.Off,
					BetweenColumns: tw.Off,
				},
			},
		})),
		tablewriter.WithHeader([]string{"Revision", "File"}),
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithHeaderAlignmentConfig(tw.CellAlignment{PerColumn: cols}),
		tablewriter.WithRowAlignmentConfig(tw.CellAlignment{PerColumn: cols}),
		// Filenames are never wrapped, so they can be copied from the output.
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)

	for _, f := range files {
		if err := table.Append([]string{strconv.Itoa(f.Revision), f.Name}); err != nil {
			return err //nolint:wrapcheck // This is wrapped by the caller.
		}
	}

	return table.Render() //nolint:wrapcheck // This is wrapped by the caller.
}
