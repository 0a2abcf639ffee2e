package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gfabridge/pkg/errors"
	"github.com/matzehuels/gfabridge/pkg/graph"
	"github.com/matzehuels/gfabridge/pkg/view"
)

// layoutCommand creates the layout command, which prints the in-memory shape
// of each record kind as seen by a foreign reader.
func (c *CLI) layoutCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "layout [segment|link|path|step]",
		Short: "Print record sizes and field offsets",
		Long: `Print record sizes and field offsets.

A collection view exposes records at base + i*size. Each string field is a
header of a data pointer followed by a length; read len bytes at the
pointer to get the value.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"segment", "link", "path", "step"},
		RunE: func(cmd *cobra.Command, args []string) error {
			layouts, err := selectLayouts(args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(layouts)
			}
			for _, l := range layouts {
				renderLayout(out, l)
			}
			fmt.Fprintln(out, StyleDim.Render(fmt.Sprintf("string header: %d bytes", view.StringHeaderSize())))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print layouts as JSON")
	return cmd
}

func selectLayouts(args []string) ([]view.Layout, error) {
	if len(args) == 1 && args[0] == "step" {
		return []view.Layout{view.DescribeStep()}, nil
	}

	kinds := graph.Kinds
	if len(args) == 1 {
		k, ok := graph.ParseKind(args[0])
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidKind, "unknown record kind %q", args[0])
		}
		kinds = []graph.Kind{k}
	}

	layouts := make([]view.Layout, 0, len(kinds)+1)
	for _, k := range kinds {
		l, err := view.Describe(k)
		if err != nil {
			return nil, err
		}
		layouts = append(layouts, l)
	}
	if len(args) == 0 {
		layouts = append(layouts, view.DescribeStep())
	}
	return layouts, nil
}

func renderLayout(w io.Writer, l view.Layout) {
	rows := make([][]string, len(l.Fields))
	for i, f := range l.Fields {
		rows[i] = []string{f.Name, strconv.FormatUint(uint64(f.Offset), 10), strconv.FormatUint(uint64(f.Size), 10), f.Type}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Field", "Offset", "Size", "Type").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 1 || col == 2 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle()
		})

	fmt.Fprintf(w, "%s %s\n", StyleTitle.Render(l.Name), StyleDim.Render(fmt.Sprintf("size %d, align %d", l.Size, l.Align)))
	fmt.Fprintln(w, t.Render())
}
