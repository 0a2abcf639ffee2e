package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gfabridge/pkg/errors"
	"github.com/matzehuels/gfabridge/pkg/render/dot"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string // output file path, "-" for stdout
	format      string // dot or svg
	paths       bool   // draw paths as coloured edge chains
	sequences   bool   // add sequence prefixes to segment labels
	maxSequence int    // bases shown per segment
	leftToRight bool   // horizontal layout
}

// renderCommand creates the render command for node-link diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: formatSVG, maxSequence: 24}

	cmd := &cobra.Command{
		Use:   "render <file|url>",
		Short: "Render segments and links as a Graphviz diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch opts.format {
			case formatDOT, formatSVG:
			default:
				return errors.New(errors.ErrCodeInvalidInput, "unsupported format %q (want dot or svg)", opts.format)
			}

			store, _, err := c.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			src := dot.ToDOT(store, dot.Options{
				Paths:       opts.paths,
				Sequences:   opts.sequences,
				MaxSequence: opts.maxSequence,
				LeftToRight: opts.leftToRight,
			})
			data := []byte(src)
			if opts.format == formatSVG {
				prog := newProgress(c.Logger)
				if data, err = dot.RenderSVG(cmd.Context(), src); err != nil {
					return fmt.Errorf("render svg: %w", err)
				}
				prog.done("Rendered SVG")
			}

			if opts.output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			out := opts.output
			if out == "" {
				out = renderPath(args[0], opts.format)
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			printSuccess("Rendered %d segments, %d links", store.SegmentCount(), store.LinkCount())
			printFile(out)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file, - for stdout (default <input>.<format>)")
	f.StringVarP(&opts.format, "format", "f", opts.format, "output format: dot or svg")
	f.BoolVar(&opts.paths, "paths", false, "draw paths as coloured edge chains")
	f.BoolVar(&opts.sequences, "sequences", false, "show sequence prefixes in segment labels")
	f.IntVar(&opts.maxSequence, "max-sequence", opts.maxSequence, "bases shown per segment with --sequences")
	f.BoolVar(&opts.leftToRight, "lr", false, "lay the graph out left to right")
	return cmd
}

// renderPath derives the default output path from the input source.
func renderPath(src, format string) string {
	base := strings.TrimSuffix(documentName(src), ".gfa")
	if strings.Contains(base, "/") || base == "" {
		base = "graph"
	}
	return base + "." + format
}
