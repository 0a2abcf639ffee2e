package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gfabridge/pkg/graph"
)

// loadCommand creates the load command, which ingests a document and prints
// what was found.
func (c *CLI) loadCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "load <file|url>",
		Short: "Ingest a GFA document and print record counts",
		Long: `Ingest a GFA document and print record counts.

Only S (segment), L (link) and P (path) lines become records. Headers,
containments and comments are counted as filtered; lines that fail to
decode are counted as skipped. Gzip and zstd input is detected
automatically.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, stats, err := c.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(stats)
			}

			printSuccess("Loaded %s", stats.Source)
			printStats(stats.Segments, stats.Links, stats.Paths)
			printKeyValue("Run", stats.RunID)
			printKeyValue("Lines", fmt.Sprintf("%d (%d filtered, %d skipped)", stats.Lines, stats.Filtered, stats.Skipped))
			printKeyValue("Bytes", fmt.Sprintf("%d", stats.Bytes))
			printKeyValue("Duration", stats.Duration.String())
			printNewline()
			printNextStep("Browse records", appName+" browse "+args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print stats as JSON")
	return cmd
}

// exportCommand creates the export command, the serialization fallback for
// callers that cannot read memory views.
func (c *CLI) exportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <file|url>",
		Short: "Export a GFA document as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := c.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				return graph.WriteDocument(store, cmd.OutOrStdout())
			}
			if err := graph.WriteDocumentFile(store, output); err != nil {
				return err
			}
			printSuccess("Exported %d records", store.Len())
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
