package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gfabridge/pkg/sink"
	"github.com/matzehuels/gfabridge/pkg/sink/mongo"
	"github.com/matzehuels/gfabridge/pkg/sink/sqlite"
)

// sinkCommand creates the sink command group, which stores ingested
// documents in a database.
func (c *CLI) sinkCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sink",
		Short: "Store ingested documents in a database",
	}

	cmd.AddCommand(c.sinkSQLiteCommand())
	cmd.AddCommand(c.sinkMongoCommand())

	return cmd
}

func (c *CLI) sinkSQLiteCommand() *cobra.Command {
	var db, name string

	cmd := &cobra.Command{
		Use:   "sqlite <file|url>",
		Short: "Write a document to a SQLite database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := sqlite.Open(cmd.Context(), db)
			if err != nil {
				return err
			}
			return c.writeSink(cmd, s, args[0], name, db)
		},
	}

	cmd.Flags().StringVar(&db, "db", appName+".db", "database file")
	cmd.Flags().StringVar(&name, "name", "", "document name (default input base name)")
	return cmd
}

func (c *CLI) sinkMongoCommand() *cobra.Command {
	var opts mongo.Options
	var name string

	cmd := &cobra.Command{
		Use:   "mongo <file|url>",
		Short: "Write a document to a MongoDB collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := mongo.Open(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return c.writeSink(cmd, s, args[0], name, opts.Database+"."+opts.Collection)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.URI, "uri", "mongodb://localhost:27017", "MongoDB connection URI")
	f.StringVar(&opts.Database, "database", mongo.DefaultDatabase, "database name")
	f.StringVar(&opts.Collection, "collection", mongo.DefaultCollection, "collection name")
	f.StringVar(&name, "name", "", "document name (default input base name)")
	return cmd
}

// writeSink loads src and writes it to s, closing s afterwards.
func (c *CLI) writeSink(cmd *cobra.Command, s sink.Sink, src, name, target string) error {
	defer s.Close()

	store, _, err := c.load(cmd.Context(), src)
	if err != nil {
		return err
	}
	if name == "" {
		name = documentName(src)
	}

	sum, err := s.Write(cmd.Context(), name, store)
	if err != nil {
		return err
	}
	c.Logger.Debug("sink write", "name", sum.Name, "target", target)
	printSuccess("Stored %s", sum.Name)
	printStats(sum.Segments, sum.Links, sum.Paths)
	printFile(target)
	return nil
}

// documentName derives a document name from a file path or URL.
func documentName(src string) string {
	base := filepath.Base(src)
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}
	for _, ext := range []string{".gz", ".zst"} {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "." || base == "/" {
		return src
	}
	return base
}
