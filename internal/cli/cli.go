// Package cli implements the gfabridge command-line interface.
//
// Commands ingest a GFA document from a local file or a same-origin URL and
// then inspect it: record counts, the JSON export, in-memory record layouts,
// raw string views, Graphviz renderings, an interactive record browser,
// database sinks and an HTTP query server. The CLI is built with cobra and
// logs through charmbracelet/log; --verbose switches to debug level.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gfabridge/pkg/buildinfo"
	"github.com/matzehuels/gfabridge/pkg/cache"
	"github.com/matzehuels/gfabridge/pkg/config"
	"github.com/matzehuels/gfabridge/pkg/fetch"
	"github.com/matzehuels/gfabridge/pkg/graph"
	"github.com/matzehuels/gfabridge/pkg/ingest"
	"github.com/matzehuels/gfabridge/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "gfabridge"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	verbose    bool
	configPath string
	origin     string
	noCache    bool
	refresh    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "gfabridge ingests GFA assembly graphs and exposes them zero-copy",
		Long: `gfabridge parses GFA 1 assembly graphs (segments, links and paths) into an
in-memory store and exposes the store through raw memory views, a JSON
export, a Graphviz rendering, database sinks and an HTTP query server.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			observability.SetIngestHooks(observability.LogIngestHooks{Logger: c.Logger})
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&c.configPath, "config", "", "config file (default "+config.Path()+")")
	flags.StringVar(&c.origin, "origin", "", "restrict remote documents to this scheme://host[:port]")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable the document cache")
	flags.BoolVar(&c.refresh, "refresh", false, "bypass cached documents and refetch")

	root.AddCommand(c.loadCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.sinkCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration & Ingestion
// =============================================================================

// config resolves the effective settings: defaults, then the config file,
// then command-line flags.
func (c *CLI) config() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.Load(c.configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return cfg, err
	}
	if !c.verbose {
		c.SetLogLevel(configLevel(cfg.Log.Level))
	}
	if c.origin != "" {
		cfg.Fetch.Origin = c.origin
	}
	if c.noCache {
		cfg.Cache.Backend = cache.BackendNone
	}
	return cfg, cfg.Validate()
}

// newDriver builds an ingestion driver wired to the configured fetch client.
func (c *CLI) newDriver(ctx context.Context) (*ingest.Driver, config.Config, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, cfg, err
	}
	client, err := fetch.FromConfig(ctx, cfg, c.Logger)
	if err != nil {
		return nil, cfg, err
	}
	return ingest.NewDriver(ingest.Options{
		Fetcher: client.WithRefresh(c.refresh),
		Logger:  c.Logger,
	}), cfg, nil
}

// load ingests src with a spinner and logs the summary.
func (c *CLI) load(ctx context.Context, src string) (*graph.Store, ingest.Stats, error) {
	driver, _, err := c.newDriver(ctx)
	if err != nil {
		return nil, ingest.Stats{}, err
	}

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Loading "+src+"...")
	spinner.Start()
	store, stats, err := driver.Load(ctx, src)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
		} else {
			spinner.StopWithError("Failed to load " + src)
		}
		return nil, stats, err
	}
	spinner.Stop()
	prog.done("Loaded " + src)
	return store, stats, nil
}
