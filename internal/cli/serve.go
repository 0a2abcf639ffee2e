package cli

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gfabridge/pkg/bridge"
	"github.com/matzehuels/gfabridge/pkg/server"
)

// serveCommand creates the serve command, which runs the HTTP query server.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [file|url...]",
		Short: "Serve documents over HTTP",
		Long: `Serve documents over HTTP.

Documents given on the command line are loaded before the server starts and
get handles 1, 2, ... in order. More documents can be uploaded with
POST /documents.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			driver, cfg, err := c.newDriver(ctx)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Serve.Addr
			}

			reg := bridge.NewRegistry(driver)
			for _, src := range args {
				h, err := reg.Load(ctx, src)
				if err != nil {
					return err
				}
				printInfo("%s %s %s", src, StyleDim.Render(iconArrow), StyleNumber.Render("/documents/"+itoaHandle(h)))
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           server.New(server.Options{Registry: reg, Logger: c.Logger, Timeout: cfg.Fetch.Timeout * 2}),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return c.listen(ctx, srv)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	return cmd
}

// listen runs srv until ctx is cancelled, then shuts it down gracefully.
func (c *CLI) listen(ctx context.Context, srv *http.Server) error {
	errc := make(chan error, 1)
	go func() {
		printSuccess("Listening on %s", StyleLink.Render("http://"+srv.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func itoaHandle(h bridge.Handle) string { return strconv.FormatInt(int64(h), 10) }
