package commands

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/worldpop/internal/server"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Addr        string
	ReadTimeout time.Duration
	Watch       bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the reports over a JSON HTTP API",
		Long: `Start an HTTP server exposing the reports as JSON.

Endpoints:
  GET /api/countries|cities|capitals?scope=&value=&limit=
  GET /api/breakdowns/{scope}?name=
  GET /api/population/{scope}?name=
  GET /api/languages
  GET /api/report
  GET /healthz
  GET /metrics

With --watch, edits to the reports section of the config file are picked up
without a restart.`,
		Example: `  # Serve on the configured address
  worldpop serve

  # Serve on all interfaces and reload report parameters on change
  worldpop serve --addr :8080 --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "Address to listen on (default: server.addr)")
	cmd.Flags().DurationVar(&opts.ReadTimeout, "read-timeout", 0, "Request read timeout (default: server.read_timeout)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Reload report parameters when the config file changes")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cctx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	// CLI flags override config file
	serverCfg := cctx.Cfg.Server
	if opts.Addr != "" {
		serverCfg.Addr = opts.Addr
	}
	if opts.ReadTimeout > 0 {
		serverCfg.ReadTimeout = opts.ReadTimeout
	}
	if cmd.Flags().Changed("watch") {
		serverCfg.Watch = opts.Watch
	}
	if serverCfg.Watch && cctx.Cfg.ConfigFile == "" {
		return fmt.Errorf("--watch needs a config file (create worldpop.yaml or pass --config)")
	}

	cctx.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv := server.New(server.Config{
		Service:     cctx.Engine,
		Logger:      cctx.Logger,
		Metrics:     cctx.Metrics,
		Gatherer:    cctx.Registry,
		Defaults:    cctx.Cfg.Reports,
		ReadTimeout: serverCfg.ReadTimeout,
		ConfigFile:  cctx.Cfg.ConfigFile,
		Watch:       serverCfg.Watch,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Serving world population API on http://%s\n", serverCfg.Addr)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")

	return srv.Serve(ctx, serverCfg.Addr)
}
