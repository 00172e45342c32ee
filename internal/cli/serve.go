package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/citylink/internal/server"
)

// serveCommand creates the serve command that exposes the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		noMetrics bool
		flags     dashboardFlags
	)

	cmd := &cobra.Command{
		Use:   "serve <source>",
		Short: "Serve the dataset and dashboard sessions over HTTP",
		Long: `Serve loads a dataset once and answers table, ranking and scale queries.

Each session created with POST /api/sessions owns its own highlight, search
and page state. GET /dashboard.svg renders the default dashboard and
/metrics exposes Prometheus metrics.`,
		Example: `  citylink serve cities.csv
  citylink serve cities.csv --addr 127.0.0.1:9090`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, c.config.Dashboard)
			if err != nil {
				return err
			}
			cfg := c.config.Server
			cfg.Dashboard = opts
			if cmd.Flags().Changed("addr") || cfg.Addr == "" {
				cfg.Addr = addr
			}
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runServe(ctx, args[0], cfg, noCache, !noMetrics)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable /metrics")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, source string, cfg server.Config, noCache, metrics bool) error {
	var m *server.Metrics
	if metrics {
		m = server.NewMetrics()
		m.Install()
	}

	store, _, err := c.loadDataset(ctx, source, noCache)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv, err := server.New(store, cfg, runner, m, c.Logger)
	if err != nil {
		return err
	}

	printSuccess("Serving %s", source)
	printKeyValue("Address", StyleLink.Render("http://"+displayAddr(cfg.Addr)))
	printKeyValue("Cities", fmt.Sprint(store.Len()))
	if metrics {
		printKeyValue("Metrics", "/metrics")
	}
	printNewline()

	return srv.Run(ctx)
}

// displayAddr turns a ":port" listen address into a clickable host.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
