package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/internal/config"
	"github.com/vango-dev/reactor/internal/demo"
	"github.com/vango-dev/reactor/internal/preview"
	"github.com/vango-dev/reactor/pkg/metrics"
)

func previewCmd(g *globals) *cobra.Command {
	var (
		port    int
		host    string
		noStats bool
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Serve a live preview of the demo application",
		Long: `Start an HTTP server that renders the demo application per browser
session. Browser events travel over a websocket and the updated markup is
sent back.

Examples:
  reactor preview
  reactor preview --port=8080
  reactor preview --host=0.0.0.0`,
		Args: exactArgs(0, "reactor preview [flags]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Preview.Port = port
			}
			if cmd.Flags().Changed("host") {
				cfg.Preview.Host = host
			}
			logger, err := g.logger(cmd, cfg)
			if err != nil {
				return err
			}

			opts := []preview.Option{preview.WithLogger(logger)}
			if cfg.Metrics.Enabled && !noStats {
				reg := prometheus.NewRegistry()
				reg.MustRegister(
					collectors.NewGoCollector(),
					collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
				)
				m := metrics.New(
					metrics.WithRegistry(reg),
					metrics.WithNamespace(cfg.Metrics.Namespace),
				)
				opts = append(opts, preview.WithMetrics(m, reg))
			}

			srv := preview.New(demo.App, preview.Config{
				Title:       cfg.Preview.Title,
				KeyedDiff:   cfg.Renderer.KeyedDiff,
				Pretty:      cfg.Renderer.Pretty,
				TracerName:  cfg.Renderer.TracerName,
				MetricsPath: cfg.Metrics.Path,
			}, opts...)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			addr := cfg.PreviewAddress()
			fmt.Fprintf(cmd.OutOrStdout(), "Preview running at http://%s\n", addr)
			if cfg.Metrics.Enabled && !noStats {
				fmt.Fprintf(cmd.OutOrStdout(), "Metrics at http://%s%s\n", addr, cfg.Metrics.Path)
			}
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default "+strconv.Itoa(config.DefaultPort)+")")
	cmd.Flags().StringVar(&host, "host", "", "Host to bind to")
	cmd.Flags().BoolVar(&noStats, "no-metrics", false, "Disable the metrics endpoint")

	return cmd
}
