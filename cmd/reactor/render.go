package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/internal/config"
	"github.com/vango-dev/reactor/internal/demo"
	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/memdom"
	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/render"
	"github.com/vango-dev/reactor/pkg/renderer"
)

func renderCmd(g *globals) *cobra.Command {
	var (
		output string
		pretty bool
		page   bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the demo application to HTML",
		Long: `Mount the demo application into an in-memory document and print
its markup.

Examples:
  reactor render
  reactor render --pretty
  reactor render --page --output=index.html`,
		Args: exactArgs(0, "reactor render [flags]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			logger, err := g.logger(cmd, cfg)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("pretty") {
				cfg.Renderer.Pretty = pretty
			}

			var buf bytes.Buffer
			if err := renderDemo(cmd.Context(), &buf, cfg, logger, page); err != nil {
				return err
			}

			if output == "" {
				_, err := io.Copy(cmd.OutOrStdout(), &buf)
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
				return errors.New("C202").WithField("path", output).Wrap(err)
			}
			logger.Info("wrote output", "path", output, "bytes", buf.Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the markup (default from "+config.ConfigFileName+")")
	cmd.Flags().BoolVar(&page, "page", false, "Wrap the markup in a full HTML page")

	return cmd
}

// renderDemo mounts the demo into a fresh document and writes its markup,
// or a full page when page is set, to w.
func renderDemo(ctx context.Context, w io.Writer, cfg *config.Config, logger *slog.Logger, page bool) error {
	doc := memdom.New()
	container := doc.CreateContainer("app")

	opts := []renderer.Option{
		renderer.WithStore(reactive.NewStore(reactive.WithLogger(logger))),
		renderer.WithLogger(logger),
		renderer.WithTracerName(cfg.Renderer.TracerName),
	}
	if cfg.Renderer.KeyedDiff {
		opts = append(opts, renderer.WithKeyedDiff())
	}
	r := renderer.New(doc, opts...)
	if err := r.Render(ctx, demo.App(), container); err != nil {
		return err
	}
	defer r.Render(ctx, nil, container)

	html := render.NewRenderer(render.Config{Pretty: cfg.Renderer.Pretty})
	if page {
		return html.RenderPage(w, render.PageData{
			Title: cfg.Preview.Title,
			Body:  container,
		})
	}
	return html.RenderToWriter(w, container)
}
