package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/internal/snapshot"
)

func snapshotCmd(g *globals) *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "snapshot NAME",
		Short: "Render the demo application and store the page",
		Long: `Render the demo application as a full HTML page and store it under
NAME. The file backend writes NAME/<id>.html below snapshot.dir; the s3
backend uploads to snapshot.bucket.

Examples:
  reactor snapshot home
  reactor snapshot release-1.2 --backend=s3`,
		Args: exactArgs(1, "reactor snapshot NAME [flags]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := snapshot.ValidateName(name); err != nil {
				return err
			}

			cfg, err := g.load()
			if err != nil {
				return err
			}
			if backend != "" {
				cfg.Snapshot.Backend = backend
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			logger, err := g.logger(cmd, cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			var buf bytes.Buffer
			if err := renderDemo(ctx, &buf, cfg, logger, true); err != nil {
				return err
			}
			snap, err := snapshot.New(name, buf.Bytes())
			if err != nil {
				return err
			}
			store, err := snapshot.Open(cfg.Snapshot, cfg.SnapshotDir())
			if err != nil {
				return err
			}
			location, err := store.Save(ctx, snap)
			if err != nil {
				return err
			}

			logger.Debug("snapshot saved", "id", snap.ID, "backend", cfg.Snapshot.Backend)
			fmt.Fprintln(cmd.OutOrStdout(), location)
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", "", "Storage backend: file or s3 (default from reactor.json)")

	return cmd
}
