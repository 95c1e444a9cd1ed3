package main

import (
	stderrors "errors"
	"io/fs"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/internal/config"
	"github.com/vango-dev/reactor/internal/errors"
)

// globals holds the persistent flags shared by every command.
type globals struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:   "reactor",
		Short: "Reactive components rendered on the server",
		Long: `reactor drives a component tree with fine-grained reactivity and
renders it to an in-memory document.

  • render prints the demo application as HTML
  • preview serves it live over a websocket
  • snapshot stores rendered HTML on disk or in S3`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&g.configPath, "config", "c", "", "Path to "+config.ConfigFileName+" (default: search from the working directory)")
	flags.StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&g.logFormat, "log-format", "", "Log format: text or json")

	rootCmd.AddCommand(
		renderCmd(g),
		previewCmd(g),
		snapshotCmd(g),
		initCmd(),
		versionCmd(),
	)
	return rootCmd
}

// load reads the configuration named by --config, or the nearest
// reactor.json above the working directory. Without either the defaults
// are used. Log flags override the file.
func (g *globals) load() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if g.configPath != "" {
		cfg, err = config.LoadFile(g.configPath)
	} else {
		var root string
		root, err = config.FindProjectRoot(".")
		if err == nil {
			cfg, err = config.Load(root)
		}
	}
	if stderrors.Is(err, fs.ErrNotExist) && g.configPath == "" {
		cfg, err = config.Default(), nil
	}
	if err != nil {
		return nil, err
	}

	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.logFormat != "" {
		cfg.Log.Format = g.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// logger builds the command logger. Logs go to stderr so rendered output
// on stdout stays clean.
func (g *globals) logger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	return cfg.Log.Logger(cmd.ErrOrStderr())
}

// exactArgs is cobra.ExactArgs reporting S350.
func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return errors.New("S350").
				WithField("command", cmd.Name()).
				WithSuggestion("Usage: " + usage)
		}
		return nil
	}
}
