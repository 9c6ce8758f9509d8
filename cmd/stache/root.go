package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/stache/config"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configFile string
	envFile    string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	cmd := &cobra.Command{
		Use:   "stache",
		Short: "Render {key} and {{key}} templates against JSON, YAML or TOML data",
		Long: `stache substitutes data into templates with two placeholder forms:

  {key}     inserted verbatim
  {{key}}   HTML-escaped

Keys are dot paths into the data (user.profile.name, items.0).
Data may be validated first with per-key rules.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&g.configFile, "config", "c", "", "config file (.yaml, .toml or .json)")
	cmd.PersistentFlags().StringVar(&g.envFile, "env-file", "", "dotenv file with STACHE_* settings")
	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log debug output to stderr")

	cmd.AddCommand(
		newRenderCmd(g),
		newKeysCmd(),
		newConfigSchemaCmd(),
	)
	return cmd
}

// execute runs cmd with signal handling.
func execute(ctx context.Context, cmd *cobra.Command) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return cmd.ExecuteContext(ctx)
}

// logger builds the command logger.
func (g *globalFlags) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if g.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// loadConfig reads --config (when given) and applies STACHE_* overrides
// from the environment and --env-file.
func (g *globalFlags) loadConfig() (config.Config, error) {
	cfg := config.DefaultConfig()
	if g.configFile != "" {
		loaded, err := config.Load(g.configFile)
		if err != nil {
			return cfg, usagef("%v", err)
		}
		cfg = loaded
	} else if _, err := os.Stat(defaultConfigFile); err == nil {
		loaded, err := config.Load(defaultConfigFile)
		if err != nil {
			return cfg, usagef("%v", err)
		}
		cfg = loaded
	}
	if g.envFile != "" {
		if err := cfg.LoadEnvFile(g.envFile); err != nil {
			return cfg, usagef("%v", err)
		}
		return cfg, nil
	}
	cfg.LoadFromEnv()
	return cfg, nil
}

// defaultConfigFile is read from the working directory when --config is
// not given.
const defaultConfigFile = ".stache.yaml"
