package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hmans/moviegraph/internal/catalog"
	"github.com/hmans/moviegraph/internal/config"
	"github.com/hmans/moviegraph/internal/ctxlog"
	"github.com/hmans/moviegraph/internal/moviecore"
	"github.com/hmans/moviegraph/internal/store"
)

var (
	core   *moviecore.Core
	cfg    *config.Config
	logger *slog.Logger

	// seeded is the number of movies loaded from the catalog at startup.
	seeded int

	configPath  string
	catalogPath string
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "moviegraph",
	Short: "A GraphQL API over an in-memory movie catalog",
	Long: `moviegraph serves a small catalog of movies and actors over GraphQL.

The catalog is read from a YAML file at startup and kept in memory. Movies
added through the addMovie mutation are pushed to movieAdded subscribers and
are lost when the process exits.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip loading for init command
		if cmd.Name() == "init" {
			return nil
		}
		return setup()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if core != nil {
			return core.Close()
		}
		return nil
	},
}

// setup loads configuration and the catalog, and creates the core.
func setup() error {
	var err error

	cfg, err = config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if catalogPath != "" {
		cfg.Catalog.Path = catalogPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	logger = ctxlog.New(os.Stderr, cfg.Log.Format, cfg.Log.Level)
	slog.SetDefault(logger)

	c, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	seeded = len(c.Movies)

	core, err = moviecore.New(store.New(c.Actors, c.Movies), logger)
	if err != nil {
		return fmt.Errorf("starting core: %w", err)
	}

	logger.Debug("catalog loaded", "path", cfg.Catalog.Path, "actors", len(c.Actors), "movies", seeded)
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.ConfigFile, "Path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Path to the catalog YAML file (overrides config; default is the built-in catalog)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides config)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
