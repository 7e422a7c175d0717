package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hmans/moviegraph/internal/catalog"
	"github.com/hmans/moviegraph/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Initialize a moviegraph project",
	Long: `Creates a moviegraph.toml config file and a catalog.yml seeded with the
built-in catalog in the given directory (default: current directory).

Existing files are left alone unless --force is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}

		configFile := filepath.Join(dir, config.ConfigFile)
		catalogFile := filepath.Join(dir, catalog.DefaultFile)

		for _, path := range []string{configFile, catalogFile} {
			if _, err := os.Stat(path); err == nil && !initForce {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
		}

		defaultCfg := config.Default()
		defaultCfg.Catalog.Path = catalog.DefaultFile
		if err := defaultCfg.Save(configFile); err != nil {
			return fmt.Errorf("failed to create config: %w", err)
		}

		if err := os.WriteFile(catalogFile, catalog.DefaultSource(), 0644); err != nil {
			return fmt.Errorf("failed to create catalog: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Initialized moviegraph project in %s\n", dir)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing files")
	rootCmd.AddCommand(initCmd)
}
