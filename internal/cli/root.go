package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/bizdeck/internal/config"
	"github.com/rshade/bizdeck/internal/logging"
)

// annotationLogToFile marks commands whose output owns the terminal, so logs
// must never reach stderr.
const annotationLogToFile = "bizdeck/log-to-file"

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the bizdeck CLI.
// It wires up logging, tracing and the console, catalog, cache, config and
// prefs subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:           "bizdeck",
		Short:         "Business console with a virtualized inventory view",
		Long:          "bizdeck: browse large product catalogs in the terminal with windowed rendering and deferred thumbnails",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			overlay, _ := cmd.Flags().GetString("config")
			if overlay != "" {
				if err := config.ShallowMergeYAML(config.GetGlobalConfig(), overlay); err != nil {
					return fmt.Errorf("applying config overlay: %w", err)
				}
			}

			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "YAML file merged over the configuration (top-level sections replace)")
	cmd.AddCommand(
		NewConsoleCmd(),
		newCatalogCmd(),
		newCacheCmd(),
		newConfigCmd(),
		newPrefsCmd(),
	)

	return cmd
}

const rootCmdExample = `  # Create a demo catalog with generated thumbnails
  bizdeck catalog seed --count 5000 --broken-every 25

  # Browse it
  bizdeck console

  # Print the most expensive products
  bizdeck catalog list --sort price:desc --page 1 --page-size 20

  # Prefetch every thumbnail into the cache
  bizdeck cache warm

  # Initialize configuration
  bizdeck config init`

// newCatalogCmd creates the catalog command group.
func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "catalog", Short: "Inventory catalog commands"}
	cmd.AddCommand(NewCatalogSeedCmd(), NewCatalogListCmd())
	return cmd
}

// newCacheCmd creates the cache command group.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "cache", Short: "Thumbnail cache commands"}
	cmd.AddCommand(NewCacheStatsCmd(), NewCacheClearCmd(), NewCacheWarmCmd())
	return cmd
}

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigGetCmd(), NewConfigValidateCmd())
	return cmd
}

// newPrefsCmd creates the prefs command group.
func newPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "prefs", Short: "User preference commands"}
	cmd.AddCommand(NewPrefsBackgroundCmd())
	return cmd
}
