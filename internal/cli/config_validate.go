package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/bizdeck/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the effective configuration: the config file, any --config overlay
and BIZDECK_* environment overrides.

This includes:
- Schema version compatibility
- Console sizing (item height, overscan, end threshold, page size)
- Loader threshold range and thumbnail size
- Cache TTL and catalog location`,
		Example: `  # Validate current configuration
  bizdeck config validate

  # Validate and show detailed information
  bizdeck config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cmd.Printf("✓ Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}

	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Config file: %s\n", cfg.ConfigPath())
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Log file: %s\n", cfg.Logging.File)
	cmd.Printf("  Catalog: %s\n", cfg.Catalog.Database)
	cmd.Printf("  Rows: height %d, overscan %d, end threshold %d, page size %d\n",
		cfg.Console.ItemHeight, cfg.Console.Overscan, cfg.Console.EndThreshold, cfg.Console.PageSize)
	cmd.Printf("  Thumbnails: %dx%d, threshold %.2f, margin %d, timeout %s\n",
		cfg.Loader.ThumbWidth, cfg.Loader.ThumbHeight, cfg.Loader.Threshold, cfg.Loader.RootMargin, cfg.Loader.Timeout)

	if cfg.Cache.Enabled {
		cmd.Printf("  Cache: %s (ttl %ds, max %d MB)\n", cfg.Cache.Directory, cfg.Cache.TTLSeconds, cfg.Cache.MaxSizeMB)
	} else {
		cmd.Println("  Cache: disabled")
	}
}
