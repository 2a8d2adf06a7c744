package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/bizdeck/internal/config"
)

// NewConfigGetCmd creates the config get command, which prints one value of
// the effective configuration.
func NewConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print a configuration value",
		Example: `  # Thumbnail visibility threshold
  bizdeck config get loader.threshold

  # Whole console section
  bizdeck config get console`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := config.GetGlobalConfig().Get(args[0])
			if err != nil {
				return err
			}
			cmd.Println(value)
			return nil
		},
	}
}
