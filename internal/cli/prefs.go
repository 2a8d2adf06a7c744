package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/bizdeck/internal/config"
	"github.com/rshade/bizdeck/internal/prefs"
)

// NewPrefsBackgroundCmd creates the prefs background command. Without an
// argument it prints the stored background; with one it stores it.
func NewPrefsBackgroundCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "background [NAME]",
		Short: "Show or set the console background",
		Long: "Show or set the console background. Available: " +
			strings.Join(prefs.Backgrounds(), ", ") + ".",
		Example: `  # Current background
  bizdeck prefs background

  # Switch to the dark palette
  bizdeck prefs background midnight`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.EnsureConfigDir(); err != nil {
				return err
			}
			store, err := prefs.Open(config.GetPrefsPath())
			if err != nil {
				return err
			}
			defer store.Close()

			if len(args) == 0 {
				cmd.Println(store.Background())
				return nil
			}

			if err = store.SetBackground(args[0]); err != nil {
				return err
			}
			logger.Info().Ctx(cmd.Context()).Str("background", store.Background()).Msg("background saved")
			cmd.Printf("Background set to %s\n", store.Background())
			return nil
		},
	}
}
