package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/bizdeck/internal/config"
	"github.com/rshade/bizdeck/internal/pagination"
	"github.com/rshade/bizdeck/internal/prefs"
	"github.com/rshade/bizdeck/internal/tui"
)

// ErrNotTerminal is returned when the console is started without a terminal.
var ErrNotTerminal = errors.New("console requires an interactive terminal")

// NewConsoleCmd creates the console command, which opens the inventory page.
func NewConsoleCmd() *cobra.Command {
	var (
		sortFlag     string
		noThumbnails bool
	)

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Open the interactive inventory console",
		Long: `Opens a full-screen inventory browser.

Products are rendered in a windowed list: only the rows in view (plus a small
overscan) are drawn, and further pages are fetched as the list nears its end.
Thumbnails load only when their row scrolls into view.

Keys: ↑/↓ or j/k move, pgup/pgdn page, g/G jump, b cycles the background,
r reloads, ? toggles help, q quits.`,
		Example: `  # Browse the catalog
  bizdeck console

  # Cheapest first, without thumbnails
  bizdeck console --sort price --no-thumbnails`,
		Annotations: map[string]string{annotationLogToFile: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal(os.Stdout) || !isTerminal(os.Stdin) {
				return ErrNotTerminal
			}
			return runConsole(cmd, sortFlag, noThumbnails)
		},
	}

	cmd.Flags().StringVar(&sortFlag, "sort", "", "sort order as field or field:order (name, sku, price, stock, created)")
	cmd.Flags().BoolVar(&noThumbnails, "no-thumbnails", false, "do not load product thumbnails")

	return cmd
}

func runConsole(cmd *cobra.Command, sortFlag string, noThumbnails bool) error {
	ctx := cmd.Context()

	field, order, err := pagination.ParseSort(sortFlag)
	if err != nil {
		return err
	}

	store, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if field != "" && !store.Sorter().IsValidField(field) {
		return fmt.Errorf("%w: %q", pagination.ErrInvalidSortField, field)
	}

	preferences, err := prefs.Open(config.GetPrefsPath())
	if err != nil {
		return err
	}
	defer preferences.Close()

	opts := tui.InventoryOptions{
		Context:   ctx,
		Catalog:   store,
		Prefs:     preferences,
		Console:   config.GetConsoleConfig(),
		Loader:    config.GetLoaderConfig(),
		SortField: field,
		SortOrder: order,
	}
	if !noThumbnails {
		service, _, svcErr := newResourceService()
		if svcErr != nil {
			return svcErr
		}
		opts.Thumbnails = service
	}

	model, err := tui.NewInventoryModel(opts)
	if err != nil {
		return err
	}
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run console: %w", err)
	}

	logger.Info().Ctx(ctx).Msg("console closed")
	return nil
}
