package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/stormlightlabs/inkwell/internal/tui"
)

func newTuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch the terminal user interface",
		Long:  `Launch the interactive terminal-based notes browser.`,
		RunE:  runTui,
	}
}

func runTui(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database is disabled in config; enable it or pass --database")
	}
	defer store.Close()

	return tui.Run(newSearchService(store))
}
