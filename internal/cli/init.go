package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the index database and bring its schema current",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cfg.Database.Enabled && dbPath == "" {
				return fmt.Errorf("database is disabled in config; enable it or pass --database")
			}

			path, err := resolveDBPath()
			if err != nil {
				return err
			}
			store, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			p.PrintSuccess(fmt.Sprintf("Initialized index database at %s", path))
			return nil
		},
	}
}
