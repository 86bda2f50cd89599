package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show index status",
		Long:  `Display the location, schema version, and size of the notes index.`,
		RunE:  runInfo,
	}
}

func runInfo(cmd *cobra.Command, args []string) error {
	p.PrintListItem("Notes dir", p.FormatPath(notesRoot()))
	p.PrintListItem("Extension", cfg.Notes.Extension)

	if !cfg.Database.Enabled && dbPath == "" {
		p.PrintListItem("Database", "disabled (searches scan the filesystem)")
		return nil
	}

	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	version, err := store.CurrentVersion(cmd.Context())
	if err != nil {
		return err
	}
	count, err := store.CountDocuments(cmd.Context())
	if err != nil {
		return err
	}

	p.PrintListItem("Database", p.FormatPath(store.Path()))
	p.PrintListItem("Schema version", fmt.Sprintf("%d", version))
	p.PrintListItem("Indexed notes", fmt.Sprintf("%d", count))
	return nil
}
