package cli

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Index new and changed notes",
		Long: `Walk the notes directory and index every note that is new or has
changed since the last sync. Unchanged notes are skipped based on
modification time and content hash. Deleted notes are left in the
index; use "rebuild" to drop them.`,
		Example: `  inkwell sync
  inkwell sync -n ~/work/notes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndexing(cmd, false, true)
		},
	}
}

func newRebuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Re-index every note and drop stale entries",
		Long: `Walk the notes directory, re-evaluate every note against the index,
and remove index entries whose files no longer exist under the notes
directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			prune, _ := cmd.Flags().GetBool("prune")
			return runIndexing(cmd, true, prune)
		},
	}
	cmd.Flags().Bool("prune", true, "Remove entries for deleted notes")
	return cmd
}

func runIndexing(cmd *cobra.Command, rebuild, prune bool) error {
	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database is disabled in config; enable it or pass --database")
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ix := newIndexer(store)
	root := notesRoot()

	var ok, failed int
	if rebuild {
		ok, failed, err = ix.RebuildIndex(ctx, root, prune)
	} else {
		ok, failed, err = ix.SyncFilesystem(ctx, root)
	}
	if err != nil {
		return err
	}

	if rebuild && prune {
		if err := store.Vacuum(ctx); err != nil {
			p.PrintWarning(fmt.Sprintf("vacuum failed: %v", err))
		}
	}

	if !quiet {
		msg := fmt.Sprintf("Indexed %d notes from %s", ok, p.FormatPath(root))
		if failed > 0 {
			msg += fmt.Sprintf(" (%d failed)", failed)
		}
		p.PrintSuccess(msg)
	}
	return nil
}
