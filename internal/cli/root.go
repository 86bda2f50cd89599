package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/stormlightlabs/inkwell/internal/config"
	"github.com/stormlightlabs/inkwell/internal/db"
	"github.com/stormlightlabs/inkwell/internal/index"
	"github.com/stormlightlabs/inkwell/internal/search"
)

var (
	cfg      *config.Config
	p        = NewPrinter()
	dbPath   string
	notesDir string
	verbose  bool
	quiet    bool
	noColor  bool
)

var rootCmd = &cobra.Command{
	Use:   "inkwell",
	Short: "A terminal-first personal notes index",
	Long: `Inkwell scans a directory of notes with embedded metadata blocks,
keeps a SQLite cache of their metadata and content, and answers
structured and free-text queries against that cache. When the cache is
disabled or unreachable, searches degrade to a live filesystem scan.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		switch {
		case verbose:
			log.SetLevel(log.DebugLevel)
		case quiet:
			log.SetLevel(log.ErrorLevel)
		}
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	loadConfig()
	rootCmd.AddCommand(
		newInitCommand(),
		newSearchCommand(),
		newSyncCommand(),
		newRebuildCommand(),
		newListCommand(),
		newReadCommand(),
		newInfoCommand(),
		newConfigCommand(),
		newMCPCommand(),
		newTuiCommand(),
	)
	return rootCmd.Execute()
}

func loadConfig() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.DefaultConfig()
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "database", "d", "", "Database path (default: $XDG_DATA_HOME/inkwell/index.db)")
	rootCmd.PersistentFlags().StringVarP(&notesDir, "notes", "n", "", "Notes directory (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	if noColor {
		rootCmd.CompletionOptions.DisableDescriptions = true
	}
}

func resolveDBPath() (string, error) {
	if dbPath != "" {
		return config.ResolveDatabasePath(dbPath)
	}
	return cfg.Database.Path, nil
}

func notesRoot() string {
	if notesDir != "" {
		return notesDir
	}
	return cfg.Notes.Dir
}

// openStore opens the configured store and brings its schema current.
// It returns nil when the store feature is disabled, which downstream
// components treat as "fall back to filesystem scans".
func openStore(ctx context.Context) (*db.Store, error) {
	if !cfg.Database.Enabled && dbPath == "" {
		return nil, nil
	}

	path, err := resolveDBPath()
	if err != nil {
		return nil, err
	}
	store, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

func newIndexer(store *db.Store) *index.Indexer {
	return index.New(store, index.Options{
		Extension:     cfg.Notes.Extension,
		PreviewLength: cfg.Index.PreviewLength,
		KeepContent:   cfg.Index.KeepContent,
	})
}

func newSearchService(store *db.Store) *search.Service {
	return search.NewService(store, newIndexer(store), notesRoot())
}
