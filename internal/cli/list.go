package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stormlightlabs/inkwell/internal/search"
)

var (
	listStatus string
	listType   string
	listTag    string
	listCount  bool
	listPaths  bool
)

func newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List indexed notes",
		Long: `List notes known to the index, optionally filtered by status, type,
or tag. Equivalent to a search with only structured terms.`,
		Example: `  inkwell list
  inkwell list --status draft
  inkwell list -t journal --tag standup
  inkwell list --count`,
		RunE: runList,
	}

	cmd.Flags().StringVarP(&listStatus, "status", "s", "", "Filter by status")
	cmd.Flags().StringVarP(&listType, "type", "t", "", "Filter by document type")
	cmd.Flags().StringVar(&listTag, "tag", "", "Filter by tag")
	cmd.Flags().BoolVar(&listCount, "count", false, "Show only the count of matching notes")
	cmd.Flags().BoolVar(&listPaths, "paths", false, "Print paths only")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	var terms []string
	if listStatus != "" {
		terms = append(terms, "status:"+listStatus)
	}
	if listType != "" {
		terms = append(terms, "type:"+listType)
	}
	if listTag != "" {
		terms = append(terms, "@"+strings.TrimPrefix(listTag, "@"))
	}

	svc := newSearchService(store)
	results, err := svc.Search(cmd.Context(), strings.Join(terms, " "), search.Options{
		SortBy: cfg.Search.DefaultSort,
	})
	if err != nil {
		return err
	}

	if listCount {
		fmt.Fprintf(cmd.OutOrStdout(), "%d\n", len(results))
		return nil
	}

	if listPaths {
		for _, doc := range results {
			fmt.Fprintln(cmd.OutOrStdout(), doc.Filepath)
		}
		return nil
	}

	for _, doc := range results {
		p.PrintListItem(doc.Title, fmt.Sprintf("%s · %s · %s", doc.Status, doc.DocType, p.FormatPath(doc.Filepath)))
	}
	return nil
}
