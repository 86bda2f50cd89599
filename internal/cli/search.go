package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/stormlightlabs/inkwell/internal/db"
	"github.com/stormlightlabs/inkwell/internal/search"
)

var (
	searchLimit  int
	searchSort   string
	searchAsc    bool
	searchFormat string
	searchFirst  bool
)

func newSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search the notes index",
		Long: `Search indexed notes with a small query language.

Query terms:
  @word        match notes tagged with word
  status:word  match notes with the given status
  type:word    match notes of the given document type
  anything else is matched as free text against titles, previews,
  paths, and tags.

With no query, all indexed notes are listed (newest first).`,
		Example: `  inkwell search "@meeting status:draft planning notes"
  inkwell search -l 5 -s title budget
  inkwell search -f paths type:journal`,
		RunE: runSearch,
	}

	cmd.Flags().IntVarP(&searchLimit, "limit", "l", 0, "Maximum number of results (default from config)")
	cmd.Flags().StringVarP(&searchSort, "sort", "s", "", "Sort by field (modified, title, date, created)")
	cmd.Flags().BoolVar(&searchAsc, "asc", false, "Sort ascending instead of descending")
	cmd.Flags().StringVarP(&searchFormat, "format", "f", "table", "Output format (table, json, paths)")
	cmd.Flags().BoolVarP(&searchFirst, "first", "1", false, "Return only the top result")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	limit := searchLimit
	if limit <= 0 {
		limit = cfg.Search.DefaultLimit
	}
	if searchFirst {
		limit = 1
	}
	sortBy := searchSort
	if sortBy == "" {
		sortBy = cfg.Search.DefaultSort
	}

	svc := newSearchService(store)
	results, err := svc.Search(cmd.Context(), strings.Join(args, " "), search.Options{
		SortBy:    sortBy,
		Ascending: searchAsc,
		Limit:     limit,
	})
	if err != nil {
		return err
	}

	if len(results) == 0 && !quiet {
		p.PrintError("No results found")
		return nil
	}

	switch searchFormat {
	case "json":
		return outputSearchJSON(cmd, results)
	case "paths":
		return outputSearchPaths(cmd, results)
	default:
		return outputSearchTable(cmd, results)
	}
}

func outputSearchTable(cmd *cobra.Command, results []db.Document) error {
	if len(results) == 0 {
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Title", "Status", "Type", "Topics", "Path"})

	for _, doc := range results {
		t.AppendRow(table.Row{
			doc.Title,
			doc.Status,
			doc.DocType,
			strings.Join(doc.Topics, ", "),
			doc.Filepath,
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}

func outputSearchJSON(cmd *cobra.Command, results []db.Document) error {
	type entry struct {
		Path     string   `json:"path"`
		Title    string   `json:"title"`
		Type     string   `json:"type"`
		Status   string   `json:"status"`
		Date     string   `json:"date"`
		Topics   []string `json:"topics,omitempty"`
		Entities []string `json:"entities,omitempty"`
		Preview  string   `json:"preview,omitempty"`
	}

	entries := make([]entry, 0, len(results))
	for _, doc := range results {
		entries = append(entries, entry{
			Path:     doc.Filepath,
			Title:    doc.Title,
			Type:     doc.DocType,
			Status:   doc.Status,
			Date:     doc.Date,
			Topics:   doc.Topics,
			Entities: doc.Entities,
			Preview:  doc.ContentPreview,
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

func outputSearchPaths(cmd *cobra.Command, results []db.Document) error {
	for _, doc := range results {
		fmt.Fprintln(cmd.OutOrStdout(), doc.Filepath)
	}
	return nil
}
