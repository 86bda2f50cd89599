package cli

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/stormlightlabs/inkwell/internal/note"
)

var (
	readRender  bool
	readWidth   int
	readRaw     bool
	readPager   bool
	readNoPager bool
)

func newReadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read <path>",
		Short: "Read a note by path",
		Long: `Read and display a note. The cached copy is used when the index holds
the full content; otherwise the note is read from disk with its
metadata block stripped.`,
		Example: `  inkwell read ~/notes/projects/roadmap.md
  inkwell read -r -w 100 meetings/standup.md`,
		Args: cobra.ExactArgs(1),
		RunE: runRead,
	}

	cmd.Flags().BoolVarP(&readRender, "render", "r", false, "Render markdown with glamour")
	cmd.Flags().IntVarP(&readWidth, "width", "w", 0, "Render width (defaults to 80)")
	cmd.Flags().BoolVar(&readRaw, "raw", false, "Include the metadata block")
	cmd.Flags().BoolVarP(&readPager, "pager", "P", false, "Enable pager")
	cmd.Flags().BoolVarP(&readNoPager, "no-pager", "p", false, "Disable pager")

	return cmd
}

func runRead(cmd *cobra.Command, args []string) error {
	path := args[0]
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	body, err := noteBody(cmd, path)
	if err != nil {
		return err
	}

	output := []byte(body)
	if readRender {
		rendered, err := renderMarkdown(output, readWidth)
		if err != nil {
			return err
		}
		output = []byte(rendered)
	}

	if shouldUsePager(len(output)) {
		return pageOutput(cmd, output)
	}

	_, err = cmd.OutOrStdout().Write(output)
	return err
}

// noteBody prefers the cached full content over a disk read, so read
// works even when the file has since been moved or deleted.
func noteBody(cmd *cobra.Command, path string) (string, error) {
	if readRaw {
		content, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(content), nil
	}

	store, err := openStore(cmd.Context())
	if err == nil && store != nil {
		defer store.Close()
		doc, err := store.GetDocument(cmd.Context(), path)
		if err == nil && len(doc.FullContent) > 0 {
			_, body, err := note.Parse(doc.FullContent)
			if err == nil {
				return body, nil
			}
		}
	}

	return note.Body(path)
}

func renderMarkdown(input []byte, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(string(input))
}

func shouldUsePager(contentSize int) bool {
	if readNoPager {
		return false
	}
	if readPager {
		return true
	}
	if !isTerminal() {
		return false
	}
	return contentSize > 4096
}

func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

func pageOutput(cmd *cobra.Command, data []byte) error {
	pager := os.Getenv("PAGER")
	if pager == "" {
		pager = "less"
	}

	pagerCmd := exec.Command(pager)
	pagerCmd.Stdout = cmd.OutOrStdout()
	pagerCmd.Stderr = cmd.OutOrStderr()

	stdin, err := pagerCmd.StdinPipe()
	if err != nil {
		return err
	}

	if err := pagerCmd.Start(); err != nil {
		return err
	}

	if _, err := stdin.Write(data); err != nil {
		return err
	}
	_ = stdin.Close()

	return pagerCmd.Wait()
}
