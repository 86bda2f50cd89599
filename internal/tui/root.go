package tui

import (
	"os"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/stormlightlabs/inkwell/internal/db"
	"github.com/stormlightlabs/inkwell/internal/note"
	"github.com/stormlightlabs/inkwell/internal/search"
)

type focusArea int

const (
	focusSearch focusArea = iota
	focusList
	focusNote
)

// RootModel composes the search input, the result list, and the note view.
type RootModel struct {
	search   SearchModel
	results  ListModel
	viewport viewport.Model
	keys     keyBindings
	focus    focusArea
	current  db.Document
	width    int
	height   int
	err      error
}

// NewRootModel creates the top-level model over the given search service.
func NewRootModel(service *search.Service) RootModel {
	return RootModel{
		search:  NewSearchModel(service),
		results: NewListModel(),
		keys:    newKeyBindings(),
		focus:   focusSearch,
	}
}

// Init returns the initial command.
func (m RootModel) Init() tea.Cmd {
	return tea.Batch(m.search.Init(), m.search.performSearch(""))
}

// Update handles messages.
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.results.SetSize(msg.Width, msg.Height-6)
		m.viewport = viewport.New(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		switch m.focus {
		case focusSearch:
			switch msg.String() {
			case "tab", "down":
				m.focus = focusList
				m.search = m.search.Blur()
				return m, nil
			case "q":
				// Typed into the input, not a quit.
			}
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			return m, cmd
		case focusList:
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "tab":
				m.focus = focusSearch
				m.search = m.search.Focus()
				return m, nil
			}
			var cmd tea.Cmd
			m.results, cmd = m.results.Update(msg)
			return m, cmd
		case focusNote:
			switch msg.String() {
			case "q", "esc", "backspace":
				m.focus = focusList
				return m, nil
			}
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case searchTickMsg:
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd

	case searchResultsMsg:
		m.search.SetResults(len(msg.results), nil)
		m.results.SetResults(msg.results)
		return m, nil

	case searchErrMsg:
		m.search.SetResults(0, msg.err)
		return m, nil

	case focusSearchMsg:
		m.focus = focusSearch
		m.search = m.search.Focus()
		return m, nil

	case listSelectMsg:
		m.current = msg.doc
		m.focus = focusNote
		m.viewport.SetContent(m.renderNote(msg.doc))
		m.viewport.GotoTop()
		return m, nil
	}

	return m, nil
}

// View renders the application.
func (m RootModel) View() string {
	if m.focus == focusNote {
		header := noteTitleStyle.Render(m.current.Title) + "  " + noteBackStyle.Render(m.current.Filepath)
		help := helpStyle.Render("esc back · ctrl+c quit")
		return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), help)
	}

	title := titleStyle.Render("inkwell")
	help := helpStyle.Render("tab switch focus · enter open · / search · ctrl+c quit")
	return lipgloss.JoinVertical(lipgloss.Left, title, m.search.View(), m.results.View(), help)
}

// renderNote renders the note body, preferring cached content and
// falling back to the file on disk.
func (m RootModel) renderNote(doc db.Document) string {
	body := string(doc.FullContent)
	if body == "" {
		if fromDisk, err := note.Body(doc.Filepath); err == nil {
			body = fromDisk
		} else {
			body = doc.ContentPreview
		}
	}

	width := m.width
	if width <= 0 || width > 100 {
		width = 100
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return body
	}
	rendered, err := renderer.Render(body)
	if err != nil {
		return body
	}
	return rendered
}

// Run starts the Bubble Tea program over the given search service.
func Run(service *search.Service) error {
	p := tea.NewProgram(NewRootModel(service), tea.WithAltScreen(), tea.WithOutput(os.Stderr))
	_, err := p.Run()
	return err
}
