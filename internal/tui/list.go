package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stormlightlabs/inkwell/internal/db"
)

// listSelectMsg is sent when the user presses Enter on a note.
type listSelectMsg struct {
	doc db.Document
}

// focusSearchMsg is sent when the user presses "/" to return to search.
type focusSearchMsg struct{}

// NoteItem wraps db.Document for display in the list.
type NoteItem struct {
	doc db.Document
}

// NewNoteItem creates a new list item from a document.
func NewNoteItem(doc db.Document) NoteItem {
	return NoteItem{doc: doc}
}

// Document returns the underlying document.
func (i NoteItem) Document() db.Document {
	return i.doc
}

// FilterValue implements list.Item.
func (i NoteItem) FilterValue() string {
	return i.doc.Title
}

// NoteDelegate defines how notes are rendered in the list.
type NoteDelegate struct{}

// Height implements list.ItemDelegate.
func (d NoteDelegate) Height() int { return 2 }

// Spacing implements list.ItemDelegate.
func (d NoteDelegate) Spacing() int { return 1 }

// Update implements list.ItemDelegate.
func (d NoteDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

// Render implements list.ItemDelegate.
func (d NoteDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(NoteItem)
	if !ok {
		return
	}

	doc := i.doc
	meta := doc.Status + " · " + doc.DocType
	if len(doc.Topics) > 0 {
		meta += " · " + strings.Join(doc.Topics, ", ")
	}

	var title, detail string
	if index == m.Index() {
		title = selectedNameStyle.Render(doc.Title)
		detail = selectedMetaStyle.Render(meta)
	} else {
		title = nameStyle.Render(doc.Title)
		detail = metaStyle.Render(meta)
	}

	fmt.Fprintf(w, "%s\n%s", title, detail)
}

// ListModel wraps bubbles/list for note navigation.
type ListModel struct {
	list list.Model
	docs []db.Document
}

// NewListModel creates a new list model.
func NewListModel() ListModel {
	l := list.New(nil, NoteDelegate{}, 0, 0)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowPagination(true)
	l.SetShowFilter(false)
	l.DisableQuitKeybindings()

	l.KeyMap.NextPage.SetKeys("ctrl+d", "pgdown")
	l.KeyMap.PrevPage.SetKeys("ctrl+u", "pgup")

	return ListModel{list: l}
}

// Init returns the initial command.
func (m ListModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m ListModel) Update(msg tea.Msg) (ListModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(NoteItem); ok {
				return m, func() tea.Msg {
					return listSelectMsg{doc: item.doc}
				}
			}
		case "/":
			return m, func() tea.Msg {
				return focusSearchMsg{}
			}
		case "j", "down":
			m.list.CursorDown()
			return m, nil
		case "k", "up":
			m.list.CursorUp()
			return m, nil
		case "G":
			if len(m.list.Items()) > 0 {
				m.list.Select(len(m.list.Items()) - 1)
			}
			return m, nil
		case "g":
			if len(m.list.Items()) > 0 {
				m.list.Select(0)
			}
			return m, nil
		}

	case searchResultsMsg:
		m.SetResults(msg.results)
		return m, nil
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the list.
func (m ListModel) View() string {
	if len(m.list.Items()) == 0 {
		return emptyStateStyle.Render("No notes found. Try a different query.")
	}
	return m.list.View()
}

// SetResults replaces the list contents with new search results.
func (m *ListModel) SetResults(docs []db.Document) {
	m.docs = docs
	items := make([]list.Item, len(docs))
	for i, doc := range docs {
		items[i] = NewNoteItem(doc)
	}
	m.list.SetItems(items)
	if len(items) > 0 {
		m.list.Select(0)
	}
}

// SetSize sets the width and height of the list.
func (m *ListModel) SetSize(w, h int) {
	m.list.SetWidth(w)
	m.list.SetHeight(h)
}
