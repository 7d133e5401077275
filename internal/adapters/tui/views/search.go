package views

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"labelsplit/internal/adapters/tui/styles"
	"labelsplit/internal/application/commands"
	"labelsplit/internal/ports"
)

const maxSearchResults = 10

// SearchKeyMap defines key bindings for the search view
type SearchKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Cancel key.Binding
}

var SearchKeys = SearchKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "jump to image"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// SearchModel filters images by filename
type SearchModel struct {
	ViewState

	repo    ports.DatasetRepository
	input   textinput.Model
	results []commands.ImageMatch
	cursor  int
}

// NewSearchModel creates a new search view model
func NewSearchModel(repo ports.DatasetRepository) *SearchModel {
	input := textinput.New()
	input.Placeholder = "Image name..."
	input.Focus()

	return &SearchModel{
		repo:  repo,
		input: input,
	}
}

// Init initializes the search view
func (m *SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

// Reset clears the query and results
func (m *SearchModel) Reset() {
	m.input.SetValue("")
	m.results = nil
	m.cursor = 0
	m.input.Focus()
}

type searchResultsMsg struct {
	query   string
	results []commands.ImageMatch
}

// SearchSelectMsg is sent when a search result is selected
type SearchSelectMsg struct {
	Filename string
}

// Update handles messages for the search view
func (m *SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case searchResultsMsg:
		// Drop results of a query that has since been edited
		if msg.query != m.input.Value() {
			return m, nil
		}
		m.results = msg.results
		m.cursor = 0
		return m, nil

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, SearchKeys.Cancel):
			return m, func() tea.Msg {
				return SwitchToBrowserMsg{}
			}

		case key.Matches(msg, SearchKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, SearchKeys.Down):
			if m.cursor < min(len(m.results), maxSearchResults)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, SearchKeys.Select):
			if m.cursor >= 0 && m.cursor < len(m.results) {
				filename := m.results[m.cursor].Filename
				return m, func() tea.Msg {
					return SearchSelectMsg{Filename: filename}
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	query := m.input.Value()
	if query == "" {
		m.results = nil
		return m, cmd
	}
	return m, tea.Batch(cmd, m.search(query))
}

func (m *SearchModel) search(query string) tea.Cmd {
	return func() tea.Msg {
		results, err := commands.NewSearchImagesCommand(m.repo, query).Execute(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return searchResultsMsg{query: query, results: results}
	}
}

// View renders the search view
func (m *SearchModel) View() string {
	v := NewViewBuilder().
		Title("Search").
		Line(styles.InputFocused.Render(m.input.View())).
		BlankLine()

	switch {
	case m.input.Value() == "":
		v.Muted("Type to filter images")
	case len(m.results) == 0:
		v.Muted("No results found")
	default:
		v.Subtitle(fmt.Sprintf("%d results", len(m.results)))
		for i, r := range m.results[:min(len(m.results), maxSearchResults)] {
			if i == m.cursor {
				v.Line(styles.RowSelected.Render(r.Filename))
			} else {
				v.Line(r.Filename)
			}
		}
		if len(m.results) > maxSearchResults {
			v.Muted(fmt.Sprintf("... and %d more", len(m.results)-maxSearchResults))
		}
	}

	return v.BlankLine().
		Message(m.Message, m.MessageErr).
		Help(SearchKeys.Up, SearchKeys.Down, SearchKeys.Select, SearchKeys.Cancel).
		String()
}
