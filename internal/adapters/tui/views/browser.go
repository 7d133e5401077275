package views

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"labelsplit/internal/adapters/tui/styles"
	"labelsplit/internal/application/commands"
	"labelsplit/internal/domain"
	"labelsplit/internal/ports"
)

// rows taken by the title, tabs, preview and help line
const browserChrome = 14

// BrowserKeyMap defines key bindings for the browser view
type BrowserKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	Home     key.Binding
	End      key.Binding
	Switch   key.Binding
	Enter    key.Binding
	Edit     key.Binding
	Copy     key.Binding
	Reload   key.Binding
	Search   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("h", "left", "pgup"),
		key.WithHelp("h/←", "prev page"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("l", "right", "pgdown"),
		key.WithHelp("l/→", "next page"),
	),
	Home: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "first"),
	),
	End: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "last"),
	),
	Switch: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "train/test"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "show label"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit label"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy path"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// BrowserModel lists the train and test partitions and previews labels
type BrowserModel struct {
	ViewState

	repo  ports.DatasetRepository
	ratio float64
	copy  func(string) error

	split     *domain.DatasetSplit
	partition domain.Partition
	pages     map[domain.Partition]*Paginator

	// Label of the image last opened with enter
	preview      *domain.Label
	previewImage domain.ImageRecord
}

// NewBrowserModel creates a new browser model
func NewBrowserModel(repo ports.DatasetRepository, ratio float64) *BrowserModel {
	return &BrowserModel{
		repo:  repo,
		ratio: ratio,
		copy:  clipboard.WriteAll,
		pages: map[domain.Partition]*Paginator{
			domain.PartitionTrain: NewPaginator(10),
			domain.PartitionTest:  NewPaginator(10),
		},
	}
}

// Init initializes the browser
func (m *BrowserModel) Init() tea.Cmd {
	return m.loadSplit
}

func (m *BrowserModel) loadSplit() tea.Msg {
	split, err := commands.NewSplitCommand(m.repo, m.ratio).Execute(context.Background())
	if err != nil {
		return errMsg{err}
	}
	return splitLoadedMsg{split}
}

type splitLoadedMsg struct {
	split *domain.DatasetSplit
}

type labelLoadedMsg struct {
	image domain.ImageRecord
	label *domain.Label
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case splitLoadedMsg:
		m.split = msg.split
		for p, pager := range m.pages {
			pager.SetTotal(len(m.split.Images(p)))
		}
		return m, nil

	case labelLoadedMsg:
		m.preview = msg.label
		m.previewImage = msg.image
		if msg.label.Record.Ambiguous {
			m.SetMessage(fmt.Sprintf("%d labels match, showing %s", len(msg.label.Record.Candidates), msg.label.Record.Filename), true)
		}
		return m, nil

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case tea.KeyMsg:
		m.ClearMessage()
		pager := m.pages[m.partition]

		switch {
		case key.Matches(msg, BrowserKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, BrowserKeys.Up):
			pager.CursorUp()
			return m, nil

		case key.Matches(msg, BrowserKeys.Down):
			pager.CursorDown()
			return m, nil

		case key.Matches(msg, BrowserKeys.PrevPage):
			pager.PrevPage()
			return m, nil

		case key.Matches(msg, BrowserKeys.NextPage):
			pager.NextPage()
			return m, nil

		case key.Matches(msg, BrowserKeys.Home):
			pager.Home()
			return m, nil

		case key.Matches(msg, BrowserKeys.End):
			pager.End()
			return m, nil

		case key.Matches(msg, BrowserKeys.Switch):
			if m.partition == domain.PartitionTrain {
				m.partition = domain.PartitionTest
			} else {
				m.partition = domain.PartitionTrain
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Enter):
			if img, ok := m.Selected(); ok {
				return m, m.loadLabel(img)
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Edit):
			if img, ok := m.Selected(); ok {
				return m, m.editLabel(img)
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Copy):
			if img, ok := m.Selected(); ok {
				if err := m.copy(img.Path); err != nil {
					m.SetMessage(fmt.Sprintf("failed to copy path: %v", err), true)
				} else {
					m.SetMessage("Copied "+img.Path, false)
				}
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Reload):
			return m, m.Reload()

		case key.Matches(msg, BrowserKeys.Search):
			return m, func() tea.Msg {
				return SwitchToSearchMsg{}
			}

		case key.Matches(msg, BrowserKeys.Help):
			return m, func() tea.Msg {
				return SwitchToHelpMsg{}
			}
		}
	}

	return m, nil
}

func (m *BrowserModel) loadLabel(img domain.ImageRecord) tea.Cmd {
	return func() tea.Msg {
		label, err := commands.NewParseLabelCommand(m.repo, img.Filename).Execute(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return labelLoadedMsg{image: img, label: label}
	}
}

func (m *BrowserModel) editLabel(img domain.ImageRecord) tea.Cmd {
	return func() tea.Msg {
		record, err := commands.NewFindLabelCommand(m.repo, m.repo.StemOf(img.Filename)).Execute(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return OpenEditorMsg{Path: record.Path}
	}
}

// Selected returns the image under the cursor in the active partition
func (m *BrowserModel) Selected() (domain.ImageRecord, bool) {
	if m.split == nil {
		return domain.ImageRecord{}, false
	}
	images := m.split.Images(m.partition)
	cursor := m.pages[m.partition].Cursor()
	if cursor < 0 || cursor >= len(images) {
		return domain.ImageRecord{}, false
	}
	return images[cursor], true
}

// Partition returns the active partition
func (m *BrowserModel) Partition() domain.Partition {
	return m.partition
}

// Focus moves the cursor to filename, switching partition if needed
func (m *BrowserModel) Focus(filename string) bool {
	if m.split == nil {
		return false
	}
	for _, p := range []domain.Partition{domain.PartitionTrain, domain.PartitionTest} {
		for i, img := range m.split.Images(p) {
			if img.Filename == filename {
				m.partition = p
				m.pages[p].SetCursor(i)
				return true
			}
		}
	}
	return false
}

// View renders the browser
func (m *BrowserModel) View() string {
	if m.split == nil {
		if m.Message != "" {
			return styles.App.Render(RenderMessage(m.Message, true))
		}
		return "Loading..."
	}

	v := NewViewBuilder().
		Title("labelsplit").
		Subtitle(fmt.Sprintf("%s  ratio %.2f", m.repo.DataPath(), m.split.Ratio)).
		Line(RenderTabs(m.partition, m.split)).
		BlankLine()

	images := m.split.Images(m.partition)
	pager := m.pages[m.partition]
	if len(images) == 0 {
		v.Muted("No images")
	}

	start, end := pager.VisibleRange()
	for i := start; i < end; i++ {
		text := images[i].Filename
		if i == pager.Cursor() {
			v.Line(styles.RowSelected.Render(text))
		} else {
			v.Line(styles.Row.Render(text))
		}
	}
	if pager.TotalPages() > 1 {
		v.Muted(fmt.Sprintf("page %d/%d", pager.CurrentPage(), pager.TotalPages()))
	}

	if m.preview != nil {
		v.BlankLine().
			Line(styles.Preview.Render(
				styles.InputLabel.Render(m.previewImage.Filename+" → "+m.preview.Record.Filename) + "\n" +
					RenderTokens(m.preview.Tokens)))
	}

	return v.BlankLine().
		Message(m.Message, m.MessageErr).
		Help(BrowserKeys.Switch, BrowserKeys.Enter, BrowserKeys.Edit, BrowserKeys.Copy,
			BrowserKeys.Search, BrowserKeys.Help, BrowserKeys.Quit).
		String()
}

// SetSize updates the view dimensions and the page size
func (m *BrowserModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	for _, pager := range m.pages {
		pager.SetPageSize(max(height-browserChrome, 3))
	}
}

// Preview returns the label last opened with enter, or nil
func (m *BrowserModel) Preview() *domain.Label {
	return m.preview
}

// RefreshPreview re-reads the previewed label after it was edited.
// Returns nil when nothing is previewed.
func (m *BrowserModel) RefreshPreview() tea.Cmd {
	if m.preview == nil {
		return nil
	}
	return m.loadLabel(m.previewImage)
}

// Reload re-reads the data directory
func (m *BrowserModel) Reload() tea.Cmd {
	m.split = nil
	m.preview = nil
	return m.loadSplit
}
