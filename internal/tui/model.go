// Package tui is the terminal front-end: a Bubble Tea program over a catalog.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/pokedex/internal/apperr"
	"github.com/starford/pokedex/internal/catalog"
)

// RowThreshold is the scroll trigger distance, in rows, for the terminal list.
const RowThreshold = 3

const (
	defaultWidth  = 100
	defaultHeight = 30
	// chromeHeight covers the title, search line, pane borders and footer.
	chromeHeight = 7
	minListRows  = 3
)

// PageLoadedMsg reports the outcome of a page load.
type PageLoadedMsg struct {
	Result catalog.PageResult
	Err    error
}

// SearchDoneMsg reports a finished search.
type SearchDoneMsg struct {
	Result catalog.SearchResult
}

// DetailDoneMsg reports a finished detail view.
type DetailDoneMsg struct {
	Result catalog.DetailResult
	Err    error
}

// Model is the Bubble Tea model of the Pokédex browser.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type Model struct {
	ctx context.Context
	cat *catalog.Catalog

	snap   catalog.ScreenState
	cursor int
	offset int

	width  int
	height int

	search    textinput.Model
	searching bool
	spinner   spinner.Model

	status string
}

// NewModel creates a model over cat. ctx bounds the catalog calls it starts.
func NewModel(ctx context.Context, cat *catalog.Catalog) Model {
	ti := textinput.New()
	ti.Placeholder = "Search Pokémon"
	ti.Prompt = "/ "
	ti.CharLimit = 64

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = CursorStyle

	return Model{
		ctx:     ctx,
		cat:     cat,
		snap:    cat.Screen.Snapshot(),
		width:   defaultWidth,
		height:  defaultHeight,
		search:  ti,
		spinner: sp,
	}
}

// Init loads the first page and starts the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadPageCmd(), m.spinner.Tick)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clamp()
		return m, nil

	case ScreenChangedMsg:
		m.snap = m.cat.Screen.Snapshot()
		m.clamp()
		return m, nil

	case PageLoadedMsg:
		switch {
		case msg.Err == nil:
			m.status = ""
		case errors.Is(msg.Err, apperr.ErrPageInFlight):
		default:
			m.status = "Could not load more Pokémon. Scroll to retry."
		}
		return m, nil

	case DetailDoneMsg:
		if msg.Err != nil {
			m.status = "Pokémon not loaded."
		}
		return m, nil

	case SearchDoneMsg:
		m.cursor, m.offset = 0, 0
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.searching {
			return m.handleSearchKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "pgup":
		m.move(-m.listHeight())
	case "pgdown":
		m.move(m.listHeight())
	case "home", "g":
		m.move(-len(m.snap.Rows))
	case "end", "G":
		m.move(len(m.snap.Rows))
	case "enter":
		if row, ok := m.currentRow(); ok {
			return m, m.showCmd(row)
		}
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	prev := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := m.search.Value(); q != prev {
		return m, tea.Batch(cmd, m.searchCmd(q))
	}
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.move(-1)
	case tea.MouseButtonWheelDown:
		m.move(1)
	}
	return m, nil
}

// move shifts the cursor by delta rows and reports the new viewport to the
// scroll trigger.
func (m *Model) move(delta int) {
	m.cursor += delta
	m.clamp()
	m.cat.Scroll.OnScroll(m.ctx, m.viewport())
}

func (m *Model) clamp() {
	n := len(m.snap.Rows)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if m.offset > n-h {
		m.offset = n - h
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// viewport describes the list in rows for the scroll trigger.
func (m Model) viewport() catalog.Viewport {
	return catalog.Viewport{
		ScrollTop:    m.offset,
		ClientHeight: m.listHeight(),
		ScrollHeight: len(m.snap.Rows),
	}
}

func (m Model) listHeight() int {
	h := m.height - chromeHeight
	if h < minListRows {
		return minListRows
	}
	return h
}

func (m Model) currentRow() (catalog.Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.snap.Rows) {
		return catalog.Row{}, false
	}
	return m.snap.Rows[m.cursor], true
}

func (m Model) loadPageCmd() tea.Cmd {
	return func() tea.Msg {
		res, err := m.cat.Loader.LoadNextPage(m.ctx)
		return PageLoadedMsg{Result: res, Err: err}
	}
}

func (m Model) searchCmd(q string) tea.Cmd {
	return func() tea.Msg {
		return SearchDoneMsg{Result: m.cat.Searcher.Search(m.ctx, q)}
	}
}

func (m Model) showCmd(row catalog.Row) tea.Cmd {
	rec, ok := m.cat.State.FindByID(row.ID)
	return func() tea.Msg {
		if !ok {
			return DetailDoneMsg{Err: apperr.ErrNotFound}
		}
		return DetailDoneMsg{Result: m.cat.Resolver.ShowDetails(m.ctx, rec)}
	}
}
