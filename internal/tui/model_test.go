package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/pokedex/internal/catalog"
	"github.com/starford/pokedex/internal/pokeapi"
	"github.com/starford/pokedex/internal/testutil"
)

func newTestModel(t *testing.T) (Model, *catalog.Catalog) {
	t.Helper()
	api := testutil.NewFakeAPI(t)
	api.AddRecord(1, "bulbasaur")
	api.AddRecord(2, "ivysaur")
	api.AddRecord(3, "venusaur")
	api.AddChain(1, "bulbasaur", "ivysaur", "venusaur")
	api.AddUnlistedRecord(150, "mewtwo")

	settings := catalog.DefaultSettings()
	settings.ScrollThreshold = RowThreshold
	// Keep the scroll trigger out of the way; tests load pages explicitly.
	settings.ScrollDebounce = time.Hour
	cat := catalog.New(pokeapi.New(api.URL()), nil, settings)
	t.Cleanup(cat.Close)
	return NewModel(context.Background(), cat), cat
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loadedModel(t *testing.T) (Model, *catalog.Catalog) {
	t.Helper()
	m, cat := newTestModel(t)
	msg := m.loadPageCmd()()
	loaded, ok := msg.(PageLoadedMsg)
	require.True(t, ok)
	require.NoError(t, loaded.Err)
	m, _ = update(t, m, msg)
	m, _ = update(t, m, ScreenChangedMsg{})
	return m, cat
}

func TestNewModel(t *testing.T) {
	m, _ := newTestModel(t)

	assert.Equal(t, defaultWidth, m.width)
	assert.Equal(t, defaultHeight, m.height)
	assert.False(t, m.searching)
	assert.Empty(t, m.snap.Rows)
	assert.NotNil(t, m.Init())
	assert.Contains(t, m.View(), "Nothing loaded yet.")
}

func TestModel_LoadsRows(t *testing.T) {
	m, _ := loadedModel(t)

	require.Len(t, m.snap.Rows, 3)
	view := m.View()
	assert.Contains(t, view, "#001 Bulbasaur")
	assert.Contains(t, view, "#003 Venusaur")
	assert.Contains(t, view, "3 loaded")
}

func TestModel_PageFailureStatus(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, PageLoadedMsg{Err: assert.AnError})
	assert.Contains(t, m.View(), "Could not load more Pokémon")
}

func TestModel_CursorMovement(t *testing.T) {
	m, _ := loadedModel(t)

	m, _ = update(t, m, key("down"))
	m, _ = update(t, m, key("j"))
	assert.Equal(t, 2, m.cursor)

	// Clamped at the last row.
	m, _ = update(t, m, key("down"))
	assert.Equal(t, 2, m.cursor)

	m, _ = update(t, m, key("k"))
	assert.Equal(t, 1, m.cursor)

	m, _ = update(t, m, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	assert.Equal(t, 0, m.cursor)
}

func TestModel_ViewportInRows(t *testing.T) {
	m, _ := loadedModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: chromeHeight + 2})

	require.Equal(t, minListRows, m.listHeight())
	m, _ = update(t, m, key("down"))
	m, _ = update(t, m, key("down"))
	v := m.viewport()
	assert.Equal(t, catalog.Viewport{ScrollTop: 0, ClientHeight: 3, ScrollHeight: 3}, v)
	assert.True(t, v.NearBottom(RowThreshold))
}

func TestModel_EnterShowsDetails(t *testing.T) {
	m, cat := loadedModel(t)

	m, _ = update(t, m, key("down"))
	m, cmd := update(t, m, key("enter"))
	require.NotNil(t, cmd)

	msg := cmd()
	done, ok := msg.(DetailDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)
	assert.Equal(t, "Ivysaur", done.Result.Detail.Name)

	m, _ = update(t, m, msg)
	m, _ = update(t, m, ScreenChangedMsg{})
	view := m.View()
	assert.Contains(t, view, "Ivysaur #002")
	assert.Contains(t, view, "Seed Pokémon")
	assert.Contains(t, view, "Overgrow, Solar Power")

	id, ok := cat.State.Selected()
	assert.True(t, ok)
	assert.Equal(t, 2, id)
}

func TestModel_Search(t *testing.T) {
	m, _ := loadedModel(t)

	m, _ = update(t, m, key("/"))
	require.True(t, m.searching)

	for _, r := range "ivy" {
		m, _ = update(t, m, key(string(r)))
	}
	assert.Equal(t, "ivy", m.search.Value())

	msg := m.searchCmd(m.search.Value())()
	done, ok := msg.(SearchDoneMsg)
	require.True(t, ok)
	require.Len(t, done.Result.Rows, 1)

	m, _ = update(t, m, msg)
	m, _ = update(t, m, ScreenChangedMsg{})
	assert.Len(t, m.snap.Rows, 1)
	assert.Contains(t, m.View(), "#002 Ivysaur")

	// q is text while searching.
	m, cmd := update(t, m, key("q"))
	assert.Equal(t, "ivyq", m.search.Value())
	if cmd != nil {
		_, isQuit := cmd().(tea.QuitMsg)
		assert.False(t, isQuit)
	}

	m, _ = update(t, m, key("esc"))
	assert.False(t, m.searching)
}

func TestModel_SearchNoResults(t *testing.T) {
	m, _ := loadedModel(t)

	msg := m.searchCmd("missingno")()
	m, _ = update(t, m, msg)
	m, _ = update(t, m, ScreenChangedMsg{})
	assert.Contains(t, m.View(), catalog.NoResults)
}

func TestModel_Quit(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			m, _ := newTestModel(t)
			_, cmd := update(t, m, key(k))
			require.NotNil(t, cmd)
			_, ok := cmd().(tea.QuitMsg)
			assert.True(t, ok)
		})
	}
}

func TestNotifier(t *testing.T) {
	var (
		mu   sync.Mutex
		msgs []tea.Msg
	)
	n := &Notifier{}
	n.AppendRow(catalog.Row{}) // dropped before Attach

	n.Attach(func(msg tea.Msg) {
		mu.Lock()
		defer mu.Unlock()
		msgs = append(msgs, msg)
	})
	n.ShowDetail(catalog.Detail{})
	n.ShowSpecies("x")
	n.PageLoading(true)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, msgs, 3)
	assert.IsType(t, ScreenChangedMsg{}, msgs[0])
}
