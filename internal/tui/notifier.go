package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/pokedex/internal/catalog"
)

// ScreenChangedMsg tells the model to re-read the catalog screen.
type ScreenChangedMsg struct{}

// Notifier is a catalog.Renderer that forwards every render call to a
// running program as a ScreenChangedMsg. Calls before Attach are dropped.
type Notifier struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

var (
	_ catalog.Renderer        = (*Notifier)(nil)
	_ catalog.LoadingRenderer = (*Notifier)(nil)
)

// Attach sets the function used to deliver messages, usually tea.Program.Send.
func (n *Notifier) Attach(send func(tea.Msg)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.send = send
}

func (n *Notifier) notify() {
	n.mu.Lock()
	send := n.send
	n.mu.Unlock()
	if send != nil {
		send(ScreenChangedMsg{})
	}
}

func (n *Notifier) AppendRow(catalog.Row) { n.notify() }
func (n *Notifier) ReplaceRows([]catalog.Row) { n.notify() }
func (n *Notifier) ShowEmpty(string) { n.notify() }
func (n *Notifier) ShowDetail(catalog.Detail) { n.notify() }
func (n *Notifier) ShowSpecies(string) { n.notify() }
func (n *Notifier) ShowEvolution(catalog.Evolution) { n.notify() }
func (n *Notifier) ShowEvolutionUnavailable(string) { n.notify() }
func (n *Notifier) PageLoading(bool) { n.notify() }
