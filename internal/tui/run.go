package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/pokedex/internal/catalog"
)

// Run starts the terminal UI and blocks until the user quits or ctx is done.
// n must be the renderer cat was built with.
func Run(ctx context.Context, cat *catalog.Catalog, n *Notifier) error {
	p := tea.NewProgram(NewModel(ctx, cat),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	n.Attach(p.Send)
	defer n.Attach(nil)

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
