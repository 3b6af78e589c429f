package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/starford/pokedex/internal/catalog"
)

const listPaneWidth = 28

// View renders the model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Pokédex"))
	b.WriteString("\n")
	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
	} else {
		b.WriteString(HelpStyle.Render("press / to search"))
	}
	b.WriteString("\n")

	detailWidth := m.width - listPaneWidth - 4
	if detailWidth < 20 {
		detailWidth = 20
	}
	list := PaneStyle.Width(listPaneWidth).Height(m.listHeight()).Render(m.renderList())
	detail := PaneStyle.Width(detailWidth).Height(m.listHeight()).Render(m.renderDetail())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, detail))
	b.WriteString("\n")

	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderList() string {
	if m.snap.Empty != "" {
		return MutedStyle.Render(m.snap.Empty)
	}
	if len(m.snap.Rows) == 0 {
		return MutedStyle.Render("Nothing loaded yet.")
	}

	end := m.offset + m.listHeight()
	if end > len(m.snap.Rows) {
		end = len(m.snap.Rows)
	}
	lines := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.renderRow(m.snap.Rows[i], i == m.cursor))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRow(r catalog.Row, atCursor bool) string {
	marker := "  "
	if atCursor {
		marker = CursorStyle.Render("> ")
	}
	text := fmt.Sprintf("%s %s", r.Code, r.Name)
	if r.Selected {
		text = SelectedStyle.Render(text)
	}
	return marker + text
}

func (m Model) renderDetail() string {
	d := m.snap.Detail
	if d == nil {
		return MutedStyle.Render("Select a Pokémon and press enter.")
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("%s #%03d", d.Name, d.ID)))
	b.WriteString("\n\n")
	field := func(label, value string) {
		b.WriteString(LabelStyle.Render(label + ": "))
		b.WriteString(ValueStyle.Render(value))
		b.WriteString("\n")
	}
	field("Types", strings.Join(d.Types, " / "))
	field("Weight", d.Weight)
	field("Height", d.Height)
	field("Abilities", d.Abilities)
	field("Species", d.Species)

	b.WriteString("\n")
	b.WriteString(LabelStyle.Render("Evolution"))
	b.WriteString("\n")
	switch {
	case m.snap.Evolution != nil:
		b.WriteString(renderEvolution(*m.snap.Evolution))
	case m.snap.EvolutionMessage != "":
		b.WriteString(MutedStyle.Render(m.snap.EvolutionMessage))
	default:
		b.WriteString(MutedStyle.Render(catalog.SpeciesLoading))
	}
	return b.String()
}

// renderEvolution shows loaded members in bold and the rest muted.
func renderEvolution(e catalog.Evolution) string {
	parts := make([]string, 0, len(e.Nodes))
	for _, n := range e.Nodes {
		switch {
		case n.Kind == catalog.NodeArrow:
			parts = append(parts, HelpStyle.Render(" "+n.Text+" "))
		case n.Image != "":
			parts = append(parts, LoadedStyle.Render(n.Name))
		default:
			parts = append(parts, MutedStyle.Render(n.Name))
		}
	}
	return strings.Join(parts, "")
}

func (m Model) renderFooter() string {
	var status string
	switch {
	case m.snap.Loading:
		status = m.spinner.View() + " Loading more Pokémon..."
	case m.status != "":
		status = m.status
	default:
		status = fmt.Sprintf("%d loaded", m.cat.State.Len())
	}
	help := HelpStyle.Render("↑/↓ move • enter details • / search • q quit")
	return status + "\n" + help
}
