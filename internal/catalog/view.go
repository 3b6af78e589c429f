package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/starford/pokedex/internal/models"
)

// Placeholder and fallback texts shown to the user.
const (
	SpeciesLoading        = "Loading..."
	SpeciesUnknown        = "Unknown"
	EvolutionUnavailable  = "No evolution data available"
	NoResults             = "No Pokémon found."
	EvolutionArrow        = "→"
	DefaultArtworkURLTmpl = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/other/official-artwork/%d.png"
)

// MaxEvolutionDepth bounds the evolution chain walk.
const MaxEvolutionDepth = 16

// Row is the presentation model of one list entry.
type Row struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	Sprite   string `json:"sprite"`
	Selected bool   `json:"selected"`
}

// Detail is the presentation model of the detail view.
type Detail struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Image     string   `json:"image"`
	Types     []string `json:"types"`
	Weight    string   `json:"weight"`
	Height    string   `json:"height"`
	Abilities string   `json:"abilities"`
	Species   string   `json:"species"`
}

// NodeKind distinguishes evolution items from separators.
type NodeKind string

const (
	NodeItem  NodeKind = "item"
	NodeArrow NodeKind = "arrow"
)

// EvolutionNode is one element of a rendered evolution sequence.
type EvolutionNode struct {
	Kind  NodeKind `json:"kind"`
	Name  string   `json:"name,omitempty"`
	Image string   `json:"image,omitempty"`
	Text  string   `json:"text,omitempty"`
}

// Evolution is the presentation model of an evolution sequence.
type Evolution struct {
	Nodes []EvolutionNode `json:"nodes"`
}

// Items returns the item nodes in order.
func (e Evolution) Items() []EvolutionNode {
	var out []EvolutionNode
	for _, n := range e.Nodes {
		if n.Kind == NodeItem {
			out = append(out, n)
		}
	}
	return out
}

// Arrows returns the number of arrow separators.
func (e Evolution) Arrows() int {
	n := 0
	for _, node := range e.Nodes {
		if node.Kind == NodeArrow {
			n++
		}
	}
	return n
}

// DisplayName turns an API slug into a human-readable name.
func DisplayName(slug string) string {
	// A Caser keeps state between calls, so each call gets its own.
	return cases.Title(language.English).String(slug)
}

// AbilityName turns an ability slug into human-readable words.
func AbilityName(slug string) string {
	return DisplayName(strings.ReplaceAll(slug, "-", " "))
}

// RowView builds the list row for rec.
func RowView(rec *models.Record, selected bool) Row {
	return Row{
		ID:       rec.ID,
		Name:     DisplayName(rec.Name),
		Code:     fmt.Sprintf("#%03d", rec.ID),
		Sprite:   rec.Sprites.FrontDefault,
		Selected: selected,
	}
}

// RowsView builds list rows for recs, keeping their order.
func RowsView(recs []*models.Record, isSelected func(int) bool) []Row {
	rows := make([]Row, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, RowView(r, isSelected != nil && isSelected(r.ID)))
	}
	return rows
}

// DetailView builds the detail view for rec with the species placeholder.
func DetailView(rec *models.Record) Detail {
	types := make([]string, 0, len(rec.Types))
	for _, t := range rec.Types {
		types = append(types, DisplayName(t.Type.Name))
	}
	abilities := make([]string, 0, len(rec.Abilities))
	for _, a := range rec.Abilities {
		abilities = append(abilities, AbilityName(a.Ability.Name))
	}
	return Detail{
		ID:        rec.ID,
		Name:      DisplayName(rec.Name),
		Image:     rec.Sprites.Other.OfficialArtwork.FrontDefault,
		Types:     types,
		Weight:    tenths(rec.Weight) + " kg",
		Height:    tenths(rec.Height) + " m",
		Abilities: strings.Join(abilities, ", "),
		Species:   SpeciesLoading,
	}
}

// SpeciesText returns the species line for sp.
func SpeciesText(sp *models.Species) string {
	genus, ok := sp.EnglishGenus()
	if !ok || genus == "" {
		return SpeciesUnknown
	}
	return DisplayName(genus)
}

// ChainNames walks the primary evolution path from root, following only the
// first "evolves to" child. The walk stops at a repeated name or after
// MaxEvolutionDepth nodes.
func ChainNames(root *models.ChainLink) []string {
	var names []string
	seen := make(map[string]struct{})
	for link := root; link != nil && len(names) < MaxEvolutionDepth; {
		name := link.Species.Name
		if _, dup := seen[name]; dup {
			break
		}
		seen[name] = struct{}{}
		names = append(names, name)
		if len(link.EvolvesTo) == 0 {
			break
		}
		link = &link.EvolvesTo[0]
	}
	return names
}

// EvolutionView renders names as items separated by arrows. A name gets an
// image only when lookup finds a loaded record for it.
func EvolutionView(names []string, lookup func(string) (*models.Record, bool), artworkTmpl string) Evolution {
	if artworkTmpl == "" {
		artworkTmpl = DefaultArtworkURLTmpl
	}
	ev := Evolution{Nodes: make([]EvolutionNode, 0, 2*len(names))}
	for i, name := range names {
		node := EvolutionNode{Kind: NodeItem, Name: DisplayName(name)}
		if rec, ok := lookup(name); ok {
			node.Image = fmt.Sprintf(artworkTmpl, rec.ID)
		}
		ev.Nodes = append(ev.Nodes, node)
		if i < len(names)-1 {
			ev.Nodes = append(ev.Nodes, EvolutionNode{Kind: NodeArrow, Text: EvolutionArrow})
		}
	}
	return ev
}

func tenths(v int) string {
	return strconv.FormatFloat(float64(v)/10, 'f', -1, 64)
}
