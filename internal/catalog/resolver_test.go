package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/pokedex/internal/apperr"
	"github.com/starford/pokedex/internal/models"
)

func loaded(t *testing.T, src *fakeSource) *Catalog {
	t.Helper()
	c := New(src, nil, testSettings())
	if _, err := c.Loader.LoadNextPage(context.Background()); err != nil {
		t.Fatalf("LoadNextPage: %v", err)
	}
	return c
}

func TestShowDetails_FullResolution(t *testing.T) {
	src := newFakeSource()
	src.add(1, "bulbasaur")
	src.add(2, "ivysaur")
	src.add(3, "venusaur")
	src.chain("bulbasaur", "ivysaur", "venusaur")
	c := loaded(t, src)

	res, err := c.Resolver.ShowByName(context.Background(), "ivysaur")
	if err != nil {
		t.Fatal(err)
	}
	if res.FromCache {
		t.Error("first view should not come from cache")
	}

	snap := c.Screen.Snapshot()
	want := &Detail{
		ID:        2,
		Name:      "Ivysaur",
		Image:     "art/2.png",
		Types:     []string{"Grass"},
		Weight:    "6.9 kg",
		Height:    "0.7 m",
		Abilities: "Overgrow",
		Species:   "Seed Pokémon",
	}
	if diff := cmp.Diff(want, snap.Detail); diff != "" {
		t.Errorf("detail mismatch (-want +got):\n%s", diff)
	}
	if snap.Evolution == nil || len(snap.Evolution.Items()) != 3 || snap.Evolution.Arrows() != 2 {
		t.Fatalf("evolution = %+v", snap.Evolution)
	}
	for i, it := range snap.Evolution.Items() {
		if it.Image == "" {
			t.Errorf("item %d (%s) has no image", i, it.Name)
		}
	}

	id, ok := c.State.Selected()
	if !ok || id != 2 {
		t.Errorf("selected = %d, %v", id, ok)
	}
	for _, r := range snap.Rows {
		if r.Selected != (r.ID == 2) {
			t.Errorf("row %d selected = %v", r.ID, r.Selected)
		}
	}
}

func TestShowDetails_EvolutionOnlyLoadedHaveImages(t *testing.T) {
	src := newFakeSource()
	src.add(2, "b")
	src.chain("a", "b", "c")
	c := loaded(t, src)

	res, err := c.Resolver.ShowByName(context.Background(), "b")
	if err != nil {
		t.Fatal(err)
	}
	want := &Evolution{Nodes: []EvolutionNode{
		{Kind: NodeItem, Name: "A"},
		{Kind: NodeArrow, Text: EvolutionArrow},
		{Kind: NodeItem, Name: "B", Image: "art/2.png"},
		{Kind: NodeArrow, Text: EvolutionArrow},
		{Kind: NodeItem, Name: "C"},
	}}
	if diff := cmp.Diff(want, res.Evolution); diff != "" {
		t.Errorf("evolution mismatch (-want +got):\n%s", diff)
	}
	if got := len(res.Evolution.Items()); got != 3 {
		t.Errorf("items = %d, want 3", got)
	}
	if got := res.Evolution.Arrows(); got != 2 {
		t.Errorf("arrows = %d, want 2", got)
	}
}

func TestShowDetails_SpeciesFailure(t *testing.T) {
	src := newFakeSource()
	src.add(1, "bulbasaur")
	src.chain("bulbasaur")
	src.failSpecies["bulbasaur"] = true
	c := loaded(t, src)

	res, _ := c.Resolver.ShowByName(context.Background(), "bulbasaur")
	snap := c.Screen.Snapshot()
	if snap.Detail.Species != SpeciesUnknown {
		t.Errorf("species = %q, want %q", snap.Detail.Species, SpeciesUnknown)
	}
	if snap.Detail.Species == SpeciesLoading {
		t.Error("species must not stay on the loading text")
	}
	if snap.EvolutionMessage != EvolutionUnavailable || snap.Evolution != nil {
		t.Errorf("evolution = %+v / %q", snap.Evolution, snap.EvolutionMessage)
	}
	if res.Detail.Species != SpeciesUnknown {
		t.Errorf("result species = %q", res.Detail.Species)
	}
}

func TestShowDetails_MissingEnglishGenus(t *testing.T) {
	src := newFakeSource()
	src.add(1, "bulbasaur")
	src.chain("bulbasaur")
	src.species["bulbasaur"].Genera = src.species["bulbasaur"].Genera[:1]
	c := loaded(t, src)

	_, _ = c.Resolver.ShowByName(context.Background(), "bulbasaur")
	snap := c.Screen.Snapshot()
	if snap.Detail.Species != SpeciesUnknown {
		t.Errorf("species = %q, want %q", snap.Detail.Species, SpeciesUnknown)
	}
	if snap.Evolution == nil {
		t.Error("evolution should still load without an English genus")
	}
}

func TestShowDetails_EvolutionFailure(t *testing.T) {
	src := newFakeSource()
	src.add(1, "bulbasaur")
	src.chain("bulbasaur")
	src.failChain["chain/bulbasaur"] = true
	c := loaded(t, src)

	res, _ := c.Resolver.ShowByName(context.Background(), "bulbasaur")
	snap := c.Screen.Snapshot()
	if snap.Detail.Species != "Seed Pokémon" {
		t.Errorf("species = %q", snap.Detail.Species)
	}
	if snap.EvolutionMessage != EvolutionUnavailable {
		t.Errorf("evolution message = %q", snap.EvolutionMessage)
	}
	if res.Evolution != nil {
		t.Error("result should carry no evolution")
	}
}

func TestShowDetails_CacheHoldsStoreInstance(t *testing.T) {
	src := newFakeSource()
	src.add(1, "bulbasaur")
	src.chain("bulbasaur")
	c := loaded(t, src)

	stored, _ := c.State.FindByName("bulbasaur")
	// A field-equal copy, as a caller holding a stale value would pass.
	cp := *stored
	res := c.Resolver.ShowDetails(context.Background(), &cp)
	if res.FromCache {
		t.Error("first view should miss the cache")
	}
	cached, ok := c.State.Cached("bulbasaur")
	if !ok {
		t.Fatal("record not cached")
	}
	if cached != stored {
		t.Error("cache must hold the collection store instance")
	}

	res = c.Resolver.ShowDetails(context.Background(), stored)
	if !res.FromCache {
		t.Error("second view should hit the cache")
	}
}

func TestShowByName_Unknown(t *testing.T) {
	c := New(newFakeSource(), nil, testSettings())
	_, err := c.Resolver.ShowByName(context.Background(), "nobody")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestShowDetails_SupersededViewIsNotRendered(t *testing.T) {
	src := newFakeSource()
	src.add(1, "bulbasaur")
	src.add(4, "charmander")
	src.chain("bulbasaur")
	src.chain("charmander")
	src.species["charmander"].Genera[1].Genus = "Lizard Pokémon"
	gate := make(chan struct{})
	src.speciesGate["bulbasaur"] = gate
	c := loaded(t, src)

	first := make(chan DetailResult, 1)
	go func() {
		res, _ := c.Resolver.ShowByName(context.Background(), "bulbasaur")
		first <- res
	}()
	// Wait for the first view to render before starting the second.
	waitFor(t, func() bool {
		d := c.Screen.Snapshot().Detail
		return d != nil && d.ID == 1
	})

	if _, err := c.Resolver.ShowByName(context.Background(), "charmander"); err != nil {
		t.Fatal(err)
	}
	close(gate)
	res := <-first

	if !res.Superseded {
		t.Error("first view should be superseded")
	}
	snap := c.Screen.Snapshot()
	if snap.Detail.ID != 4 || snap.Detail.Species != "Lizard Pokémon" {
		t.Errorf("screen detail = %+v, want charmander", snap.Detail)
	}
	if snap.Evolution == nil {
		t.Fatal("evolution missing")
	}
	if items := snap.Evolution.Items(); len(items) != 1 || items[0].Name != "Charmander" {
		t.Errorf("evolution = %+v", snap.Evolution)
	}
}

func TestChainNames(t *testing.T) {
	link := func(name string, next ...models.ChainLink) models.ChainLink {
		return models.ChainLink{Species: models.NamedResource{Name: name}, EvolvesTo: next}
	}

	tests := []struct {
		name string
		root models.ChainLink
		want []string
	}{
		{"single", link("ditto"), []string{"ditto"}},
		{"linear", link("a", link("b", link("c"))), []string{"a", "b", "c"}},
		{"branching follows first child", link("eevee", link("vaporeon"), link("jolteon")), []string{"eevee", "vaporeon"}},
		{"repeated name stops", link("a", link("b", link("a", link("b")))), []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ChainNames(&tt.root)); diff != "" {
				t.Errorf("names mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestChainNames_DepthBound(t *testing.T) {
	root := models.ChainLink{Species: models.NamedResource{Name: "n0"}}
	cur := &root
	for i := 1; i < 3*MaxEvolutionDepth; i++ {
		cur.EvolvesTo = []models.ChainLink{{Species: models.NamedResource{Name: fmt.Sprintf("n%d", i)}}}
		cur = &cur.EvolvesTo[0]
	}
	if got := len(ChainNames(&root)); got != MaxEvolutionDepth {
		t.Errorf("len = %d, want %d", got, MaxEvolutionDepth)
	}
}
