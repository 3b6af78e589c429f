// Package testutil provides a fake PokeAPI server for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/starford/pokedex/internal/models"
)

// FakeAPI is an in-memory PokeAPI served over httptest.
type FakeAPI struct {
	Server *httptest.Server

	mu          sync.Mutex
	order       []string
	records     map[string]*models.Record
	species     map[string]*models.Species
	chains      map[int]*models.EvolutionChain
	failList    bool
	failRecord  map[string]bool
	failSpecies map[string]bool
	failChain   map[int]bool
	hits        map[string]int
	listHold    chan struct{}
	listArrived chan struct{}
}

// NewFakeAPI starts a fake server that is closed on test cleanup.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()
	f := &FakeAPI{
		records:     make(map[string]*models.Record),
		species:     make(map[string]*models.Species),
		chains:      make(map[int]*models.EvolutionChain),
		failRecord:  make(map[string]bool),
		failSpecies: make(map[string]bool),
		failChain:   make(map[int]bool),
		hits:        make(map[string]int),
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the API root.
func (f *FakeAPI) URL() string {
	return f.Server.URL
}

// AddRecord registers a record listed in insertion order. Its species shares its name.
func (f *FakeAPI) AddRecord(id int, name string) *models.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := &models.Record{
		ID:   id,
		Name: name,
		Sprites: models.Sprites{
			FrontDefault: fmt.Sprintf("%s/sprites/%d.png", f.Server.URL, id),
			Other: models.OtherSprites{
				OfficialArtwork: models.Artwork{FrontDefault: fmt.Sprintf("%s/artwork/%d.png", f.Server.URL, id)},
			},
		},
		Types: []models.TypeSlot{
			{Slot: 1, Type: models.NamedResource{Name: "grass"}},
			{Slot: 2, Type: models.NamedResource{Name: "poison"}},
		},
		Abilities: []models.AbilitySlot{
			{Slot: 1, Ability: models.NamedResource{Name: "overgrow"}},
			{Slot: 3, IsHidden: true, Ability: models.NamedResource{Name: "solar-power"}},
		},
		Weight:  69,
		Height:  7,
		Species: models.NamedResource{Name: name, URL: f.Server.URL + "/pokemon-species/" + name + "/"},
	}
	f.order = append(f.order, name)
	f.records[name] = rec
	return rec
}

// AddUnlistedRecord registers a record reachable only by direct name lookup.
func (f *FakeAPI) AddUnlistedRecord(id int, name string) *models.Record {
	rec := f.AddRecord(id, name)
	f.mu.Lock()
	f.order = f.order[:len(f.order)-1]
	f.mu.Unlock()
	return rec
}

// AddChain registers a linear evolution chain and an English species entry for every name.
func (f *FakeAPI) AddChain(id int, names ...string) {
	var link *models.ChainLink
	for i := len(names) - 1; i >= 0; i-- {
		next := models.ChainLink{Species: models.NamedResource{Name: names[i]}, EvolvesTo: []models.ChainLink{}}
		if link != nil {
			next.EvolvesTo = []models.ChainLink{*link}
		}
		link = &next
	}
	chain := &models.EvolutionChain{ID: id}
	if link != nil {
		chain.Chain = *link
	}
	f.SetChain(chain)
	for _, n := range names {
		f.SetSpecies(n, "Seed Pokémon", id)
	}
}

// SetChain registers an arbitrary evolution chain.
func (f *FakeAPI) SetChain(chain *models.EvolutionChain) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chains[chain.ID] = chain
}

// SetSpecies registers a species with an English genus pointing at chain chainID.
func (f *FakeAPI) SetSpecies(name, genus string, chainID int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sp := &models.Species{
		Name: name,
		Genera: []models.Genus{
			{Genus: "Pokémon Graine", Language: models.NamedResource{Name: "fr"}},
		},
		EvolutionChain: models.ResourceRef{URL: fmt.Sprintf("%s/evolution-chain/%d/", f.Server.URL, chainID)},
	}
	if genus != "" {
		sp.Genera = append(sp.Genera, models.Genus{Genus: genus, Language: models.NamedResource{Name: "en"}})
	}
	f.species[name] = sp
}

// FailList makes list requests fail with 500.
func (f *FakeAPI) FailList(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failList = fail
}

// FailRecord makes detail requests for name fail with 500.
func (f *FakeAPI) FailRecord(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failRecord[name] = true
}

// FailSpecies makes species requests for name fail with 500.
func (f *FakeAPI) FailSpecies(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failSpecies[name] = true
}

// FailChain makes evolution chain requests for id fail with 500.
func (f *FakeAPI) FailChain(id int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failChain[id] = true
}

// HoldList blocks list requests until release is called. arrived receives
// once per list request that is being held.
func (f *FakeAPI) HoldList() (arrived <-chan struct{}, release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	hold := make(chan struct{})
	in := make(chan struct{}, 16)
	f.listHold = hold
	f.listArrived = in
	var once sync.Once
	return in, func() { once.Do(func() { close(hold) }) }
}

// Hits returns how many requests reached path (query string excluded).
func (f *FakeAPI) Hits(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *FakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.hits[r.URL.Path]++
	f.mu.Unlock()

	path := strings.Trim(r.URL.Path, "/")
	parts := strings.Split(path, "/")

	switch {
	case path == "pokemon":
		f.serveList(w, r)
	case len(parts) == 2 && parts[0] == "pokemon":
		f.serveRecord(w, parts[1])
	case len(parts) == 2 && parts[0] == "pokemon-species":
		f.serveSpecies(w, parts[1])
	case len(parts) == 2 && parts[0] == "evolution-chain":
		f.serveChain(w, parts[1])
	default:
		http.NotFound(w, r)
	}
}

func (f *FakeAPI) serveList(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	hold, arrived := f.listHold, f.listArrived
	f.mu.Unlock()
	if hold != nil {
		arrived <- struct{}{}
		<-hold
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList {
		http.Error(w, "boom", http.StatusInternalServerError)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	page := models.Page{Count: len(f.order), Results: []models.NamedResource{}}
	for i := offset; i < offset+limit && i < len(f.order); i++ {
		rec := f.records[f.order[i]]
		page.Results = append(page.Results, models.NamedResource{
			Name: rec.Name,
			URL:  fmt.Sprintf("%s/pokemon/%d/", f.Server.URL, rec.ID),
		})
	}
	writeJSON(w, page)
}

func (f *FakeAPI) serveRecord(w http.ResponseWriter, key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[key]
	if !ok {
		if id, err := strconv.Atoi(key); err == nil {
			for _, r := range f.records {
				if r.ID == id {
					rec, ok = r, true
					break
				}
			}
		}
	}
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	if f.failRecord[rec.Name] {
		http.Error(w, "boom", http.StatusInternalServerError)
		return
	}
	writeJSON(w, rec)
}

func (f *FakeAPI) serveSpecies(w http.ResponseWriter, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSpecies[name] {
		http.Error(w, "boom", http.StatusInternalServerError)
		return
	}
	sp, ok := f.species[name]
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	writeJSON(w, sp)
}

func (f *FakeAPI) serveChain(w http.ResponseWriter, key string) {
	id, _ := strconv.Atoi(key)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failChain[id] {
		http.Error(w, "boom", http.StatusInternalServerError)
		return
	}
	ch, ok := f.chains[id]
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	writeJSON(w, ch)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
