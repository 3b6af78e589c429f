package catalog

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/starford/pokedex/internal/models"
)

// State is the application state shared by every catalog component: the
// collection store, the record cache, the pagination cursor and the selection.
//
// Records are shared by pointer between the store and the cache and are never
// mutated after they are appended.
type State struct {
	mu       sync.RWMutex
	records  []*models.Record
	byID     map[int]int // record ID -> index in records
	cache    map[string]*models.Record
	offset   int
	selected int // record ID, 0 when nothing is selected

	loading   atomic.Bool
	searchGen atomic.Uint64
	detailGen atomic.Uint64
}

// NewState returns an empty state.
func NewState() *State {
	return &State{
		byID:  make(map[int]int),
		cache: make(map[string]*models.Record),
	}
}

// Append adds rec to the collection store unless a record with the same ID
// is already present. It reports whether rec was added.
func (s *State) Append(rec *models.Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[rec.ID]; ok {
		return false
	}
	s.byID[rec.ID] = len(s.records)
	s.records = append(s.records, rec)
	return true
}

// Len returns the number of records in the collection store.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Records returns the collection store in load order.
func (s *State) Records() []*models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Record, len(s.records))
	copy(out, s.records)
	return out
}

// FindByName returns the stored record with the given name.
func (s *State) FindByName(name string) (*models.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// FindByID returns the stored record with the given ID.
func (s *State) FindByID(id int) (*models.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return s.records[i], true
}

// Filter returns the stored records whose name contains sub, in load order.
// sub must already be normalized.
func (s *State) Filter(sub string) []*models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Record
	for _, r := range s.records {
		if strings.Contains(strings.ToLower(r.Name), sub) {
			out = append(out, r)
		}
	}
	return out
}

// Cached returns the cached record for name.
func (s *State) Cached(name string) (*models.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.cache[name]
	return r, ok
}

// CacheRecord stores rec in the record cache. When the collection store holds
// a record with the same ID, that instance is cached instead so both always
// refer to the same value.
func (s *State) CacheRecord(rec *models.Record) *models.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.byID[rec.ID]; ok {
		rec = s.records[i]
	}
	s.cache[rec.Name] = rec
	return rec
}

// Cursor returns the pagination offset of the next page.
func (s *State) Cursor() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.offset
}

func (s *State) advance(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offset += n
}

// Select marks the record with the given ID as the current selection.
func (s *State) Select(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = id
}

// Selected returns the selected record ID.
func (s *State) Selected() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected, s.selected != 0
}

// IsSelected reports whether id is the current selection.
func (s *State) IsSelected(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected != 0 && s.selected == id
}

// Loading reports whether a page load is in flight.
func (s *State) Loading() bool {
	return s.loading.Load()
}
