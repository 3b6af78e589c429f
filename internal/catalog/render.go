package catalog

import "sync"

// Renderer receives presentation updates. Implementations must be safe for
// concurrent use: rows of one page arrive from parallel fetches.
type Renderer interface {
	AppendRow(Row)
	ReplaceRows([]Row)
	ShowEmpty(message string)
	ShowDetail(Detail)
	ShowSpecies(text string)
	ShowEvolution(Evolution)
	ShowEvolutionUnavailable(message string)
}

// LoadingRenderer is implemented by renderers that show page-load progress.
type LoadingRenderer interface {
	PageLoading(loading bool)
}

// MultiRenderer fans every update out to each renderer in order.
type MultiRenderer []Renderer

func (m MultiRenderer) AppendRow(r Row) {
	for _, x := range m {
		x.AppendRow(r)
	}
}

func (m MultiRenderer) ReplaceRows(rows []Row) {
	for _, x := range m {
		x.ReplaceRows(rows)
	}
}

func (m MultiRenderer) ShowEmpty(msg string) {
	for _, x := range m {
		x.ShowEmpty(msg)
	}
}

func (m MultiRenderer) ShowDetail(d Detail) {
	for _, x := range m {
		x.ShowDetail(d)
	}
}

func (m MultiRenderer) ShowSpecies(text string) {
	for _, x := range m {
		x.ShowSpecies(text)
	}
}

func (m MultiRenderer) ShowEvolution(e Evolution) {
	for _, x := range m {
		x.ShowEvolution(e)
	}
}

func (m MultiRenderer) ShowEvolutionUnavailable(msg string) {
	for _, x := range m {
		x.ShowEvolutionUnavailable(msg)
	}
}

func (m MultiRenderer) PageLoading(loading bool) {
	for _, x := range m {
		if lr, ok := x.(LoadingRenderer); ok {
			lr.PageLoading(loading)
		}
	}
}

// ScreenState is a point-in-time copy of everything on screen.
type ScreenState struct {
	Rows             []Row      `json:"rows"`
	Empty            string     `json:"empty,omitempty"`
	Loading          bool       `json:"loading"`
	Detail           *Detail    `json:"detail,omitempty"`
	Evolution        *Evolution `json:"evolution,omitempty"`
	EvolutionMessage string     `json:"evolution_message,omitempty"`
}

// Screen is a Renderer that keeps the latest presentation state in memory.
type Screen struct {
	mu    sync.Mutex
	state ScreenState
}

// NewScreen returns an empty screen.
func NewScreen() *Screen {
	return &Screen{state: ScreenState{Rows: []Row{}}}
}

func (s *Screen) AppendRow(r Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Empty = ""
	s.state.Rows = append(s.state.Rows, r)
}

func (s *Screen) ReplaceRows(rows []Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Empty = ""
	s.state.Rows = append([]Row{}, rows...)
}

func (s *Screen) ShowEmpty(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Rows = []Row{}
	s.state.Empty = msg
}

// ShowDetail replaces the detail view, clears the previous evolution section
// and moves the row highlight to the shown record.
func (s *Screen) ShowDetail(d Detail) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.Types = append([]string{}, d.Types...)
	s.state.Detail = &d
	s.state.Evolution = nil
	s.state.EvolutionMessage = ""
	for i := range s.state.Rows {
		s.state.Rows[i].Selected = s.state.Rows[i].ID == d.ID
	}
}

func (s *Screen) ShowSpecies(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Detail != nil {
		s.state.Detail.Species = text
	}
}

func (s *Screen) ShowEvolution(e Evolution) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.Nodes = append([]EvolutionNode{}, e.Nodes...)
	s.state.Evolution = &e
	s.state.EvolutionMessage = ""
}

func (s *Screen) ShowEvolutionUnavailable(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Evolution = nil
	s.state.EvolutionMessage = msg
}

func (s *Screen) PageLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = loading
}

// Snapshot returns a deep copy of the current state.
func (s *Screen) Snapshot() ScreenState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.state
	out.Rows = append([]Row{}, s.state.Rows...)
	if s.state.Detail != nil {
		d := *s.state.Detail
		d.Types = append([]string{}, d.Types...)
		out.Detail = &d
	}
	if s.state.Evolution != nil {
		e := Evolution{Nodes: append([]EvolutionNode{}, s.state.Evolution.Nodes...)}
		out.Evolution = &e
	}
	return out
}
