package sse

import (
	"github.com/starford/pokedex/internal/catalog"
)

// Publisher is a catalog.Renderer that turns render calls into SSE events.
type Publisher struct {
	b     *Broker
	count func() int
}

// NewPublisher returns a publisher on b. count reports the collection size
// for collection.updated events; nil reports zero.
func NewPublisher(b *Broker, count func() int) *Publisher {
	if count == nil {
		count = func() int { return 0 }
	}
	return &Publisher{b: b, count: count}
}

var (
	_ catalog.Renderer        = (*Publisher)(nil)
	_ catalog.LoadingRenderer = (*Publisher)(nil)
)

func (p *Publisher) AppendRow(r catalog.Row) {
	p.b.PublishRow(r, p.count())
}

// ReplaceRows clears the list and re-appends rows in order.
func (p *Publisher) ReplaceRows(rows []catalog.Row) {
	p.b.Publish(Event{Type: EventRowsCleared, Data: map[string]int{"count": len(rows)}})
	for _, r := range rows {
		p.b.Publish(Event{Type: EventRowAppended, Data: r})
	}
}

func (p *Publisher) ShowEmpty(msg string) {
	p.b.Publish(Event{Type: EventRowsEmpty, Data: map[string]string{"message": msg}})
}

func (p *Publisher) ShowDetail(d catalog.Detail) {
	p.b.Publish(Event{Type: EventDetailShown, Data: d})
}

func (p *Publisher) ShowSpecies(text string) {
	p.b.Publish(Event{Type: EventSpeciesUpdated, Data: map[string]string{"species": text}})
}

func (p *Publisher) ShowEvolution(e catalog.Evolution) {
	p.b.Publish(Event{Type: EventEvolutionShown, Data: e})
}

func (p *Publisher) ShowEvolutionUnavailable(msg string) {
	p.b.Publish(Event{Type: EventEvolutionUnavailable, Data: map[string]string{"message": msg}})
}

func (p *Publisher) PageLoading(loading bool) {
	if loading {
		p.b.Publish(Event{Type: EventPageLoading, Data: map[string]int{}})
		return
	}
	p.b.Publish(Event{Type: EventPageLoaded, Data: map[string]int{"count": p.count()}})
}
