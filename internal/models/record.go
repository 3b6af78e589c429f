// Package models defines the domain types for Pokedex.
package models

// NamedResource is a name plus the URL of the full resource.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Page is one page of summary entries from a list endpoint.
type Page struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []NamedResource `json:"results"`
}

// Record is a single catalog entry. It is never mutated after decoding and is
// shared by pointer between the collection store and the record cache.
type Record struct {
	ID        int           `json:"id"`
	Name      string        `json:"name"`
	Sprites   Sprites       `json:"sprites"`
	Types     []TypeSlot    `json:"types"`
	Abilities []AbilitySlot `json:"abilities"`
	Weight    int           `json:"weight"` // hectograms
	Height    int           `json:"height"` // decimetres
	Species   NamedResource `json:"species"`
}

// Sprites holds the image references of a record.
type Sprites struct {
	FrontDefault string       `json:"front_default"`
	Other        OtherSprites `json:"other"`
}

// OtherSprites holds alternative artwork sets.
type OtherSprites struct {
	OfficialArtwork Artwork `json:"official-artwork"`
}

// Artwork is a single artwork set.
type Artwork struct {
	FrontDefault string `json:"front_default"`
}

// TypeSlot is a category tag of a record.
type TypeSlot struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

// AbilitySlot is a capability tag of a record.
type AbilitySlot struct {
	Slot     int           `json:"slot"`
	IsHidden bool          `json:"is_hidden"`
	Ability  NamedResource `json:"ability"`
}

// Species is the secondary record describing a record's species.
type Species struct {
	ID             int         `json:"id"`
	Name           string      `json:"name"`
	Genera         []Genus     `json:"genera"`
	EvolutionChain ResourceRef `json:"evolution_chain"`
}

// Genus is a localized species description.
type Genus struct {
	Genus    string        `json:"genus"`
	Language NamedResource `json:"language"`
}

// ResourceRef is a bare URL reference.
type ResourceRef struct {
	URL string `json:"url"`
}

// EnglishGenus returns the English genus, if any.
func (s *Species) EnglishGenus() (string, bool) {
	for _, g := range s.Genera {
		if g.Language.Name == "en" {
			return g.Genus, true
		}
	}
	return "", false
}

// EvolutionChain is the tertiary record linking species into a chain.
type EvolutionChain struct {
	ID    int       `json:"id"`
	Chain ChainLink `json:"chain"`
}

// ChainLink is one node of an evolution chain.
type ChainLink struct {
	Species   NamedResource `json:"species"`
	EvolvesTo []ChainLink   `json:"evolves_to"`
}
