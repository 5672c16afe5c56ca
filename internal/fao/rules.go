package fao

import "strings"

// Rules is the filter policy applied to source observations before any
// artifact is built. The zero value keeps nothing useful; construct with
// DefaultRules and treat as immutable.
type Rules struct {
	// AggregateAreas lists non-country rows (continents, sub-regions,
	// economic blocs) excluded from every artifact. Matching is exact and
	// case-sensitive so countries like "South Africa" or "Central African
	// Republic" are never caught.
	AggregateAreas map[string]bool

	// Elements is the allow-list of FAO elements carried into timeseries
	// assembly.
	Elements map[string]bool

	MinYear int
	MaxYear int

	// ItemExcludes drops items whose name contains any entry,
	// case-insensitively.
	ItemExcludes []string
}

// DefaultRules returns the fixed production filter policy.
func DefaultRules() Rules {
	return Rules{
		AggregateAreas: map[string]bool{
			// Continents
			"Africa":   true,
			"Americas": true,
			"Asia":     true,
			"Europe":   true,
			"Oceania":  true,

			// Sub-regions
			"Eastern Africa":     true,
			"Middle Africa":      true,
			"Northern Africa":    true,
			"Southern Africa":    true,
			"Western Africa":     true,
			"Eastern Asia":       true,
			"South-eastern Asia": true,
			"Southern Asia":      true,
			"Western Asia":       true,
			"Central America":    true,
			"Northern America":   true,
			"South America":      true,
			"Eastern Europe":     true,
			"Northern Europe":    true,
			"Southern Europe":    true,
			"Western Europe":     true,

			// Economic and development groupings
			"European Union":                          true,
			"European Union (27)":                     true,
			"European Union (28)":                     true,
			"Land Locked Developing Countries":        true,
			"Least Developed Countries":               true,
			"Low Income Food Deficit Countries":       true,
			"Net Food Importing Developing Countries": true,
			"Small Island Developing States":          true,
		},
		Elements: map[string]bool{
			ElementImports:        true,
			ElementExports:        true,
			ElementProduction:     true,
			ElementDomesticSupply: true,
			ElementFeed:           true,
			ElementProteinT:       true,
			ElementProteinGPCD:    true,
			ElementFatT:           true,
			ElementFatGPCD:        true,
			ElementProcessing:     true,
		},
		MinYear:      2010,
		MaxYear:      2022,
		ItemExcludes: []string{"alcohol", "non-food"},
	}
}

// KeepArea reports whether area names an individual country rather than an
// aggregate region.
func (r Rules) KeepArea(area string) bool {
	return !r.AggregateAreas[area]
}

// KeepYear reports whether year falls inside the configured range.
func (r Rules) KeepYear(year int) bool {
	return year >= r.MinYear && year <= r.MaxYear
}

// KeepElement reports whether element is on the allow-list.
func (r Rules) KeepElement(element string) bool {
	return r.Elements[element]
}

// KeepItem reports whether item survives the exclusion substrings.
func (r Rules) KeepItem(item string) bool {
	lower := strings.ToLower(item)
	for _, sub := range r.ItemExcludes {
		if strings.Contains(lower, sub) {
			return false
		}
	}
	return true
}

// Keep reports whether the observation passes all predicates.
func (r Rules) Keep(o Observation) bool {
	return r.KeepArea(o.Area) && r.KeepYear(o.Year) && r.KeepElement(o.Element) && r.KeepItem(o.Item)
}

// Filter returns the observations passing all rule predicates, preserving
// input order. An empty result is not an error; every downstream builder
// tolerates zero rows.
func Filter(obs []Observation, r Rules) []Observation {
	out := make([]Observation, 0, len(obs))
	for _, o := range obs {
		if r.Keep(o) {
			out = append(out, o)
		}
	}
	return out
}
