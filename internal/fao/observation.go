package fao

import "strings"

// FAO element names referenced across the toolchain.
const (
	ElementProduction     = "Production"
	ElementImports        = "Import quantity"
	ElementExports        = "Export quantity"
	ElementDomesticSupply = "Domestic supply quantity"
	ElementFeed           = "Feed"
	ElementProteinT       = "Protein supply quantity (t)"
	ElementProteinGPCD    = "Protein supply quantity (g/capita/day)"
	ElementFatT           = "Fat supply quantity (t)"
	ElementFatGPCD        = "Fat supply quantity (g/capita/day)"
	ElementProcessing     = "Processing"
	ElementKcal           = "Food supply (kcal/capita/day)"
)

// Normalized metric keys used in the published JSON artifacts.
const (
	MetricProduction     = "production"
	MetricImports        = "imports"
	MetricExports        = "exports"
	MetricDomesticSupply = "domestic_supply"
	MetricFeed           = "feed"
	MetricProtein        = "protein"
	MetricProteinGPCD    = "protein_gpcd"
	MetricFat            = "fat"
	MetricFatGPCD        = "fat_gpcd"
	MetricProcessing     = "processing"
	MetricKcal           = "food_supply_kcal"
)

// Observation is one row of the FAO food balance sheet in its normalized
// (long) layout. Rows whose Value column does not parse as a number never
// become Observations.
type Observation struct {
	Area    string
	Item    string
	Element string
	Year    int
	Unit    string
	Value   float64
	Flag    string
}

// elementKeys maps FAO element names to their artifact metric keys.
var elementKeys = map[string]string{
	ElementImports:        MetricImports,
	ElementExports:        MetricExports,
	ElementProduction:     MetricProduction,
	ElementDomesticSupply: MetricDomesticSupply,
	ElementFeed:           MetricFeed,
	ElementProteinT:       MetricProtein,
	ElementProteinGPCD:    MetricProteinGPCD,
	ElementFatT:           MetricFat,
	ElementFatGPCD:        MetricFatGPCD,
	ElementProcessing:     MetricProcessing,
	ElementKcal:           MetricKcal,
}

// NormalizeElement returns the artifact metric key for an FAO element name.
// Elements outside the fixed map fall back to a lowercased,
// underscore-joined form of the name itself.
func NormalizeElement(element string) string {
	if key, ok := elementKeys[element]; ok {
		return key
	}
	return strings.ReplaceAll(strings.ToLower(element), " ", "_")
}
