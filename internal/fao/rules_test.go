package fao

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRules_AreaDenylist(t *testing.T) {
	r := DefaultRules()

	// Aggregate regions are excluded
	assert.False(t, r.KeepArea("Africa"))
	assert.False(t, r.KeepArea("Eastern Asia"))
	assert.False(t, r.KeepArea("European Union (27)"))
	assert.False(t, r.KeepArea("Small Island Developing States"))

	// Countries whose names embed a region word survive (exact match only)
	assert.True(t, r.KeepArea("South Africa"))
	assert.True(t, r.KeepArea("Central African Republic"))
	assert.True(t, r.KeepArea("Brazil"))

	// Matching is case-sensitive
	assert.True(t, r.KeepArea("AFRICA"))

	// World is a published area, not an excluded aggregate
	assert.True(t, r.KeepArea("World"))
}

func TestDefaultRules_YearRange(t *testing.T) {
	r := DefaultRules()

	assert.False(t, r.KeepYear(2009))
	assert.True(t, r.KeepYear(2010))
	assert.True(t, r.KeepYear(2016))
	assert.True(t, r.KeepYear(2022))
	assert.False(t, r.KeepYear(2023))
}

func TestDefaultRules_Elements(t *testing.T) {
	r := DefaultRules()

	assert.True(t, r.KeepElement(ElementProduction))
	assert.True(t, r.KeepElement(ElementImports))
	assert.True(t, r.KeepElement(ElementExports))
	assert.True(t, r.KeepElement(ElementDomesticSupply))
	assert.True(t, r.KeepElement(ElementFeed))
	assert.True(t, r.KeepElement(ElementProteinT))
	assert.True(t, r.KeepElement(ElementProteinGPCD))
	assert.True(t, r.KeepElement(ElementFatT))
	assert.True(t, r.KeepElement(ElementFatGPCD))
	assert.True(t, r.KeepElement(ElementProcessing))

	// Calorie supply rides a separate extraction path, not the allow-list
	assert.False(t, r.KeepElement(ElementKcal))
	assert.False(t, r.KeepElement("Stock Variation"))
}

func TestDefaultRules_ItemExcludes(t *testing.T) {
	r := DefaultRules()

	assert.False(t, r.KeepItem("Alcoholic Beverages"))
	assert.False(t, r.KeepItem("Beverages, alcoholic"))
	assert.False(t, r.KeepItem("Sugar non-food"))
	assert.False(t, r.KeepItem("Oilcrops, Other NON-FOOD"))

	assert.True(t, r.KeepItem("Wheat and products"))
	assert.True(t, r.KeepItem("Soyabeans"))
}

func TestFilter(t *testing.T) {
	r := DefaultRules()

	obs := []Observation{
		{Area: "Brazil", Item: "Soyabeans", Element: ElementProduction, Year: 2022, Unit: "1000 t", Value: 120},
		{Area: "Africa", Item: "Soyabeans", Element: ElementProduction, Year: 2022, Unit: "1000 t", Value: 500},
		{Area: "Brazil", Item: "Soyabeans", Element: ElementProduction, Year: 2009, Unit: "1000 t", Value: 80},
		{Area: "Brazil", Item: "Alcoholic Beverages", Element: ElementProduction, Year: 2022, Unit: "1000 t", Value: 12},
		{Area: "Brazil", Item: "Soyabeans", Element: ElementKcal, Year: 2022, Unit: "kcal/capita/day", Value: 93},
		{Area: "Germany", Item: "Wheat and products", Element: ElementImports, Year: 2015, Unit: "1000 t", Value: 4.2},
	}

	got := Filter(obs, r)
	assert.Len(t, got, 2)
	assert.Equal(t, "Brazil", got[0].Area)
	assert.Equal(t, 2022, got[0].Year)
	assert.Equal(t, "Germany", got[1].Area)
}

func TestFilterEmptyInput(t *testing.T) {
	got := Filter(nil, DefaultRules())
	assert.Empty(t, got)
}

func TestNormalizeElement(t *testing.T) {
	assert.Equal(t, "imports", NormalizeElement(ElementImports))
	assert.Equal(t, "exports", NormalizeElement(ElementExports))
	assert.Equal(t, "production", NormalizeElement(ElementProduction))
	assert.Equal(t, "domestic_supply", NormalizeElement(ElementDomesticSupply))
	assert.Equal(t, "feed", NormalizeElement(ElementFeed))
	assert.Equal(t, "protein", NormalizeElement(ElementProteinT))
	assert.Equal(t, "protein_gpcd", NormalizeElement(ElementProteinGPCD))
	assert.Equal(t, "fat", NormalizeElement(ElementFatT))
	assert.Equal(t, "fat_gpcd", NormalizeElement(ElementFatGPCD))
	assert.Equal(t, "processing", NormalizeElement(ElementProcessing))
	assert.Equal(t, "food_supply_kcal", NormalizeElement(ElementKcal))

	// Unknown elements fall back to snake_case of themselves
	assert.Equal(t, "stock_variation", NormalizeElement("Stock Variation"))
}
