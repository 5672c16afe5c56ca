package fao

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildCalorieLookup(t *testing.T) {
	rules := DefaultRules()

	obs := []Observation{
		{Area: "World", Item: "Wheat and products", Element: ElementKcal, Year: 2022, Unit: "kcal/capita/day", Value: 310.5},
		{Area: "Brazil", Item: "Soyabeans", Element: ElementKcal, Year: 2020, Unit: "kcal/capita/day", Value: 93},
		// Non-calorie elements never enter the lookup
		{Area: "Brazil", Item: "Soyabeans", Element: ElementProduction, Year: 2020, Unit: "1000 t", Value: 120},
		// Aggregate areas and out-of-range years are excluded
		{Area: "Africa", Item: "Soyabeans", Element: ElementKcal, Year: 2020, Unit: "kcal/capita/day", Value: 40},
		{Area: "Brazil", Item: "Soyabeans", Element: ElementKcal, Year: 2009, Unit: "kcal/capita/day", Value: 90},
	}

	lookup := BuildCalorieLookup(obs, rules)
	assert.Len(t, lookup, 2)
	assert.Equal(t, 310.5, lookup[CalorieKey{"World", "Wheat and products", 2022}])
	assert.Equal(t, 93.0, lookup[CalorieKey{"Brazil", "Soyabeans", 2020}])
}

func TestBuildCalorieLookup_ItemFilterDoesNotApply(t *testing.T) {
	// The element allow-list and item exclusions are assembly concerns;
	// the calorie extraction keeps every item, including Grand Total and
	// items the timeseries filter would drop.
	obs := []Observation{
		{Area: "Brazil", Item: "Grand Total", Element: ElementKcal, Year: 2022, Value: 3215},
		{Area: "Brazil", Item: "Alcoholic Beverages", Element: ElementKcal, Year: 2022, Value: 102},
	}

	lookup := BuildCalorieLookup(obs, DefaultRules())
	assert.Len(t, lookup, 2)
	assert.Equal(t, 3215.0, lookup[CalorieKey{"Brazil", "Grand Total", 2022}])
	assert.Equal(t, 102.0, lookup[CalorieKey{"Brazil", "Alcoholic Beverages", 2022}])
}

func TestBuildCalorieLookup_DuplicateKeyLastWins(t *testing.T) {
	obs := []Observation{
		{Area: "Brazil", Item: "Soyabeans", Element: ElementKcal, Year: 2020, Value: 90},
		{Area: "Brazil", Item: "Soyabeans", Element: ElementKcal, Year: 2020, Value: 93},
	}

	lookup := BuildCalorieLookup(obs, DefaultRules())
	assert.Len(t, lookup, 1)
	assert.Equal(t, 93.0, lookup[CalorieKey{"Brazil", "Soyabeans", 2020}])
}

func TestBuildCalorieLookup_Empty(t *testing.T) {
	lookup := BuildCalorieLookup(nil, DefaultRules())
	assert.Empty(t, lookup)
}
