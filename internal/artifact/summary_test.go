package artifact

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d2-nutrition/fao-cli/internal/fao"
)

func buildSummary(t *testing.T) *Summary {
	t.Helper()
	res := buildPayload(t, "summary", Options{})
	summary, ok := res.Payload.(*Summary)
	require.True(t, ok)
	return summary
}

func TestSummary_GlobalYearlyTotals(t *testing.T) {
	summary := buildSummary(t)

	require.Len(t, summary.GlobalYearlyTotals, 2)

	y2021 := summary.GlobalYearlyTotals[0]
	assert.Equal(t, 2021, y2021.Year)
	assert.Equal(t, 110.0, y2021.Production)
	assert.Equal(t, 0.0, y2021.Imports)
	assert.Equal(t, 0.0, y2021.Exports)
	assert.Equal(t, 0.0, y2021.DomesticSupply)

	y2022 := summary.GlobalYearlyTotals[1]
	assert.Equal(t, 2022, y2022.Year)
	assert.Equal(t, 1036.0, y2022.Production)
	assert.Equal(t, 161.0, y2022.Imports)
	assert.Equal(t, 221.0, y2022.Exports)
	assert.Equal(t, 0.0, y2022.DomesticSupply)
}

func TestSummary_TopProducers(t *testing.T) {
	summary := buildSummary(t)

	require.Len(t, summary.TopProducingCountries, 3)
	assert.Equal(t, CountryTotal{Country: "World", TotalProduction: 800}, summary.TopProducingCountries[0])
	assert.Equal(t, CountryTotal{Country: "Brazil", TotalProduction: 230}, summary.TopProducingCountries[1])
	assert.Equal(t, CountryTotal{Country: "United States of America", TotalProduction: 116}, summary.TopProducingCountries[2])

	require.Len(t, summary.TopProducedItems, 2)
	assert.Equal(t, ItemTotal{Item: "Wheat and products", TotalProduction: 800}, summary.TopProducedItems[0])
	assert.Equal(t, ItemTotal{Item: "Soyabeans", TotalProduction: 346}, summary.TopProducedItems[1])
}

func TestSummary_TiesBreakByName(t *testing.T) {
	obs := []fao.Observation{
		{Area: "Peru", Item: "Maize", Element: "Production", Year: 2022, Unit: "1000 t", Value: 40},
		{Area: "Chile", Item: "Rice and products", Element: "Production", Year: 2022, Unit: "1000 t", Value: 40},
	}
	units, err := fao.DefaultUnitTable()
	require.NoError(t, err)
	in := NewInput(obs, fao.DefaultRules(), units, Options{})

	res, err := (&SummaryBuilder{}).Build(context.Background(), in)
	require.NoError(t, err)
	summary := res.Payload.(*Summary)

	require.Len(t, summary.TopProducingCountries, 2)
	assert.Equal(t, "Chile", summary.TopProducingCountries[0].Country)
	assert.Equal(t, "Peru", summary.TopProducingCountries[1].Country)

	require.Len(t, summary.TopProducedItems, 2)
	assert.Equal(t, "Maize", summary.TopProducedItems[0].Item)
	assert.Equal(t, "Rice and products", summary.TopProducedItems[1].Item)
}

func TestSummary_CapsLeaderboards(t *testing.T) {
	obs := make([]fao.Observation, 0, topTotals+3)
	for i := 0; i < topTotals+3; i++ {
		obs = append(obs, fao.Observation{
			Area:    fmt.Sprintf("Country %02d", i),
			Item:    "Maize",
			Element: "Production",
			Year:    2022,
			Unit:    "1000 t",
			Value:   float64(500 - i),
		})
	}
	units, err := fao.DefaultUnitTable()
	require.NoError(t, err)
	in := NewInput(obs, fao.DefaultRules(), units, Options{})

	res, err := (&SummaryBuilder{}).Build(context.Background(), in)
	require.NoError(t, err)
	summary := res.Payload.(*Summary)

	require.Len(t, summary.TopProducingCountries, topTotals)
	assert.Equal(t, "Country 00", summary.TopProducingCountries[0].Country)
	assert.Equal(t, fmt.Sprintf("Country %02d", topTotals-1),
		summary.TopProducingCountries[topTotals-1].Country)
}

func TestSummary_FeedExcludedFromTotals(t *testing.T) {
	obs := []fao.Observation{
		{Area: "Brazil", Item: "Maize", Element: "Feed", Year: 2022, Unit: "1000 t", Value: 55},
	}
	units, err := fao.DefaultUnitTable()
	require.NoError(t, err)
	in := NewInput(obs, fao.DefaultRules(), units, Options{})

	res, err := (&SummaryBuilder{}).Build(context.Background(), in)
	require.NoError(t, err)
	summary := res.Payload.(*Summary)

	require.Len(t, summary.GlobalYearlyTotals, 1)
	assert.Equal(t, 0.0, summary.GlobalYearlyTotals[0].Production)
	assert.Empty(t, summary.TopProducingCountries)
}
