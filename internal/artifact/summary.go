package artifact

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/d2-nutrition/fao-cli/internal/fao"
)

// topTotals caps the summary leaderboards.
const topTotals = 30

// SummaryBuilder aggregates global yearly totals and all-time production
// leaderboards. Values stay in source magnitudes ("1000 t").
type SummaryBuilder struct{}

func (b *SummaryBuilder) Name() string     { return "summary" }
func (b *SummaryBuilder) Filename() string { return "summary.json" }

func (b *SummaryBuilder) Build(ctx context.Context, in *Input) (*BuildResult, error) {
	yearly := make(map[int]*YearlyTotals)
	countryProduction := make(map[string]float64)
	itemProduction := make(map[string]float64)

	for _, o := range in.Filtered {
		t := yearly[o.Year]
		if t == nil {
			t = &YearlyTotals{Year: o.Year}
			yearly[o.Year] = t
		}
		switch o.Element {
		case fao.ElementProduction:
			t.Production += o.Value
			countryProduction[o.Area] += o.Value
			itemProduction[o.Item] += o.Value
		case fao.ElementImports:
			t.Imports += o.Value
		case fao.ElementExports:
			t.Exports += o.Value
		case fao.ElementDomesticSupply:
			t.DomesticSupply += o.Value
		}
	}

	totals := make([]YearlyTotals, 0, len(yearly))
	for _, t := range yearly {
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Year < totals[j].Year })

	countries := make([]CountryTotal, 0, len(countryProduction))
	for country, total := range countryProduction {
		countries = append(countries, CountryTotal{Country: country, TotalProduction: total})
	}
	sort.Slice(countries, func(i, j int) bool {
		if countries[i].TotalProduction != countries[j].TotalProduction {
			return countries[i].TotalProduction > countries[j].TotalProduction
		}
		return countries[i].Country < countries[j].Country
	})
	if len(countries) > topTotals {
		countries = countries[:topTotals]
	}

	items := make([]ItemTotal, 0, len(itemProduction))
	for item, total := range itemProduction {
		items = append(items, ItemTotal{Item: item, TotalProduction: total})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].TotalProduction != items[j].TotalProduction {
			return items[i].TotalProduction > items[j].TotalProduction
		}
		return items[i].Item < items[j].Item
	})
	if len(items) > topTotals {
		items = items[:topTotals]
	}

	zap.L().Info("summarized totals",
		zap.String("artifact", b.Name()),
		zap.Int("years", len(totals)),
		zap.Int("countries", len(countries)),
		zap.Int("items", len(items)))
	summary := &Summary{
		GlobalYearlyTotals:    totals,
		TopProducingCountries: countries,
		TopProducedItems:      items,
	}
	return &BuildResult{Payload: summary, Records: len(totals) + len(countries) + len(items)}, nil
}
