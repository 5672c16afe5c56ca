package artifact

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/d2-nutrition/fao-cli/internal/fao"
)

// MetadataBuilder describes the published dataset for dashboard developers.
type MetadataBuilder struct{}

func (b *MetadataBuilder) Name() string     { return "metadata" }
func (b *MetadataBuilder) Filename() string { return "metadata.json" }

func (b *MetadataBuilder) Build(ctx context.Context, in *Input) (*BuildResult, error) {
	yearSet := make(map[int]bool)
	countrySet := make(map[string]bool)
	itemSet := make(map[string]bool)
	elementSet := make(map[string]bool)
	unitSeen := make(map[string]bool)
	units := make([]string, 0, 4)

	for _, o := range in.Filtered {
		yearSet[o.Year] = true
		countrySet[o.Area] = true
		itemSet[o.Item] = true
		elementSet[o.Element] = true
		if !unitSeen[o.Unit] {
			unitSeen[o.Unit] = true
			units = append(units, o.Unit)
		}
	}

	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	meta := &Metadata{
		GeneratedAt: in.Options.GeneratedAt.UTC().Format(time.RFC3339),
		DataSummary: DataSummary{
			TotalRecords: len(in.Filtered),
			KcalRecords:  in.KcalRows,
			Years:        years,
			Countries:    sortedKeys(countrySet),
			FoodItems:    sortedKeys(itemSet),
			Elements:     sortedKeys(elementSet),
			Units:        units,
		},
		DataStructure: DataStructure{
			Timeseries: fmt.Sprintf("yearly data from %d-%d", in.Rules.MinYear, in.Rules.MaxYear),
			Metrics: map[string]string{
				fao.MetricProduction:     "Domestic production",
				fao.MetricImports:        "Import volumes",
				fao.MetricExports:        "Export volumes",
				fao.MetricDomesticSupply: "Total domestic supply",
				fao.MetricFeed:           "Feed usage",
				fao.MetricProtein:        "Protein supply quantity (t)",
				fao.MetricProteinGPCD:    "Protein supply quantity (g/capita/day)",
				fao.MetricFat:            "Fat supply quantity (t)",
				fao.MetricFatGPCD:        "Fat supply quantity (g/capita/day)",
				fao.MetricProcessing:     "Processing volume (t)",
				fao.MetricKcal:           "Food supply in kcal/capita/day (from FAO)",
			},
		},
		Notes: MetadataNotes{
			FoodSupplyKcal: "Values represent per-capita daily food consumption from FAO data",
			Validation:     "All metrics rebuilt from the source table on every run",
		},
	}
	return &BuildResult{Payload: meta, Records: 1}, nil
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
