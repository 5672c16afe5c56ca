package artifact

import "context"

// IndexBuilder emits the manifest the dashboard loads first.
type IndexBuilder struct{}

func (b *IndexBuilder) Name() string     { return "index" }
func (b *IndexBuilder) Filename() string { return "index.json" }

func (b *IndexBuilder) Build(ctx context.Context, in *Input) (*BuildResult, error) {
	idx := &Index{
		Files: IndexFiles{
			Metadata:   "metadata.json",
			Timeseries: "timeseries.json",
			Rankings:   "production_rankings.json",
			Trade:      "trade_balance.json",
			Summary:    "summary.json",
			Network:    "network.json",
		},
		Description: "FAO food balance artifacts for the nutrition dashboard",
		Version:     in.Options.Version,
		Usage: IndexUsage{
			Timeseries: "line and area charts of per-country metrics over time",
			Rankings:   "bar charts of top producing countries per item",
			Trade:      "import/export balance views",
			Summary:    "global overview panels",
			Network:    "trade flow diagrams",
		},
		Notes: IndexNotes{
			FoodSupplyKcal: "food_supply_kcal is per-capita and must never be summed across items",
			GrandTotal:     "the Grand Total item carries FAO's own per-country calorie total",
			Backup:         "timeseries_backup.json holds the previous timeseries.json for manual rollback",
		},
	}
	return &BuildResult{Payload: idx, Records: 1}, nil
}
