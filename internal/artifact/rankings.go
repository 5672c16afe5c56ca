package artifact

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/d2-nutrition/fao-cli/internal/fao"
)

// topProducers caps each item's ranking at the rows the dashboard renders.
const topProducers = 20

// RankingsBuilder ranks producing countries per item for the latest year.
// Values stay in source magnitudes ("1000 t").
type RankingsBuilder struct{}

func (b *RankingsBuilder) Name() string     { return "rankings" }
func (b *RankingsBuilder) Filename() string { return "production_rankings.json" }

func (b *RankingsBuilder) Build(ctx context.Context, in *Input) (*BuildResult, error) {
	type row struct {
		country string
		value   float64
	}

	year := in.Rules.MaxYear
	rowsByItem := make(map[string][]row)
	unitByItem := make(map[string]string)
	for _, o := range in.Filtered {
		if o.Element != fao.ElementProduction || o.Year != year {
			continue
		}
		if _, ok := unitByItem[o.Item]; !ok {
			unitByItem[o.Item] = o.Unit
		}
		rowsByItem[o.Item] = append(rowsByItem[o.Item], row{country: o.Area, value: o.Value})
	}

	rankings := make([]ItemRanking, 0, len(rowsByItem))
	for item, rows := range rowsByItem {
		// Stable so equal values keep source order.
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].value > rows[j].value })
		if len(rows) > topProducers {
			rows = rows[:topProducers]
		}

		producers := make([]Producer, 0, len(rows))
		for i, r := range rows {
			producers = append(producers, Producer{
				Country:    r.country,
				Production: r.value,
				Rank:       i + 1,
			})
		}

		rankings = append(rankings, ItemRanking{
			Item:      item,
			Unit:      unitByItem[item],
			Year:      year,
			Producers: producers,
		})
	}

	sort.Slice(rankings, func(i, j int) bool { return rankings[i].Item < rankings[j].Item })

	zap.L().Info("ranked producers",
		zap.String("artifact", b.Name()),
		zap.Int("items", len(rankings)),
		zap.Int("year", year))
	return &BuildResult{Payload: rankings, Records: len(rankings)}, nil
}
