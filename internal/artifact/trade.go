package artifact

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/d2-nutrition/fao-cli/internal/fao"
)

// TradeBuilder computes per-(country, item, year) import/export balances.
// Values stay in source magnitudes ("1000 t").
type TradeBuilder struct{}

func (b *TradeBuilder) Name() string     { return "trade" }
func (b *TradeBuilder) Filename() string { return "trade_balance.json" }

func (b *TradeBuilder) Build(ctx context.Context, in *Input) (*BuildResult, error) {
	type tradeKey struct {
		country string
		item    string
		year    int
	}
	type flows struct {
		imports float64
		exports float64
		unit    string
	}

	totals := make(map[tradeKey]*flows)
	for _, o := range in.Filtered {
		if o.Element != fao.ElementImports && o.Element != fao.ElementExports {
			continue
		}
		key := tradeKey{country: o.Area, item: o.Item, year: o.Year}
		f := totals[key]
		if f == nil {
			f = &flows{unit: o.Unit}
			totals[key] = f
		}
		if o.Element == fao.ElementImports {
			f.imports += o.Value
		} else {
			f.exports += o.Value
		}
	}

	balances := make([]TradeBalance, 0, len(totals))
	for key, f := range totals {
		balances = append(balances, TradeBalance{
			Country:      key.country,
			Item:         key.item,
			Year:         key.year,
			Unit:         f.unit,
			Imports:      f.imports,
			Exports:      f.exports,
			TradeBalance: f.exports - f.imports,
			NetImporter:  f.imports > f.exports,
		})
	}

	sort.Slice(balances, func(i, j int) bool {
		if balances[i].Country != balances[j].Country {
			return balances[i].Country < balances[j].Country
		}
		if balances[i].Item != balances[j].Item {
			return balances[i].Item < balances[j].Item
		}
		return balances[i].Year < balances[j].Year
	})

	zap.L().Info("balanced trade flows",
		zap.String("artifact", b.Name()),
		zap.Int("records", len(balances)))
	return &BuildResult{Payload: balances, Records: len(balances)}, nil
}
