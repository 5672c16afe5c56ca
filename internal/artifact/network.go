package artifact

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/d2-nutrition/fao-cli/internal/fao"
)

const (
	// minTradeVolume drops flows too small to render in the flow diagram.
	minTradeVolume = 100.0

	// topTradeItems and topTraders bound the link set.
	topTradeItems = 10
	topTraders    = 5

	// linkWeightFactor scales the synthesized bilateral estimate. True
	// bilateral flows are not in the source, so links approximate them as
	// a tenth of the smaller side's total.
	linkWeightFactor = 0.1
)

// NetworkBuilder derives the trade-flow graph for the latest year.
type NetworkBuilder struct{}

func (b *NetworkBuilder) Name() string     { return "network" }
func (b *NetworkBuilder) Filename() string { return "network.json" }

func (b *NetworkBuilder) Build(ctx context.Context, in *Input) (*BuildResult, error) {
	countryVolume := make(map[string]float64)
	itemVolume := make(map[string]float64)
	exportsByItem := make(map[string]map[string]float64)
	importsByItem := make(map[string]map[string]float64)

	for _, o := range in.Filtered {
		if o.Year != in.Rules.MaxYear || o.Value <= minTradeVolume {
			continue
		}
		if o.Element != fao.ElementImports && o.Element != fao.ElementExports {
			continue
		}

		countryVolume[o.Area] += o.Value
		itemVolume[o.Item] += o.Value

		flows := importsByItem
		if o.Element == fao.ElementExports {
			flows = exportsByItem
		}
		byCountry := flows[o.Item]
		if byCountry == nil {
			byCountry = make(map[string]float64)
			flows[o.Item] = byCountry
		}
		byCountry[o.Area] += o.Value
	}

	nodes := make([]NetworkNode, 0, len(countryVolume))
	for country, volume := range countryVolume {
		nodes = append(nodes, NetworkNode{ID: country, TotalTradeVolume: volume, Type: "country"})
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	for i := range nodes {
		nodes[i].Index = i
	}

	items := make([]string, 0, len(itemVolume))
	for item := range itemVolume {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if itemVolume[items[i]] != itemVolume[items[j]] {
			return itemVolume[items[i]] > itemVolume[items[j]]
		}
		return items[i] < items[j]
	})
	if len(items) > topTradeItems {
		items = items[:topTradeItems]
	}

	links := make([]NetworkLink, 0)
	for _, item := range items {
		exporters := topFlows(exportsByItem[item])
		importers := topFlows(importsByItem[item])
		for _, exp := range exporters {
			for _, imp := range importers {
				if exp.country == imp.country {
					continue
				}
				links = append(links, NetworkLink{
					Source: exp.country,
					Target: imp.country,
					Value:  linkWeightFactor * min(exp.value, imp.value),
					Item:   item,
				})
			}
		}
	}

	zap.L().Info("derived trade network",
		zap.String("artifact", b.Name()),
		zap.Int("nodes", len(nodes)),
		zap.Int("links", len(links)))
	network := &Network{Nodes: nodes, Links: links}
	return &BuildResult{Payload: network, Records: len(nodes) + len(links)}, nil
}

type flow struct {
	country string
	value   float64
}

// topFlows returns the largest per-country flows, value descending with
// country name breaking ties.
func topFlows(byCountry map[string]float64) []flow {
	flows := make([]flow, 0, len(byCountry))
	for country, value := range byCountry {
		flows = append(flows, flow{country: country, value: value})
	}
	sort.Slice(flows, func(i, j int) bool {
		if flows[i].value != flows[j].value {
			return flows[i].value > flows[j].value
		}
		return flows[i].country < flows[j].country
	})
	if len(flows) > topTraders {
		flows = flows[:topTraders]
	}
	return flows
}
