package insights

import (
	"fmt"
	"math"
	"sort"
)

// GroupShare is one region's slice of total sales.
type GroupShare struct {
	Name  string
	Share float64
	Total float64
}

// Concentration reports how sales are spread over regions.
type Concentration struct {
	TopN       int
	Groups     []GroupShare // largest first, at most TopN
	OtherShare float64
	HHI        float64
	Band       string
}

// Concentration bands
const (
	BandUnconcentrated = "unconcentrated"
	BandModerate       = "moderately_concentrated"
	BandHigh           = "highly_concentrated"
)

// RegionConcentration computes the Top-N share and Herfindahl-Hirschman index
// of region sales totals.
func RegionConcentration(agg Aggregation, topN int) (Concentration, error) {
	out := Concentration{TopN: topN}
	if out.TopN <= 0 || out.TopN > 10 {
		out.TopN = 5
	}

	var total float64
	for _, r := range agg.Regions {
		total += r.SumTotalSales
	}
	if total == 0 {
		return out, fmt.Errorf("zero total sales; cannot compute shares")
	}

	arr := make([]RegionAggregate, len(agg.Regions))
	copy(arr, agg.Regions)
	sort.SliceStable(arr, func(i, j int) bool { return arr[i].SumTotalSales > arr[j].SumTotalSales })

	keep := min(out.TopN, len(arr))
	var topShare float64
	for i := 0; i < keep; i++ {
		sh := arr[i].SumTotalSales / total
		out.Groups = append(out.Groups, GroupShare{Name: arr[i].Region, Share: round3(sh), Total: arr[i].SumTotalSales})
		topShare += sh
	}
	out.OtherShare = round3(1.0 - topShare)

	// HHI: sum of squared shares over all regions
	var hhi float64
	for _, r := range arr {
		sh := r.SumTotalSales / total
		hhi += sh * sh
	}
	out.HHI = round3(hhi)
	switch {
	case hhi < 0.15:
		out.Band = BandUnconcentrated
	case hhi < 0.25:
		out.Band = BandModerate
	default:
		out.Band = BandHigh
	}
	return out, nil
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
