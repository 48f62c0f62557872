package insights

import (
	"errors"
	"maps"
	"slices"

	"github.com/vinodismyname/ventasxcel/internal/sales"
)

// ErrEmptyDataset indicates there is no row with both a region and a total
// sale, so no summary can be produced.
var ErrEmptyDataset = errors.New("insights: no usable sales rows")

// RegionAggregate holds the per-region sum and the region's best and worst
// performers.
type RegionAggregate struct {
	Region        string
	SumTotalSales float64
	Count         int // rows in the region, present total_sales or not
	Best          sales.Record
	Worst         sales.Record
	// HasExtremes is false when every total_sales in the region is missing.
	HasExtremes bool
}

// GlobalSummary holds the company-wide conclusions.
type GlobalSummary struct {
	BestRegion       string
	BestRegionTotal  float64
	WorstRegion      string
	WorstRegionTotal float64
	MeanTotalSales   float64
	TopPerformer     sales.Record
}

// Aggregation is the result of Aggregate.
type Aggregation struct {
	// Regions in ascending region order.
	Regions []RegionAggregate
	// RegionOrder lists regions in order of first appearance in the sheet.
	RegionOrder []string
	Summary     GlobalSummary
}

// Region returns the aggregate for name.
func (a Aggregation) Region(name string) (RegionAggregate, bool) {
	for _, r := range a.Regions {
		if r.Region == name {
			return r, true
		}
	}
	return RegionAggregate{}, false
}

// Extremes returns the regions that have best/worst performers, in region order.
func (a Aggregation) Extremes() []RegionAggregate {
	out := make([]RegionAggregate, 0, len(a.Regions))
	for _, r := range a.Regions {
		if r.HasExtremes {
			out = append(out, r)
		}
	}
	return out
}

// Aggregate groups records by region and derives the global summary. Rows
// without a region take part in the mean and the top performer but in no group.
func Aggregate(ds *sales.Dataset) (Aggregation, error) {
	var agg Aggregation
	groups := map[string]*RegionAggregate{}

	var (
		sum, count float64
		top        sales.Record
		hasTop     bool
	)
	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		hasSales := !r.IsMissing(sales.FieldTotalSales)
		if hasSales {
			sum += r.TotalSales
			count++
			if !hasTop || r.TotalSales > top.TotalSales {
				top, hasTop = r, true
			}
		}

		if r.IsMissing(sales.FieldRegion) {
			continue
		}
		g, ok := groups[r.Region]
		if !ok {
			g = &RegionAggregate{Region: r.Region}
			groups[r.Region] = g
			agg.RegionOrder = append(agg.RegionOrder, r.Region)
		}
		g.Count++
		if !hasSales {
			continue
		}
		g.SumTotalSales += r.TotalSales
		if !g.HasExtremes {
			g.Best, g.Worst, g.HasExtremes = r, r, true
			continue
		}
		if r.TotalSales > g.Best.TotalSales {
			g.Best = r
		}
		if r.TotalSales < g.Worst.TotalSales {
			g.Worst = r
		}
	}

	usable := false
	for _, g := range groups {
		if g.HasExtremes {
			usable = true
			break
		}
	}
	if !usable {
		return Aggregation{}, ErrEmptyDataset
	}

	names := slices.Sorted(maps.Keys(groups))
	agg.Regions = make([]RegionAggregate, 0, len(names))
	for _, name := range names {
		agg.Regions = append(agg.Regions, *groups[name])
	}

	// Regions whose sales are all missing still sum to zero and compete.
	best, worst := agg.Regions[0], agg.Regions[0]
	for _, g := range agg.Regions[1:] {
		if g.SumTotalSales > best.SumTotalSales {
			best = g
		}
		if g.SumTotalSales < worst.SumTotalSales {
			worst = g
		}
	}
	agg.Summary = GlobalSummary{
		BestRegion:       best.Region,
		BestRegionTotal:  best.SumTotalSales,
		WorstRegion:      worst.Region,
		WorstRegionTotal: worst.SumTotalSales,
		MeanTotalSales:   sum / count,
		TopPerformer:     top,
	}
	return agg, nil
}

// RegionRecords returns the records of region in sheet order.
func RegionRecords(ds *sales.Dataset, region string) []sales.Record {
	var out []sales.Record
	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		if !r.IsMissing(sales.FieldRegion) && r.Region == region {
			out = append(out, r)
		}
	}
	return out
}
