package insights

import (
	"slices"

	"github.com/vinodismyname/ventasxcel/internal/sales"
)

// TopUnits returns up to n records with the most units sold, in ascending
// order of UnitsSold so the largest value is drawn last. Records without
// units are ignored. Among equal values the earlier record is selected first.
func TopUnits(ds *sales.Dataset, n int) []sales.Record {
	if n <= 0 {
		return nil
	}
	candidates := make([]sales.Record, 0, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		if r := ds.At(i); !r.IsMissing(sales.FieldUnitsSold) {
			candidates = append(candidates, r)
		}
	}
	slices.SortStableFunc(candidates, func(a, b sales.Record) int {
		switch {
		case a.UnitsSold > b.UnitsSold:
			return -1
		case a.UnitsSold < b.UnitsSold:
			return 1
		}
		return 0
	})
	top := candidates[:min(n, len(candidates))]
	slices.Reverse(top)
	return top
}
