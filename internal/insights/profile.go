// Package insights derives the summary figures of a sales dataset: data
// quality profile, per-region aggregation, unit rankings and concentration.
// Every function is a pure read of the Dataset.
package insights

import (
	"math"
	"slices"

	"github.com/vinodismyname/ventasxcel/internal/sales"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats mirrors a describe() row set for one numeric column. Undefined values
// (no data, or std with fewer than two values) are NaN.
type Stats struct {
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

// Profile summarizes the shape and quality of a dataset.
type Profile struct {
	Records    int
	Columns    int
	Salary     Stats
	TotalSales Stats
	Missing    int
}

// CountMissing returns the number of absent required values across all records.
// Blank cells in extra columns are not counted.
func CountMissing(ds *sales.Dataset) int {
	n := 0
	for i := 0; i < ds.Len(); i++ {
		n += ds.At(i).MissingCount()
	}
	return n
}

// BuildProfile computes record/column counts, salary and total sales
// statistics, and the missing-value count.
func BuildProfile(ds *sales.Dataset) Profile {
	return Profile{
		Records:    ds.Len(),
		Columns:    ds.ColumnCount(),
		Salary:     Describe(presentValues(ds, sales.FieldSalary)),
		TotalSales: Describe(presentValues(ds, sales.FieldTotalSales)),
		Missing:    CountMissing(ds),
	}
}

// Describe computes count, mean, sample standard deviation, min, quartiles and
// max of xs. xs is not modified.
func Describe(xs []float64) Stats {
	nan := math.NaN()
	s := Stats{Count: len(xs), Mean: nan, Std: nan, Min: nan, Q25: nan, Q50: nan, Q75: nan, Max: nan}
	if len(xs) == 0 {
		return s
	}
	sorted := slices.Clone(xs)
	slices.Sort(sorted)

	s.Mean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		s.Std = stat.StdDev(sorted, nil)
	}
	s.Min = floats.Min(sorted)
	s.Max = floats.Max(sorted)
	s.Q25 = quantileLinear(sorted, 0.25)
	s.Q50 = quantileLinear(sorted, 0.50)
	s.Q75 = quantileLinear(sorted, 0.75)
	return s
}

// quantileLinear interpolates between the two closest ranks of sorted
// (position p*(n-1)).
func quantileLinear(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func presentValues(ds *sales.Dataset, f sales.Field) []float64 {
	out := make([]float64, 0, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		if r.IsMissing(f) {
			continue
		}
		switch f {
		case sales.FieldSalary:
			out = append(out, r.Salary)
		case sales.FieldTotalSales:
			out = append(out, r.TotalSales)
		case sales.FieldUnitsSold:
			out = append(out, float64(r.UnitsSold))
		}
	}
	return out
}
