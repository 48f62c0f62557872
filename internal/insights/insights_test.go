package insights

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vinodismyname/ventasxcel/internal/sales"
)

// seller builds a complete record; row numbers follow slice position.
func seller(first, last, region string, total float64, units int64) sales.Record {
	return sales.Record{FirstName: first, LastName: last, Region: region, Salary: 1000, TotalSales: total, UnitsSold: units}
}

func dataset(recs ...sales.Record) *sales.Dataset {
	for i := range recs {
		recs[i].Row = i + 2
	}
	return sales.NewDataset("/data/vendedores-1.xlsx", "Sheet1",
		[]string{"NOMBRE", "APELLIDO", "REGION", "SALARIO", "VENTAS TOTALES", "UNIDADES VENDIDAS"}, recs)
}

func scenario() *sales.Dataset {
	return dataset(
		seller("Ana", "Uno", "A", 100, 5),
		seller("Beto", "Dos", "A", 200, 9),
		seller("Caro", "Tres", "B", 150, 9),
		seller("Dani", "Cuatro", "B", 50, 1),
		seller("Eli", "Cinco", "C", 300, 7),
		seller("Fer", "Seis", "C", 10, 3),
	)
}

func TestAggregate_RegionSumsAndSummary(t *testing.T) {
	agg, err := Aggregate(scenario())
	require.NoError(t, err)

	require.Len(t, agg.Regions, 3)
	want := map[string]float64{"A": 300, "B": 200, "C": 310}
	for _, r := range agg.Regions {
		require.InDelta(t, want[r.Region], r.SumTotalSales, 1e-9, r.Region)
		require.Equal(t, 2, r.Count)
		require.True(t, r.HasExtremes)
	}
	require.Equal(t, []string{"A", "B", "C"}, []string{agg.Regions[0].Region, agg.Regions[1].Region, agg.Regions[2].Region})

	s := agg.Summary
	require.Equal(t, "C", s.BestRegion)
	require.InDelta(t, 310.0, s.BestRegionTotal, 1e-9)
	require.Equal(t, "B", s.WorstRegion)
	require.InDelta(t, 200.0, s.WorstRegionTotal, 1e-9)
	require.InDelta(t, 135.0, s.MeanTotalSales, 1e-9)
	require.Equal(t, "Eli Cinco", s.TopPerformer.FullName())

	a, ok := agg.Region("A")
	require.True(t, ok)
	require.Equal(t, "Beto", a.Best.FirstName)
	require.Equal(t, "Ana", a.Worst.FirstName)
	c, _ := agg.Region("C")
	require.Equal(t, "Eli", c.Best.FirstName)
	require.Equal(t, "Fer", c.Worst.FirstName)
}

func TestAggregate_Conservation(t *testing.T) {
	ds := scenario()
	agg, err := Aggregate(ds)
	require.NoError(t, err)

	var regions, rows float64
	for _, r := range agg.Regions {
		regions += r.SumTotalSales
	}
	for _, r := range ds.Records() {
		rows += r.TotalSales
	}
	require.InDelta(t, rows, regions, 1e-9)
}

func TestAggregate_Idempotent(t *testing.T) {
	ds := scenario()
	first, err := Aggregate(ds)
	require.NoError(t, err)
	second, err := Aggregate(ds)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestAggregate_RegionOrderFollowsSheet(t *testing.T) {
	ds := dataset(
		seller("Ana", "Uno", "Sur", 10, 1),
		seller("Beto", "Dos", "Norte", 20, 1),
		seller("Caro", "Tres", "Sur", 30, 1),
		seller("Dani", "Cuatro", "Este", 40, 1),
	)
	agg, err := Aggregate(ds)
	require.NoError(t, err)
	require.Equal(t, []string{"Sur", "Norte", "Este"}, agg.RegionOrder)
	require.Equal(t, "Este", agg.Regions[0].Region)
	require.Len(t, RegionRecords(ds, "Sur"), 2)
	require.Empty(t, RegionRecords(ds, "Oeste"))
}

func TestAggregate_TiesResolveToFirst(t *testing.T) {
	ds := dataset(
		seller("Ana", "Uno", "B", 100, 1),
		seller("Beto", "Dos", "A", 100, 1),
		seller("Caro", "Tres", "A", 100, 1),
		seller("Dani", "Cuatro", "B", 100, 1),
	)
	agg, err := Aggregate(ds)
	require.NoError(t, err)
	require.Equal(t, "A", agg.Summary.BestRegion)
	require.Equal(t, "A", agg.Summary.WorstRegion)
	require.Equal(t, "Ana", agg.Summary.TopPerformer.FirstName)
	a, _ := agg.Region("A")
	require.Equal(t, "Beto", a.Best.FirstName)
	require.Equal(t, "Beto", a.Worst.FirstName)
}

func TestAggregate_MissingValues(t *testing.T) {
	noRegion := seller("Ana", "Uno", "", 500, 1)
	noRegion.SetMissing(sales.FieldRegion)
	noSales := seller("Beto", "Dos", "Norte", 0, 1)
	noSales.SetMissing(sales.FieldTotalSales)
	emptyRegion := seller("Caro", "Tres", "Oeste", 0, 1)
	emptyRegion.SetMissing(sales.FieldTotalSales)

	ds := dataset(noRegion, noSales, seller("Dani", "Cuatro", "Norte", 100, 1), emptyRegion)
	agg, err := Aggregate(ds)
	require.NoError(t, err)

	require.Len(t, agg.Regions, 2)
	norte, _ := agg.Region("Norte")
	require.Equal(t, 2, norte.Count)
	require.InDelta(t, 100.0, norte.SumTotalSales, 1e-9)
	require.Equal(t, "Dani", norte.Best.FirstName)

	oeste, _ := agg.Region("Oeste")
	require.False(t, oeste.HasExtremes)
	require.Len(t, agg.Extremes(), 1)

	// the mean and top performer consider rows without a region
	require.InDelta(t, 300.0, agg.Summary.MeanTotalSales, 1e-9)
	require.Equal(t, "Ana", agg.Summary.TopPerformer.FirstName)
	require.Equal(t, "Oeste", agg.Summary.WorstRegion)
}

func TestAggregate_EmptyDataset(t *testing.T) {
	_, err := Aggregate(dataset())
	require.ErrorIs(t, err, ErrEmptyDataset)

	r := seller("Ana", "Uno", "Norte", 0, 1)
	r.SetMissing(sales.FieldTotalSales)
	_, err = Aggregate(dataset(r))
	require.ErrorIs(t, err, ErrEmptyDataset)
}

func TestTopUnits_OrderAndTies(t *testing.T) {
	ds := dataset(
		seller("R0", "X", "A", 1, 5),
		seller("R1", "X", "A", 1, 9),
		seller("R2", "X", "A", 1, 9),
		seller("R3", "X", "A", 1, 1),
		seller("R4", "X", "A", 1, 7),
		seller("R5", "X", "A", 1, 3),
		seller("R6", "X", "A", 1, 9),
	)
	top := TopUnits(ds, 5)
	names := make([]string, 0, len(top))
	for _, r := range top {
		names = append(names, r.FirstName)
	}
	require.Equal(t, []string{"R0", "R4", "R6", "R2", "R1"}, names)
}

func TestTopUnits_Properties(t *testing.T) {
	ds := scenario()
	top := TopUnits(ds, 5)
	require.Len(t, top, 5)
	for i := 1; i < len(top); i++ {
		require.LessOrEqual(t, top[i-1].UnitsSold, top[i].UnitsSold)
	}
	// nothing outside the ranking beats its smallest member
	in := map[int]bool{}
	for _, r := range top {
		in[r.Row] = true
	}
	for _, r := range ds.Records() {
		if !in[r.Row] {
			require.LessOrEqual(t, r.UnitsSold, top[0].UnitsSold)
		}
	}
}

func TestTopUnits_FewRowsAndMissing(t *testing.T) {
	missing := seller("Ana", "Uno", "A", 1, 0)
	missing.SetMissing(sales.FieldUnitsSold)
	ds := dataset(missing, seller("Beto", "Dos", "A", 1, 4), seller("Caro", "Tres", "B", 1, 2))

	top := TopUnits(ds, 5)
	require.Len(t, top, 2)
	require.Equal(t, "Caro", top[0].FirstName)
	require.Equal(t, "Beto", top[1].FirstName)
	require.Empty(t, TopUnits(ds, 0))
	require.Empty(t, TopUnits(dataset(), 5))
}

func TestDescribe(t *testing.T) {
	s := Describe([]float64{4, 1, 3, 2})
	require.Equal(t, 4, s.Count)
	require.InDelta(t, 2.5, s.Mean, 1e-9)
	require.InDelta(t, 1.2909944, s.Std, 1e-6)
	require.InDelta(t, 1.0, s.Min, 1e-9)
	require.InDelta(t, 1.75, s.Q25, 1e-9)
	require.InDelta(t, 2.5, s.Q50, 1e-9)
	require.InDelta(t, 3.25, s.Q75, 1e-9)
	require.InDelta(t, 4.0, s.Max, 1e-9)

	one := Describe([]float64{7})
	require.InDelta(t, 7.0, one.Q75, 1e-9)
	require.True(t, math.IsNaN(one.Std))

	none := Describe(nil)
	require.Equal(t, 0, none.Count)
	require.True(t, math.IsNaN(none.Mean))
	require.True(t, math.IsNaN(none.Max))
}

func TestBuildProfile_CountsMissing(t *testing.T) {
	r := seller("Ana", "Uno", "A", 100, 1)
	r.SetMissing(sales.FieldSalary)
	ds := dataset(r, seller("Beto", "Dos", "A", 300, 2))

	p := BuildProfile(ds)
	require.Equal(t, 2, p.Records)
	require.Equal(t, 6, p.Columns)
	require.Equal(t, 1, p.Missing)
	require.Equal(t, 1, CountMissing(ds))
	require.Equal(t, 1, p.Salary.Count)
	require.Equal(t, 2, p.TotalSales.Count)
	require.InDelta(t, 200.0, p.TotalSales.Mean, 1e-9)
}

func TestRegionConcentration(t *testing.T) {
	agg, err := Aggregate(scenario())
	require.NoError(t, err)

	c, err := RegionConcentration(agg, 2)
	require.NoError(t, err)
	require.Equal(t, BandHigh, c.Band)
	require.InDelta(t, 0.345, c.HHI, 0.001)
	require.Len(t, c.Groups, 2)
	require.Equal(t, "C", c.Groups[0].Name)
	require.Equal(t, "A", c.Groups[1].Name)
	require.InDelta(t, 0.247, c.OtherShare, 0.001)

	zero := Aggregation{Regions: []RegionAggregate{{Region: "A"}}}
	_, err = RegionConcentration(zero, 5)
	require.Error(t, err)
}
