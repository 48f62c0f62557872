// Package report turns the derived sales figures into charts, console text
// and a Markdown summary.
package report

import (
	"fmt"
	"image/color"
	"strings"
	"unicode"

	"github.com/vinodismyname/ventasxcel/config"
	"github.com/vinodismyname/ventasxcel/internal/insights"
	"github.com/vinodismyname/ventasxcel/internal/sales"
	"golang.org/x/text/unicode/norm"
)

// Kind selects how a chart is drawn.
type Kind uint8

const (
	KindBar Kind = iota
	KindHorizontalBar
	KindPie
)

func (k Kind) String() string {
	switch k {
	case KindBar:
		return "bar"
	case KindHorizontalBar:
		return "barh"
	case KindPie:
		return "pie"
	default:
		return "unknown"
	}
}

// Chart describes one artifact of the report, independent of how it is drawn.
type Chart struct {
	Kind     Kind
	Slug     string
	Title    string
	Progress string // console line printed before rendering

	Labels []string
	Values []float64
	// Annotations, when set, are drawn above (or beside) each bar.
	Annotations []string

	XLabel       string
	YLabel       string
	RotateLabels bool
	Grid         bool

	Color   color.Color   // bars
	Edge    color.Color   // bar outline, nil for none
	Palette []color.Color // pie slices

	// Size in inches
	Width  float64
	Height float64
}

var (
	cornflowerBlue  = color.RGBA{R: 100, G: 149, B: 237, A: 255}
	mediumSeaGreen  = color.RGBA{R: 60, G: 179, B: 113, A: 255}
	orange          = color.RGBA{R: 255, G: 165, B: 0, A: 255}
	black           = color.RGBA{A: 255}
	pastelPalette   = hexPalette("fbb4ae", "b3cde3", "ccebc5", "decbe4", "fed9a6", "ffffcc", "e5d8bd", "fddaec", "f2f2f2")
	setThreePalette = hexPalette("8dd3c7", "ffffb3", "bebada", "fb8072", "80b1d3", "fdb462", "b3de69", "fccde5", "d9d9d9", "bc80bd", "ccebc5", "ffed6f")
)

// BuildCharts returns the report charts in presentation order: region totals,
// one chart per region in order of first appearance, best and worst
// performers per region, and the top units ranking.
func BuildCharts(ds *sales.Dataset, agg insights.Aggregation, ranking []sales.Record, topN int) []Chart {
	charts := make([]Chart, 0, len(agg.RegionOrder)+4)
	charts = append(charts, regionTotalsChart(agg))
	for _, region := range agg.RegionOrder {
		charts = append(charts, regionSellersChart(region, insights.RegionRecords(ds, region)))
	}
	extremes := agg.Extremes()
	charts = append(charts,
		performersChart(extremes, true),
		performersChart(extremes, false),
		topUnitsChart(ranking, topN),
	)
	return charts
}

func regionTotalsChart(agg insights.Aggregation) Chart {
	c := Chart{
		Kind:     KindBar,
		Slug:     "ventas_por_region",
		Title:    "Ventas Totales por Region",
		Progress: "Generando gráfico: Ventas por region...",
		YLabel:   "Monto ($)",
		Grid:     true,
		Color:    cornflowerBlue,
		Edge:     black,
		Width:    config.DefaultBarChartWidth,
		Height:   config.DefaultBarChartHeight,
	}
	for _, r := range agg.Regions {
		c.Labels = append(c.Labels, r.Region)
		c.Values = append(c.Values, r.SumTotalSales)
		c.Annotations = append(c.Annotations, CurrencyWhole(r.SumTotalSales))
	}
	return c
}

func regionSellersChart(region string, recs []sales.Record) Chart {
	c := Chart{
		Kind:         KindBar,
		Slug:         "region_" + Slug(region),
		Title:        "Desempeño Vendedores: Region " + region,
		Progress:     "Generando gráfico: Vendedores Region " + region,
		YLabel:       "Ventas",
		RotateLabels: true,
		Color:        mediumSeaGreen,
		Width:        config.DefaultBarChartWidth,
		Height:       config.DefaultRegionChartHeight,
	}
	for _, r := range recs {
		c.Labels = append(c.Labels, r.FullName())
		// absent sales draw as an empty slot
		c.Values = append(c.Values, r.TotalSales)
	}
	return c
}

func performersChart(extremes []insights.RegionAggregate, best bool) Chart {
	c := Chart{
		Kind:    KindPie,
		Slug:    "mejores_vendedores",
		Title:   "Los Mejores Vendedores de cada Region",
		Palette: pastelPalette,
		Width:   config.DefaultPieChartSize,
		Height:  config.DefaultPieChartSize,
	}
	c.Progress = "Generando gráfico: Mejores Vendedores (Gráfica de Pastel)..."
	if !best {
		c.Slug = "peores_vendedores"
		c.Title = "Vendedores con Menores Ventas por Región"
		c.Progress = "Generando gráfico: Peores Vendedores (Gráfica de Pastel)..."
		c.Palette = setThreePalette
	}
	for _, r := range extremes {
		rec := r.Best
		if !best {
			rec = r.Worst
		}
		c.Labels = append(c.Labels, r.Region+"\n"+rec.FirstName)
		c.Values = append(c.Values, rec.TotalSales)
	}
	return c
}

func topUnitsChart(ranking []sales.Record, topN int) Chart {
	c := Chart{
		Kind:     KindHorizontalBar,
		Slug:     "top_unidades",
		Title:    fmt.Sprintf("Top %d: Mayores Unidades Vendidas (Global)", topN),
		Progress: fmt.Sprintf("Generando gráfico: Top %d Unidades...", topN),
		XLabel:   "Unidades",
		Color:    orange,
		Edge:     black,
		Width:    config.DefaultBarChartWidth,
		Height:   config.DefaultBarChartHeight,
	}
	for _, r := range ranking {
		c.Labels = append(c.Labels, fmt.Sprintf("%s %s (%s)", r.FirstName, r.LastName, r.Region))
		c.Values = append(c.Values, float64(r.UnitsSold))
	}
	return c
}

// Slug lowercases s, drops accents and replaces every run of other
// characters with a single underscore.
func Slug(s string) string {
	var b strings.Builder
	pending := false
	for _, r := range norm.NFD.String(s) {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(unicode.ToLower(r))
		default:
			pending = true
		}
	}
	if b.Len() == 0 {
		return "sin_nombre"
	}
	return b.String()
}

func hexPalette(hex ...string) []color.Color {
	out := make([]color.Color, 0, len(hex))
	for _, h := range hex {
		var r, g, b uint8
		fmt.Sscanf(h, "%02x%02x%02x", &r, &g, &b)
		out = append(out, color.RGBA{R: r, G: g, B: b, A: 255})
	}
	return out
}
