package report

import (
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/vinodismyname/ventasxcel/internal/insights"
	"github.com/vinodismyname/ventasxcel/internal/sales"
)

// RenderedChart pairs a chart with the file it was written to.
type RenderedChart struct {
	Chart
	Path string
}

// Document is everything the Markdown report shows.
type Document struct {
	Source        string
	RunID         string
	GeneratedAt   time.Time
	Profile       insights.Profile
	Aggregation   insights.Aggregation
	Ranking       []sales.Record
	Concentration *insights.Concentration // nil when shares are undefined
	Charts        []RenderedChart
}

// MarkdownWriter outputs the analysis as a Markdown document.
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

// Write outputs the full report and returns the number of bytes written.
func (w *MarkdownWriter) Write(doc Document) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, doc)
	w.writeSummary(md, doc.Profile)
	w.writeRegions(md, doc)
	w.writePerformers(md, doc.Aggregation)
	w.writeRanking(md, doc.Ranking)
	w.writeCharts(md, doc.Charts)
	w.writeConclusions(md, doc.Aggregation.Summary)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, doc Document) {
	md.H1("Análisis de Vendedores")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Propiedad", "Valor"},
		Rows: [][]string{
			{"Archivo", markdown.Code(filepath.Base(doc.Source))},
			{"Fecha", doc.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Ejecución", markdown.Code(doc.RunID)},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, p insights.Profile) {
	md.H2("Resumen de Datos")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Métrica", "Valor"},
		Rows: [][]string{
			{"Registros", strconv.Itoa(p.Records)},
			{"Columnas", strconv.Itoa(p.Columns)},
			{"Datos faltantes", strconv.Itoa(p.Missing)},
		},
	})
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Estadística", "SALARIO", "VENTAS TOTALES"},
		Rows:   StatsRows(p),
	})
	md.PlainText("")
	if p.Missing > 0 {
		md.Warningf("Hay %d datos vacios, se recomienda revisarlos.", p.Missing)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeRegions(md *markdown.Markdown, doc Document) {
	md.H2("Ventas por Región")
	md.PlainText("")
	rows := make([][]string, 0, len(doc.Aggregation.Regions))
	for _, r := range doc.Aggregation.Regions {
		rows = append(rows, []string{r.Region, strconv.Itoa(r.Count), Currency(r.SumTotalSales)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Región", "Vendedores", "Ventas Totales"},
		Rows:   rows,
	})
	md.PlainText("")

	if c := doc.Concentration; c != nil {
		md.PlainTextf("Índice de concentración (HHI): %s (%s). Participación fuera del top %d: %s.",
			strconv.FormatFloat(c.HHI, 'f', 3, 64), c.Band, c.TopN, Percent(c.OtherShare))
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writePerformers(md *markdown.Markdown, agg insights.Aggregation) {
	extremes := agg.Extremes()
	if len(extremes) == 0 {
		return
	}
	md.H2("Mejores y Peores Vendedores")
	md.PlainText("")
	rows := make([][]string, 0, len(extremes))
	for _, r := range extremes {
		rows = append(rows, []string{
			r.Region,
			r.Best.FullName(), Currency(r.Best.TotalSales),
			r.Worst.FullName(), Currency(r.Worst.TotalSales),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Región", "Mejor", "Ventas", "Menor", "Ventas"},
		Rows:   rows,
	})
	w.writePieChart(md, "Los Mejores Vendedores de cada Region", extremes, true)
	w.writePieChart(md, "Vendedores con Menores Ventas por Región", extremes, false)
}

func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, title string, extremes []insights.RegionAggregate, best bool) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle(title),
		piechart.WithShowData(true),
	)
	for _, r := range extremes {
		rec := r.Best
		if !best {
			rec = r.Worst
		}
		if rec.TotalSales <= 0 {
			continue
		}
		chart.LabelAndFloatValue(r.Region+" - "+rec.FirstName, rec.TotalSales)
	}
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeRanking(md *markdown.Markdown, ranking []sales.Record) {
	md.H2("Mayores Unidades Vendidas")
	md.PlainText("")
	if len(ranking) == 0 {
		md.PlainText("Sin datos de unidades vendidas.")
		md.PlainText("")
		return
	}
	rows := make([][]string, 0, len(ranking))
	// largest first reads better in a table
	for i := len(ranking) - 1; i >= 0; i-- {
		r := ranking[i]
		rows = append(rows, []string{strconv.Itoa(len(ranking) - i), r.FullName(), r.Region, strconv.FormatInt(r.UnitsSold, 10)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Vendedor", "Región", "Unidades"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeCharts(md *markdown.Markdown, charts []RenderedChart) {
	if len(charts) == 0 {
		return
	}
	md.H2("Gráficos")
	md.PlainText("")
	for _, c := range charts {
		md.PlainText(markdown.Image(c.Title, filepath.ToSlash(filepath.Base(c.Path))))
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeConclusions(md *markdown.Markdown, s insights.GlobalSummary) {
	md.H2("Datos y Conclusiones")
	md.PlainText("")
	md.PlainText(strings.Join(Conclusions(s), "\n"))
	md.PlainText("")
}
