package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/vinodismyname/ventasxcel/internal/insights"
)

// Console prints the user-facing Spanish text of a run.
type Console struct {
	w io.Writer
}

// NewConsole returns a Console writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// FileNotFound explains that the input workbook is missing.
func (c *Console) FileNotFound(name string) {
	fmt.Fprintf(c.w, "No se pudo encontrar '%s'.\n", name)
	fmt.Fprintln(c.w, "Asegurate de que el archivo este en la misma carpeta que este programa.")
}

// NotAllowed reports an input outside the allowed directories.
func (c *Console) NotAllowed(name string) {
	fmt.Fprintf(c.w, "El archivo '%s' esta fuera de las carpetas permitidas.\n", name)
}

// ReadError reports a workbook that exists but could not be read.
func (c *Console) ReadError(err error) {
	fmt.Fprintf(c.w, "Error al leer el Excel: %v\n", err)
}

// Found announces the start of the analysis.
func (c *Console) Found(name string) {
	fmt.Fprintf(c.w, "Archivo '%s' encontrado. Iniciando análisis...\n\n", name)
}

// Summary prints the data summary, the statistics table and the missing
// value count. The returned error only reports a failed statistics table;
// the remaining lines are always printed.
func (c *Console) Summary(p insights.Profile) error {
	fmt.Fprintln(c.w, "-- RESUMEN DE DATOS --")
	fmt.Fprintf(c.w, "Total de registros: %d\n", p.Records)
	fmt.Fprintf(c.w, "Total de columnas: %d\n", p.Columns)
	fmt.Fprintln(c.w, "\nEstadisticas clave: ")
	err := c.statsTable(p)

	fmt.Fprintf(c.w, "\nDatos faltantes encontrados: %d\n", p.Missing)
	if p.Missing > 0 {
		fmt.Fprintln(c.w, "Advertencia: Hay datos vacios, se recomienda revisarlos.")
	}
	return err
}

func (c *Console) statsTable(p insights.Profile) error {
	table := tablewriter.NewTable(c.w,
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithAlignment(tw.Alignment{tw.AlignLeft, tw.AlignRight, tw.AlignRight}),
	)
	table.Header("", "SALARIO", "VENTAS TOTALES")
	if err := table.Bulk(StatsRows(p)); err != nil {
		return fmt.Errorf("statistics table: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("statistics table: %w", err)
	}
	return nil
}

// StatsRows lays out describe-style statistics as rows of
// [name, salary, total sales].
func StatsRows(p insights.Profile) [][]string {
	s, t := p.Salary, p.TotalSales
	return [][]string{
		{"count", strconv.Itoa(s.Count), strconv.Itoa(t.Count)},
		{"mean", stat(s.Mean), stat(t.Mean)},
		{"std", stat(s.Std), stat(t.Std)},
		{"min", stat(s.Min), stat(t.Min)},
		{"25%", stat(s.Q25), stat(t.Q25)},
		{"50%", stat(s.Q50), stat(t.Q50)},
		{"75%", stat(s.Q75), stat(t.Q75)},
		{"max", stat(s.Max), stat(t.Max)},
	}
}

func stat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return numbers.Sprintf("%.2f", v)
}

// Progress prints the line announcing a chart.
func (c *Console) Progress(line string) {
	fmt.Fprintln(c.w, line)
}

// Conclusions prints the closing block.
func (c *Console) Conclusions(s insights.GlobalSummary) {
	rule := strings.Repeat("=", 40)
	fmt.Fprintf(c.w, "\n%s\nDatos y Conclusiones\n%s\n", rule, rule)
	for _, line := range Conclusions(s) {
		fmt.Fprintln(c.w, line)
	}
}

// Done prints the final line of a successful run.
func (c *Console) Done() {
	fmt.Fprintln(c.w, "\nProceso finalizado.")
}
