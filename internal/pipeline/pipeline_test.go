package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vinodismyname/ventasxcel/internal/report"
	"github.com/vinodismyname/ventasxcel/internal/runtime"
	"github.com/vinodismyname/ventasxcel/internal/security"
	"github.com/vinodismyname/ventasxcel/internal/workbooks"
	"github.com/vinodismyname/ventasxcel/pkg/ventaserr"
	"github.com/xuri/excelize/v2"
)

// recorder captures render calls instead of drawing.
type recorder struct {
	slugs []string
	fail  string
}

func (r *recorder) Render(_ context.Context, index int, c report.Chart) (string, error) {
	if c.Slug == r.fail {
		return "", errors.New("no space left on device")
	}
	r.slugs = append(r.slugs, c.Slug)
	return filepath.Join("graficos", c.Slug+".png"), nil
}

func writeSales(t *testing.T, dir string, rows ...[]any) string {
	t.Helper()
	f := excelize.NewFile()
	header := []any{"NOMBRE", "APELLIDO", "REGION", "SALARIO", "VENTAS TOTALES", "UNIDADES VENDIDAS"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	path := filepath.Join(dir, "vendedores-1.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func scenarioRows() [][]any {
	return [][]any{
		{"Ana", "Uno", "A", 1000, 100, 5},
		{"Beto", "Dos", "A", 1100, 200, 9},
		{"Caro", "Tres", "B", nil, 150, 9},
		{"Dani", "Cuatro", "B", 900, 50, 1},
		{"Eli", "Cinco", "C", 1200, 300, 7},
		{"Fer", "Seis", "C", 950, 10, 3},
	}
}

func newPipeline(t *testing.T, r report.ChartRenderer, out *bytes.Buffer, opts Options) *Pipeline {
	t.Helper()
	sec, err := security.NewManager(nil, nil)
	require.NoError(t, err)
	loader := workbooks.NewLoader(runtime.NewLimits(0, 0), sec)
	return New(loader, r, report.NewConsole(out), nil, opts)
}

func TestRun_Scenario(t *testing.T) {
	dir := t.TempDir()
	path := writeSales(t, dir, scenarioRows()...)
	outDir := filepath.Join(dir, "graficos")

	var out bytes.Buffer
	rec := &recorder{}
	res, err := newPipeline(t, rec, &out, Options{TopN: 5, OutputDir: outDir, Report: "reporte.md", RunID: "r1"}).
		Run(context.Background(), path)
	require.NoError(t, err)

	require.Equal(t, []string{
		"ventas_por_region", "region_a", "region_b", "region_c",
		"mejores_vendedores", "peores_vendedores", "top_unidades",
	}, rec.slugs)
	require.Len(t, res.Charts, 7)

	s := res.Aggregation.Summary
	require.Equal(t, "C", s.BestRegion)
	require.Equal(t, "B", s.WorstRegion)
	require.InDelta(t, 135.0, s.MeanTotalSales, 1e-9)
	require.Equal(t, 1, res.Profile.Missing)
	require.Len(t, res.Ranking, 5)
	require.NotNil(t, res.Concentration)

	text := out.String()
	require.Contains(t, text, "Archivo '"+path+"' encontrado. Iniciando análisis...")
	require.Contains(t, text, "Datos faltantes encontrados: 1")
	require.Contains(t, text, "Advertencia: Hay datos vacios, se recomienda revisarlos.")
	require.Contains(t, text, "1. La región más productiva es **C** con ventas totales de $310.00.")
	require.Contains(t, text, "4. El vendedor 'Estrella' de toda la empresa es: Eli Cinco (C).")
	require.True(t, strings.HasSuffix(text, "Proceso finalizado.\n"))

	// progress lines precede the conclusions, in chart order
	first := strings.Index(text, "Generando gráfico: Ventas por region...")
	last := strings.Index(text, "Generando gráfico: Top 5 Unidades...")
	require.True(t, first >= 0 && last > first)
	require.Less(t, last, strings.Index(text, "Datos y Conclusiones"))

	require.Equal(t, filepath.Join(outDir, "reporte.md"), res.ReportPath)
	md, err := os.ReadFile(res.ReportPath)
	require.NoError(t, err)
	require.Contains(t, string(md), "Datos y Conclusiones")
}

func TestRun_FileNotFound(t *testing.T) {
	var out bytes.Buffer
	missing := filepath.Join(t.TempDir(), "vendedores-1.xlsx")
	_, err := newPipeline(t, &recorder{}, &out, Options{}).Run(context.Background(), missing)

	require.True(t, ventaserr.Is(err, ventaserr.FileNotFound))
	require.Equal(t, 1, ventaserr.ExitCode(err))
	require.Contains(t, out.String(), "No se pudo encontrar '"+missing+"'.")
	require.Contains(t, out.String(), "Asegurate de que el archivo este en la misma carpeta que este programa.")
	require.NotContains(t, out.String(), "encontrado. Iniciando")
	require.NotContains(t, out.String(), "Proceso finalizado.")
}

func TestRun_OutsideAllowedDirs(t *testing.T) {
	path := writeSales(t, t.TempDir(), scenarioRows()...)
	sec, err := security.NewManager([]string{t.TempDir()}, nil)
	require.NoError(t, err)
	loader := workbooks.NewLoader(runtime.NewLimits(0, 0), sec)

	var out bytes.Buffer
	rec := &recorder{}
	_, err = New(loader, rec, report.NewConsole(&out), nil, Options{}).Run(context.Background(), path)

	require.True(t, ventaserr.Is(err, ventaserr.InvalidConfig))
	require.Equal(t, 5, ventaserr.ExitCode(err))
	require.ErrorIs(t, err, workbooks.ErrNotAllowed)
	require.Contains(t, out.String(), "El archivo '"+path+"' esta fuera de las carpetas permitidas.")
	require.NotContains(t, out.String(), "Error al leer el Excel")
	require.Empty(t, rec.slugs)
}

func TestRun_ParseFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vendedores-1.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a workbook"), 0o644))

	var out bytes.Buffer
	_, err := newPipeline(t, &recorder{}, &out, Options{}).Run(context.Background(), path)
	require.True(t, ventaserr.Is(err, ventaserr.ParseFailure))
	require.Equal(t, 2, ventaserr.ExitCode(err))
	// the file exists, so it is announced before parsing fails
	require.Contains(t, out.String(), "Archivo '"+path+"' encontrado. Iniciando análisis...")
	require.Contains(t, out.String(), "Error al leer el Excel: ")
	require.Less(t, strings.Index(out.String(), "encontrado"), strings.Index(out.String(), "Error al leer"))

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"NOMBRE", "REGION"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	out.Reset()
	_, err = newPipeline(t, &recorder{}, &out, Options{}).Run(context.Background(), path)
	require.True(t, ventaserr.Is(err, ventaserr.ParseFailure))
	require.True(t, errors.Is(err, workbooks.ErrMissingColumns))
}

func TestRun_EmptyDataset(t *testing.T) {
	path := writeSales(t, t.TempDir())
	var out bytes.Buffer
	rec := &recorder{}
	_, err := newPipeline(t, rec, &out, Options{}).Run(context.Background(), path)

	require.True(t, ventaserr.Is(err, ventaserr.EmptyDataset))
	require.Equal(t, 3, ventaserr.ExitCode(err))
	require.Contains(t, out.String(), "Total de registros: 0")
	require.Empty(t, rec.slugs)
}

func TestRun_RenderFailure(t *testing.T) {
	path := writeSales(t, t.TempDir(), scenarioRows()...)
	var out bytes.Buffer
	rec := &recorder{fail: "mejores_vendedores"}
	_, err := newPipeline(t, rec, &out, Options{}).Run(context.Background(), path)

	require.True(t, ventaserr.Is(err, ventaserr.RenderFailed))
	require.Len(t, rec.slugs, 4)
	require.NotContains(t, out.String(), "Datos y Conclusiones")
}

func TestRun_WithPNGRenderer(t *testing.T) {
	dir := t.TempDir()
	path := writeSales(t, dir, scenarioRows()...)
	outDir := filepath.Join(dir, "graficos")
	png := report.NewPNGRenderer(outDir)

	var out bytes.Buffer
	res, err := newPipeline(t, png, &out, Options{TopN: 3, OutputDir: outDir}).Run(context.Background(), path)
	require.NoError(t, err)
	require.Empty(t, res.ReportPath)
	require.Len(t, res.Ranking, 3)
	for _, c := range res.Charts {
		_, err := os.Stat(c.Path)
		require.NoError(t, err, c.Path)
	}
	require.Contains(t, out.String(), "Generando gráfico: Top 3 Unidades...")
}
