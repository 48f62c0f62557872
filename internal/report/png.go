package report

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ChartRenderer draws one chart and returns the location of the artifact.
// index is the 1-based position of the chart in the report.
type ChartRenderer interface {
	Render(ctx context.Context, index int, c Chart) (string, error)
}

// PNGRenderer writes each chart as NN_slug.png into Dir.
type PNGRenderer struct {
	Dir string
}

// NewPNGRenderer returns a renderer for dir. Render creates dir when missing.
func NewPNGRenderer(dir string) *PNGRenderer {
	return &PNGRenderer{Dir: dir}
}

// Render implements ChartRenderer.
func (r *PNGRenderer) Render(ctx context.Context, index int, c Chart) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create chart directory: %w", err)
	}
	p, err := buildPlot(c)
	if err != nil {
		return "", fmt.Errorf("%s: %w", c.Slug, err)
	}
	path := filepath.Join(r.Dir, fmt.Sprintf("%02d_%s.png", index, c.Slug))
	if err := p.Save(vg.Length(c.Width)*vg.Inch, vg.Length(c.Height)*vg.Inch, path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	return path, nil
}

func buildPlot(c Chart) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = c.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)

	switch c.Kind {
	case KindPie:
		p.HideAxes()
		if len(c.Values) > 0 {
			p.Add(newPieChart(c.Values, c.Labels, c.Palette))
		}
		return p, nil
	case KindBar, KindHorizontalBar:
	default:
		return nil, fmt.Errorf("unsupported chart kind %s", c.Kind)
	}

	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	if len(c.Values) == 0 {
		return p, nil
	}

	horizontal := c.Kind == KindHorizontalBar
	if c.Grid {
		grid := plotter.NewGrid()
		grid.Vertical.Color = nil
		grid.Horizontal.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(grid)
	}

	extent := c.Width
	if horizontal {
		extent = c.Height
	}
	bars, err := plotter.NewBarChart(plotter.Values(c.Values), barWidth(extent, len(c.Values)))
	if err != nil {
		return nil, err
	}
	bars.Horizontal = horizontal
	bars.Color = c.Color
	bars.LineStyle.Width = vg.Length(0)
	if c.Edge != nil {
		bars.LineStyle.Color = c.Edge
		bars.LineStyle.Width = vg.Points(0.8)
	}
	p.Add(bars)

	if horizontal {
		p.NominalY(c.Labels...)
	} else {
		p.NominalX(c.Labels...)
	}
	if c.RotateLabels {
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YTop
	}

	if len(c.Annotations) == len(c.Values) {
		xys := make([]plotter.XY, len(c.Values))
		for i, v := range c.Values {
			xys[i] = plotter.XY{X: float64(i), Y: v}
			if horizontal {
				xys[i] = plotter.XY{X: v, Y: float64(i)}
			}
		}
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: c.Annotations})
		if err != nil {
			return nil, err
		}
		for i := range labels.TextStyle {
			labels.TextStyle[i].XAlign = draw.XCenter
			labels.TextStyle[i].YAlign = draw.YBottom
		}
		labels.Offset = vg.Point{Y: vg.Points(2)}
		p.Add(labels)
	}
	return p, nil
}

// barWidth spreads n bars over roughly half of the available inches.
func barWidth(inches float64, n int) vg.Length {
	w := vg.Length(inches) * vg.Inch * 0.5 / vg.Length(n)
	return max(min(w, vg.Points(60)), vg.Points(4))
}
