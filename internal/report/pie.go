package report

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// pieChart draws labelled wedges counter-clockwise from twelve o'clock, each
// annotated with its share of the total. Non-positive values get no wedge.
type pieChart struct {
	values  []float64
	labels  []string
	palette []color.Color

	labelStyle   text.Style
	percentStyle text.Style
}

var _ plot.Plotter = (*pieChart)(nil)

func newPieChart(values []float64, labels []string, palette []color.Color) *pieChart {
	style := text.Style{
		Color:   color.Black,
		Font:    font.From(plot.DefaultFont, vg.Points(11)),
		XAlign:  draw.XCenter,
		YAlign:  draw.YCenter,
		Handler: plot.DefaultTextHandler,
	}
	pct := style
	pct.Font = font.From(plot.DefaultFont, vg.Points(10))
	return &pieChart{values: values, labels: labels, palette: palette, labelStyle: style, percentStyle: pct}
}

func (p *pieChart) total() float64 {
	var sum float64
	for _, v := range p.values {
		if v > 0 {
			sum += v
		}
	}
	return sum
}

// Plot implements plot.Plotter.
func (p *pieChart) Plot(c draw.Canvas, _ *plot.Plot) {
	total := p.total()
	if total <= 0 {
		return
	}
	size := c.Rectangle.Size()
	radius := vg.Length(math.Min(float64(size.X), float64(size.Y))) * 0.35
	center := c.Center()

	start := math.Pi / 2
	for i, v := range p.values {
		if v <= 0 {
			continue
		}
		sweep := 2 * math.Pi * v / total

		var wedge vg.Path
		wedge.Move(center)
		wedge.Arc(center, radius, start, sweep)
		wedge.Close()
		c.SetColor(p.palette[i%len(p.palette)])
		c.Fill(wedge)
		c.SetColor(color.White)
		c.SetLineWidth(vg.Points(1))
		c.Stroke(wedge)

		mid := start + sweep/2
		if i < len(p.labels) {
			c.FillText(p.labelStyle, polar(center, radius*1.2, mid), p.labels[i])
		}
		c.FillText(p.percentStyle, polar(center, radius*0.6, mid), Percent(v/total))
		start += sweep
	}
}

func polar(center vg.Point, r vg.Length, angle float64) vg.Point {
	return vg.Point{
		X: center.X + r*vg.Length(math.Cos(angle)),
		Y: center.Y + r*vg.Length(math.Sin(angle)),
	}
}
