// Package pipeline runs one analysis end to end: load, profile, aggregate,
// rank, render and conclude, strictly in that order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/vinodismyname/ventasxcel/internal/insights"
	"github.com/vinodismyname/ventasxcel/internal/report"
	"github.com/vinodismyname/ventasxcel/internal/sales"
	"github.com/vinodismyname/ventasxcel/internal/telemetry"
	"github.com/vinodismyname/ventasxcel/internal/workbooks"
	"github.com/vinodismyname/ventasxcel/pkg/ventaserr"
)

// Loader reads the input workbook. Resolve only checks that the workbook can
// be opened; Load parses it.
type Loader interface {
	Resolve(path string) (string, error)
	Load(ctx context.Context, path, sheet string) (*sales.Dataset, error)
}

// Options tune a run.
type Options struct {
	Sheet     string
	TopN      int
	OutputDir string
	// Report is the Markdown file name inside OutputDir; empty disables it.
	Report string
	RunID  string
}

// Result carries everything derived during a successful run.
type Result struct {
	Dataset       *sales.Dataset
	Profile       insights.Profile
	Aggregation   insights.Aggregation
	Ranking       []sales.Record
	Concentration *insights.Concentration
	Charts        []report.RenderedChart
	ReportPath    string
}

// Pipeline wires the stages of a run together.
type Pipeline struct {
	loader   Loader
	renderer report.ChartRenderer
	console  *report.Console
	hooks    *telemetry.Hooks
	opts     Options
	now      func() time.Time
}

// New constructs a Pipeline. hooks may be nil.
func New(loader Loader, renderer report.ChartRenderer, console *report.Console, hooks *telemetry.Hooks, opts Options) *Pipeline {
	if hooks == nil {
		hooks = &telemetry.Hooks{}
	}
	if opts.TopN <= 0 {
		opts.TopN = 5
	}
	return &Pipeline{loader: loader, renderer: renderer, console: console, hooks: hooks, opts: opts, now: time.Now}
}

// Run analyzes the workbook at path. Failures carry a ventaserr code.
func (p *Pipeline) Run(ctx context.Context, path string) (res Result, err error) {
	start := p.now()
	p.hooks.OnRunStart(path)
	defer func() { p.hooks.OnRunEnd(p.now().Sub(start), err) }()

	done := p.hooks.Time(telemetry.StageLoad)
	resolved, err := p.loader.Resolve(path)
	if err != nil {
		done(err)
		return res, p.loadError(path, err)
	}
	p.console.Found(path)
	ds, err := p.loader.Load(ctx, resolved, p.opts.Sheet)
	done(err)
	if err != nil {
		return res, p.loadError(path, err)
	}
	res.Dataset = ds

	done = p.hooks.Time(telemetry.StageProfile)
	res.Profile = insights.BuildProfile(ds)
	done(nil)
	if err := p.console.Summary(res.Profile); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("summary table not printed")
	}

	done = p.hooks.Time(telemetry.StageAggregate)
	res.Aggregation, err = insights.Aggregate(ds)
	done(err)
	if err != nil {
		if errors.Is(err, insights.ErrEmptyDataset) {
			return res, ventaserr.Wrap(ventaserr.EmptyDataset, err)
		}
		return res, err
	}
	if c, cerr := insights.RegionConcentration(res.Aggregation, p.opts.TopN); cerr == nil {
		res.Concentration = &c
	} else {
		zerolog.Ctx(ctx).Debug().Err(cerr).Msg("region concentration skipped")
	}

	done = p.hooks.Time(telemetry.StageRank)
	res.Ranking = insights.TopUnits(ds, p.opts.TopN)
	done(nil)

	done = p.hooks.Time(telemetry.StageRender)
	res.Charts, err = p.render(ctx, report.BuildCharts(ds, res.Aggregation, res.Ranking, p.opts.TopN))
	done(err)
	if err != nil {
		return res, err
	}

	p.console.Conclusions(res.Aggregation.Summary)

	if p.opts.Report != "" {
		done = p.hooks.Time(telemetry.StageReport)
		res.ReportPath, err = p.writeReport(res)
		done(err)
		if err != nil {
			return res, ventaserr.Wrapf(ventaserr.RenderFailed, err, "write report")
		}
	}

	p.console.Done()
	return res, nil
}

func (p *Pipeline) loadError(path string, err error) error {
	switch {
	case errors.Is(err, workbooks.ErrFileNotFound):
		p.console.FileNotFound(path)
		return ventaserr.Wrap(ventaserr.FileNotFound, err)
	case errors.Is(err, workbooks.ErrNotAllowed):
		p.console.NotAllowed(path)
		return ventaserr.Wrap(ventaserr.InvalidConfig, err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return err
	default:
		p.console.ReadError(err)
		return ventaserr.Wrap(ventaserr.ParseFailure, err)
	}
}

// render draws the charts one at a time in order, announcing each first.
func (p *Pipeline) render(ctx context.Context, charts []report.Chart) ([]report.RenderedChart, error) {
	out := make([]report.RenderedChart, 0, len(charts))
	for i, c := range charts {
		p.console.Progress(c.Progress)
		start := p.now()
		path, err := p.renderer.Render(ctx, i+1, c)
		p.hooks.OnChartRendered(i+1, c.Slug, path, p.now().Sub(start), err)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return out, ctxErr
			}
			return out, ventaserr.Wrapf(ventaserr.RenderFailed, err, "chart %d (%s)", i+1, c.Slug)
		}
		out = append(out, report.RenderedChart{Chart: c, Path: path})
	}
	return out, nil
}

func (p *Pipeline) writeReport(res Result) (string, error) {
	if err := os.MkdirAll(p.opts.OutputDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(p.opts.OutputDir, p.opts.Report)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	_, werr := report.NewMarkdownWriter(f).Write(report.Document{
		Source:        res.Dataset.Path(),
		RunID:         p.opts.RunID,
		GeneratedAt:   p.now(),
		Profile:       res.Profile,
		Aggregation:   res.Aggregation,
		Ranking:       res.Ranking,
		Concentration: res.Concentration,
		Charts:        res.Charts,
	})
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return "", fmt.Errorf("%s: %w", path, werr)
	}
	return path, nil
}
