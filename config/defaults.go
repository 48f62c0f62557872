package config

import "time"

// Default inputs and guardrails for the sales analysis run. They are referenced
// by the env loader below (as struct defaults) and by internal/runtime.

const (
	// Input
	DefaultInputFile      = "vendedores-1.xlsx"
	DefaultHeaderScanRows = 10

	// Output
	DefaultOutputDir  = "graficos"
	DefaultReportFile = "reporte.md"
	DefaultTopN       = 5
)

const (
	// Row bounds
	DefaultMaxRows = 100_000

	// Timeouts
	DefaultOperationTimeout = 2 * time.Minute
)

const (
	// Chart canvas sizes in inches
	DefaultBarChartWidth     = 10.0
	DefaultBarChartHeight    = 6.0
	DefaultRegionChartHeight = 5.0
	DefaultPieChartSize      = 8.0
)
