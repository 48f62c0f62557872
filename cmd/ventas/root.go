package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vinodismyname/ventasxcel/config"
	"github.com/vinodismyname/ventasxcel/internal/pipeline"
	"github.com/vinodismyname/ventasxcel/internal/report"
	"github.com/vinodismyname/ventasxcel/internal/runtime"
	"github.com/vinodismyname/ventasxcel/internal/security"
	"github.com/vinodismyname/ventasxcel/internal/telemetry"
	"github.com/vinodismyname/ventasxcel/internal/workbooks"
	"github.com/vinodismyname/ventasxcel/pkg/ventaserr"
	"github.com/vinodismyname/ventasxcel/pkg/version"
)

// NewRootCmd creates the ventas command. Console text goes to stdout, logs to
// stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ventas [archivo.xlsx]",
		Short: "Analyze a salesperson workbook",
		Long: `ventas reads a workbook of salespeople (NOMBRE, APELLIDO, REGION, SALARIO,
VENTAS TOTALES, UNIDADES VENDIDAS), prints summary statistics, renders
charts per region and for the top sellers, and closes with conclusions.

Every flag can also be set through a VENTAS_* environment variable;
flags win over the environment.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, args)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	defaults := config.Default()
	f := cmd.Flags()
	f.String("sheet", "", "Sheet to analyze (default: first sheet)")
	f.StringP("output-dir", "o", defaults.OutputDir, "Directory for charts and the report")
	f.IntP("top", "n", defaults.TopN, "Size of the units sold ranking")
	f.String("report", defaults.Report, `Markdown report file name inside the output directory ("" to skip)`)
	f.Int("max-rows", defaults.MaxRows, "Maximum number of data rows to read")
	f.Duration("timeout", defaults.Timeout, "Upper bound for the whole run")
	f.StringSlice("allowed-dir", nil, "Restrict input workbooks to these directories")
	f.String("log-level", defaults.LogLevel, "Log level: trace, debug, info, warn, error, disabled")
	f.String("log-format", defaults.LogFormat, "Log format: json or console")

	return cmd
}

// resolveConfig layers defaults, VENTAS_* variables, the positional path and
// explicitly set flags, then validates the result.
func resolveConfig(cmd *cobra.Command, args []string) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, ventaserr.Wrap(ventaserr.InvalidConfig, err)
	}
	if len(args) == 1 {
		cfg.Input = args[0]
	}

	f := cmd.Flags()
	var ferr error
	setString := func(name string, dst *string) {
		if f.Changed(name) && ferr == nil {
			*dst, ferr = f.GetString(name)
		}
	}
	setInt := func(name string, dst *int) {
		if f.Changed(name) && ferr == nil {
			*dst, ferr = f.GetInt(name)
		}
	}
	setString("sheet", &cfg.Sheet)
	setString("output-dir", &cfg.OutputDir)
	setString("report", &cfg.Report)
	setString("log-level", &cfg.LogLevel)
	setString("log-format", &cfg.LogFormat)
	setInt("top", &cfg.TopN)
	setInt("max-rows", &cfg.MaxRows)
	if f.Changed("timeout") && ferr == nil {
		cfg.Timeout, ferr = f.GetDuration("timeout")
	}
	if f.Changed("allowed-dir") && ferr == nil {
		cfg.AllowedDirs, ferr = f.GetStringSlice("allowed-dir")
	}
	if ferr != nil {
		return cfg, ventaserr.Wrap(ventaserr.InvalidConfig, ferr)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, ventaserr.Wrap(ventaserr.InvalidConfig, err)
	}
	return cfg, nil
}

func run(ctx context.Context, cfg config.Config, stdout, stderr io.Writer) error {
	runID := uuid.NewString()
	logger := newLogger(stderr, cfg).With().Str("run_id", runID).Logger()
	ctx = logger.WithContext(ctx)

	limits := runtime.NewLimits(cfg.MaxRows, cfg.Timeout)
	ctx, cancel := limits.WithDeadline(ctx)
	defer cancel()

	sec, err := security.NewManager(cfg.AllowedDirs, nil)
	if err != nil {
		logger.Error().Err(err).Msg("security: invalid allow-list configuration")
		return ventaserr.Wrap(ventaserr.InvalidConfig, err)
	}
	if dirs := sec.AllowedDirectories(); len(dirs) > 0 {
		logger.Info().Strs("allowed_dirs", dirs).Msg("security allow-list configured")
	}

	logger.Info().
		Str("version", version.Version()).
		Str("revision", version.Revision()).
		Str("input", cfg.Input).
		Str("output_dir", cfg.OutputDir).
		Int("top_n", cfg.TopN).
		Int("max_rows", limits.MaxRows).
		Dur("timeout", limits.OperationTimeout).
		Msg("run configured")

	p := pipeline.New(
		workbooks.NewLoader(limits, sec),
		report.NewPNGRenderer(cfg.OutputDir),
		report.NewConsole(stdout),
		telemetry.NewHooks(logger),
		pipeline.Options{
			Sheet:     cfg.Sheet,
			TopN:      cfg.TopN,
			OutputDir: cfg.OutputDir,
			Report:    cfg.Report,
			RunID:     runID,
		},
	)
	res, err := p.Run(ctx, cfg.Input)
	if err != nil {
		if steps := ventaserr.NextSteps(err); steps != "" {
			logger.Warn().Str("next_steps", steps).Msg("run aborted")
		}
		return err
	}
	if res.ReportPath != "" {
		logger.Info().Str("report", res.ReportPath).Msg("report written")
	}
	return nil
}

func newLogger(w io.Writer, cfg config.Config) zerolog.Logger {
	out := w
	if cfg.LogFormat == "console" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(out).Level(level).With().Timestamp().Str("service", "ventas").Logger()
}

// Execute runs the root command and returns the process exit status.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		// missing and unreadable workbooks were already explained on stdout
		if !ventaserr.Is(err, ventaserr.FileNotFound) && !ventaserr.Is(err, ventaserr.ParseFailure) {
			fmt.Fprintln(os.Stderr, err)
		}
		return ventaserr.ExitCode(err)
	}
	return 0
}
