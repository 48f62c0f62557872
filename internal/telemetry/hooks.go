package telemetry

import (
	"time"

	"github.com/rs/zerolog"
)

// Stage names reported by the pipeline.
const (
	StageLoad      = "load"
	StageProfile   = "profile"
	StageAggregate = "aggregate"
	StageRank      = "rank"
	StageRender    = "render"
	StageReport    = "report"
)

// Hooks logs the lifecycle of an analysis run. A zero Hooks logs nowhere.
type Hooks struct {
	logger zerolog.Logger
}

// NewHooks constructs a Hooks instance with the provided logger.
func NewHooks(logger zerolog.Logger) *Hooks {
	return &Hooks{logger: logger}
}

// OnRunStart is called once the input path is known.
func (h *Hooks) OnRunStart(input string) {
	h.logger.Info().Str("input", input).Msg("analysis starting")
}

// OnRunEnd records the outcome of the whole run.
func (h *Hooks) OnRunEnd(duration time.Duration, err error) {
	if err != nil {
		h.logger.Error().Dur("duration", duration).Err(err).Msg("analysis failed")
		return
	}
	h.logger.Info().Dur("duration", duration).Msg("analysis finished")
}

// OnStage logs a pipeline stage and its outcome.
func (h *Hooks) OnStage(stage string, duration time.Duration, err error) {
	if err != nil {
		h.logger.Error().Str("stage", stage).Dur("duration", duration).Err(err).Msg("stage error")
		return
	}
	h.logger.Debug().Str("stage", stage).Dur("duration", duration).Msg("stage completed")
}

// OnChartRendered logs one chart artifact.
func (h *Hooks) OnChartRendered(index int, slug, path string, duration time.Duration, err error) {
	if err != nil {
		h.logger.Error().Int("index", index).Str("chart", slug).Dur("duration", duration).Err(err).Msg("chart render error")
		return
	}
	h.logger.Info().Int("index", index).Str("chart", slug).Str("path", path).Dur("duration", duration).Msg("chart rendered")
}

// Time starts a stage timer; calling the returned func reports the stage.
func (h *Hooks) Time(stage string) func(error) {
	start := time.Now()
	return func(err error) {
		h.OnStage(stage, time.Since(start), err)
	}
}
