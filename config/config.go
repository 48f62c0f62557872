package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/vinodismyname/ventasxcel/pkg/validation"
)

// EnvPrefix namespaces every environment override (VENTAS_INPUT, VENTAS_TOP_N, ...).
const EnvPrefix = "VENTAS"

// Config holds the effective settings for one analysis run.
type Config struct {
	Input       string        `envconfig:"INPUT" validate:"required,filepath_ext"`
	Sheet       string        `envconfig:"SHEET"`
	OutputDir   string        `envconfig:"OUTPUT_DIR" validate:"required"`
	Report      string        `envconfig:"REPORT" validate:"omitempty,endswith=.md"`
	TopN        int           `envconfig:"TOP_N" validate:"min=1,max=50"`
	MaxRows     int           `envconfig:"MAX_ROWS" validate:"min=1"`
	Timeout     time.Duration `envconfig:"TIMEOUT" validate:"gt=0"`
	AllowedDirs []string      `envconfig:"ALLOWED_DIRS"`
	LogLevel    string        `envconfig:"LOG_LEVEL" validate:"oneof=trace debug info warn error disabled"`
	LogFormat   string        `envconfig:"LOG_FORMAT" validate:"oneof=json console"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Input:     DefaultInputFile,
		OutputDir: DefaultOutputDir,
		Report:    DefaultReportFile,
		TopN:      DefaultTopN,
		MaxRows:   DefaultMaxRows,
		Timeout:   DefaultOperationTimeout,
		LogLevel:  "info",
		LogFormat: "json",
	}
}

// Load starts from Default and applies VENTAS_* environment overrides.
// The result is not validated; callers apply flag overrides first and then
// call Validate.
func Load() (Config, error) {
	cfg := Default()
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("config: load from env: %w", err)
	}
	return cfg, nil
}

// Validate checks struct constraints and returns the first violation.
func (c Config) Validate() error {
	if msg := validation.ValidateStruct(c); msg != "" {
		return errors.New(msg)
	}
	return nil
}
