package runtime

import (
	"context"
	"time"

	"github.com/vinodismyname/ventasxcel/config"
)

// Limits captures the row and time guardrails applied to one analysis run.
type Limits struct {
	// Row bounds
	MaxRows        int
	HeaderScanRows int

	// Timeouts
	OperationTimeout time.Duration
}

// NewLimits initializes Limits with sensible fallbacks when values are unset.
func NewLimits(maxRows int, operationTimeout time.Duration) Limits {
	if maxRows <= 0 {
		maxRows = config.DefaultMaxRows
	}
	if operationTimeout <= 0 {
		operationTimeout = config.DefaultOperationTimeout
	}
	return Limits{
		MaxRows:          maxRows,
		HeaderScanRows:   config.DefaultHeaderScanRows,
		OperationTimeout: operationTimeout,
	}
}

// WithDeadline derives a context bounded by the operation timeout.
func (l Limits) WithDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if l.OperationTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, l.OperationTimeout)
}
