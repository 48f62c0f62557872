package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vinodismyname/ventasxcel/config"
)

func TestNewLimits_Fallbacks(t *testing.T) {
	limits := NewLimits(0, 0)
	require.Equal(t, config.DefaultMaxRows, limits.MaxRows)
	require.Equal(t, config.DefaultOperationTimeout, limits.OperationTimeout)
	require.Equal(t, config.DefaultHeaderScanRows, limits.HeaderScanRows)

	limits = NewLimits(10, time.Second)
	require.Equal(t, 10, limits.MaxRows)
	require.Equal(t, time.Second, limits.OperationTimeout)
}

func TestWithDeadline(t *testing.T) {
	limits := NewLimits(1, 10*time.Millisecond)
	ctx, cancel := limits.WithDeadline(context.Background())
	defer cancel()

	_, ok := ctx.Deadline()
	require.True(t, ok)
	<-ctx.Done()
	require.ErrorIs(t, ctx.Err(), context.DeadlineExceeded)
}
