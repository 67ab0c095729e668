package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubMarker struct {
	calls   atomic.Int64
	updated int
	err     error
}

func (m *stubMarker) RefreshOverdue(_ context.Context) (int, error) {
	m.calls.Add(1)
	return m.updated, m.err
}

func TestOverdueScheduler_SweepsOnStartAndInterval(t *testing.T) {
	marker := &stubMarker{updated: 2}
	s := NewOverdueScheduler(OverdueSchedulerConfig{
		Enabled:      true,
		Interval:     20 * time.Millisecond,
		SweepTimeout: time.Second,
	}, marker, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return marker.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond, "expected startup sweep plus at least one ticked sweep")

	assert.NotNil(t, s.LastRunAt())
}

func TestOverdueScheduler_DisabledDoesNotSweep(t *testing.T) {
	marker := &stubMarker{}
	s := NewOverdueScheduler(OverdueSchedulerConfig{
		Enabled:  false,
		Interval: 10 * time.Millisecond,
	}, marker, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	time.Sleep(30 * time.Millisecond)
	s.Stop()

	assert.Zero(t, marker.calls.Load())
}

func TestOverdueScheduler_StopWaitsForSweep(t *testing.T) {
	marker := &stubMarker{}
	s := NewOverdueScheduler(OverdueSchedulerConfig{
		Enabled:      true,
		Interval:     time.Hour,
		SweepTimeout: time.Second,
	}, marker, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	s.Stop()

	// Startup sweep must have completed before Stop returned
	assert.Equal(t, int64(1), marker.calls.Load())

	// Stopping again is a no-op
	s.Stop()
}

func TestOverdueScheduler_StartIsIdempotent(t *testing.T) {
	marker := &stubMarker{}
	s := NewOverdueScheduler(OverdueSchedulerConfig{
		Enabled:      true,
		Interval:     time.Hour,
		SweepTimeout: time.Second,
	}, marker, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()))
	s.Stop()

	assert.Equal(t, int64(1), marker.calls.Load())
}
