package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aura-systems/aura/internal/clock"
	"github.com/aura-systems/aura/internal/types"
)

func openTestStore(t *testing.T, clk clock.Clock, retention float64) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aura.db")
	s, err := Open(path, retention, clk)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenRejectsNonPositiveRetention(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aura.db")
	_, err := Open(path, 0, clock.NewFakeClock(0, 0))
	require.Error(t, err)
}

func TestOpenCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "aura.db")
	s, err := Open(path, 60, clock.NewFakeClock(0, 0))
	require.NoError(t, err)
	defer s.Close()
}

func TestAppendAndCount(t *testing.T) {
	clk := clock.NewFakeClock(1000, 0)
	s := openTestStore(t, clk, 3600)

	require.NoError(t, s.Append(types.Sample{Timestamp: 1000, CPUPercent: 10}))
	require.NoError(t, s.Append(types.Sample{Timestamp: 1001, CPUPercent: 20}))

	n, err := s.Count()
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestAppendPreservesDuplicateTimestamps(t *testing.T) {
	clk := clock.NewFakeClock(1000, 0)
	s := openTestStore(t, clk, 3600)

	require.NoError(t, s.Append(types.Sample{Timestamp: 500, CPUPercent: 1}))
	require.NoError(t, s.Append(types.Sample{Timestamp: 500, CPUPercent: 2}))

	n, err := s.Count()
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestAppendPrunesBeyondRetentionHorizon(t *testing.T) {
	clk := clock.NewFakeClock(1000, 0)
	s := openTestStore(t, clk, 60)

	require.NoError(t, s.Append(types.Sample{Timestamp: 1000 - 120, CPUPercent: 1}))
	require.NoError(t, s.Append(types.Sample{Timestamp: 1000, CPUPercent: 2}))

	n, err := s.Count()
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestLatestReturnsAscendingOrder(t *testing.T) {
	clk := clock.NewFakeClock(1000, 0)
	s := openTestStore(t, clk, 3600)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Append(types.Sample{Timestamp: float64(900 + i), CPUPercent: float64(i)}))
	}

	got, err := s.Latest(3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, 902.0, got[0].Timestamp)
	require.Equal(t, 904.0, got[2].Timestamp)
}

func TestBetweenHonorsOptionalBounds(t *testing.T) {
	clk := clock.NewFakeClock(1000, 0)
	s := openTestStore(t, clk, 3600)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Append(types.Sample{Timestamp: float64(900 + i), CPUPercent: float64(i)}))
	}

	start := 901.0
	end := 903.0
	got, err := s.Between(&start, &end)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, 901.0, got[0].Timestamp)
	require.Equal(t, 903.0, got[2].Timestamp)

	all, err := s.Between(nil, nil)
	require.NoError(t, err)
	require.Len(t, all, 5)
}

func TestQueryTimelineDownsamples(t *testing.T) {
	clk := clock.NewFakeClock(10000, 0)
	s := openTestStore(t, clk, 1_000_000)

	for i := 0; i < 500; i++ {
		require.NoError(t, s.Append(types.Sample{Timestamp: float64(i), CPUPercent: float64(i % 100)}))
	}

	points, err := s.QueryTimeline(nil, nil, 64)
	require.NoError(t, err)
	require.Len(t, points, 64)
}

func TestQueryTimelineRejectsResolutionBelowThree(t *testing.T) {
	clk := clock.NewFakeClock(0, 0)
	s := openTestStore(t, clk, 3600)
	_, err := s.QueryTimeline(nil, nil, 2)
	require.Error(t, err)
}

// TestAppendRoundTripsExtensionChannels verifies the optional per-core,
// thermal, and GPU channels survive Append->Latest/Between, and that a
// channel the collector didn't produce this tick comes back as a nil/zero
// value rather than an empty-but-present one.
func TestAppendRoundTripsExtensionChannels(t *testing.T) {
	clk := clock.NewFakeClock(1000, 0)
	s := openTestStore(t, clk, 3600)

	full := types.Sample{
		Timestamp:  1000,
		CPUPercent: 42,
		PerCoreCPU: []float64{10, 20, 30},
		Thermal:    []types.ThermalSensor{{Label: "cpu0", Celsius: 55.5}},
		GPU:        types.GPUStats{Available: true, GPUPercent: 12, VRAMPercent: 34},
	}
	require.NoError(t, s.Append(full))
	require.NoError(t, s.Append(types.Sample{Timestamp: 1001, CPUPercent: 7}))

	got, err := s.Latest(2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.Equal(t, full.PerCoreCPU, got[0].PerCoreCPU)
	require.Equal(t, full.Thermal, got[0].Thermal)
	require.Equal(t, full.GPU, got[0].GPU)

	require.Nil(t, got[1].PerCoreCPU)
	require.Nil(t, got[1].Thermal)
	require.Equal(t, types.GPUStats{}, got[1].GPU)

	start := 1000.0
	end := 1001.0
	between, err := s.Between(&start, &end)
	require.NoError(t, err)
	require.Len(t, between, 2)
	require.Equal(t, full.PerCoreCPU, between[0].PerCoreCPU)
}
