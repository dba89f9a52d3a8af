package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aura-systems/aura/internal/types"
)

func makeSeries(n int) []types.TimelinePoint {
	pts := make([]types.TimelinePoint, n)
	for i := 0; i < n; i++ {
		pts[i] = types.TimelinePoint{Timestamp: float64(i), CPUPercent: float64(i % 7)}
	}
	return pts
}

func TestDownsampleLTTBPreservesFirstAndLast(t *testing.T) {
	pts := makeSeries(100)
	out := DownsampleLTTB(pts, 10)
	require.Len(t, out, 10)
	require.Equal(t, pts[0], out[0])
	require.Equal(t, pts[len(pts)-1], out[len(out)-1])
}

func TestDownsampleLTTBOutputLengthIsMinTargetInput(t *testing.T) {
	pts := makeSeries(5)
	out := DownsampleLTTB(pts, 64)
	require.Len(t, out, 5)

	pts = makeSeries(100)
	out = DownsampleLTTB(pts, 64)
	require.Len(t, out, 64)
}

func TestDownsampleLTTBRejectsTargetBelowThree(t *testing.T) {
	pts := makeSeries(20)
	out := DownsampleLTTB(pts, 2)
	require.Len(t, out, len(pts))
}

func TestDownsampleLTTBHandlesEmptyInput(t *testing.T) {
	out := DownsampleLTTB(nil, 10)
	require.Empty(t, out)
}

func TestDownsampleLTTBOutputIsTimestampAscending(t *testing.T) {
	pts := makeSeries(200)
	out := DownsampleLTTB(pts, 30)
	for i := 1; i < len(out); i++ {
		require.Greater(t, out[i].Timestamp, out[i-1].Timestamp)
	}
}
