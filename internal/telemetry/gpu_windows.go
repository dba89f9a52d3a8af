//go:build windows

package telemetry

import "github.com/aura-systems/aura/internal/types"

// collectGPUPlatform is the Windows GPU collection stub. The upstream
// source this spec was distilled from only wired GPU counters on Windows
// (via vendor performance counters); no equivalent counter is reachable in
// this environment, so the stub preserves the platform split while still
// reporting unavailable until a real counter is wired in.
func collectGPUPlatform() (types.GPUStats, error) {
	return types.GPUStats{Available: false}, nil
}
