//go:build !windows

package telemetry

import "github.com/aura-systems/aura/internal/types"

// collectGPUPlatform reports GPU telemetry as uniformly unavailable on
// platforms without a wired counter source, per spec.md §9's Open
// Question resolution (only Windows coverage was implemented upstream).
func collectGPUPlatform() (types.GPUStats, error) {
	return types.GPUStats{Available: false}, nil
}
