// Package renderbridge defines the pure formatting contract the cockpit
// controller consumes from the (externally provided) render layer. The
// controller never crashes on a bridge failure — it substitutes the
// deterministic fallback strings in this package and marks the tick
// degraded.
package renderbridge

import (
	"fmt"
	"time"

	"github.com/aura-systems/aura/internal/types"
)

// Fallback strings substituted when a Bridge call fails.
const (
	FallbackCPULine     = "CPU: --.-%"
	FallbackMemoryLine  = "MEM: --.-%"
	FallbackTimestampLine = "--:--:--"
	FallbackProcessRow  = "? ---- --.-% ----B"
	FallbackStatusLine  = "status unavailable"
	FallbackDiskLine    = "DISK: --.- / --.- B/s"
	FallbackNetworkLine = "NET: --.- / --.- B/s"
)

// Bridge is the set of pure formatting functions the controller's step 7
// ("Format strings") invokes. Implementations must not block or mutate
// shared state; an error is treated as "render unavailable" for that field
// only. A panic is not recovered by the controller.
type Bridge interface {
	FormatSnapshotLines(cpuPercent, memoryPercent, wallSeconds float64) (cpuLine, memoryLine, timestampLine string, err error)
	FormatProcessRow(p types.ProcessSample) (string, error)
	FormatStreamStatus(degraded bool, faultDescription string) (string, error)
	FormatDiskRate(readBps, writeBps float64) (string, error)
	FormatNetworkRate(recvBps, sentBps float64) (string, error)
}

// Default is Aura's built-in Bridge: plain, locale-independent text
// formatting with no external dependency, used whenever no richer render
// layer is wired in (e.g. headless CLI mode).
type Default struct{}

// NewDefault returns the built-in formatting Bridge.
func NewDefault() Default { return Default{} }

func (Default) FormatSnapshotLines(cpuPercent, memoryPercent, wallSeconds float64) (string, string, string, error) {
	cpuLine := fmt.Sprintf("CPU: %5.1f%%", cpuPercent)
	memLine := fmt.Sprintf("MEM: %5.1f%%", memoryPercent)
	ts := time.Unix(int64(wallSeconds), 0).UTC().Format("15:04:05")
	return cpuLine, memLine, ts, nil
}

func (Default) FormatProcessRow(p types.ProcessSample) (string, error) {
	return fmt.Sprintf("%-6d %-20s %5.1f%% %10s", p.PID, p.Name, p.CPUPercent, p.MemoryRSSByte.Humanized()), nil
}

func (Default) FormatStreamStatus(degraded bool, faultDescription string) (string, error) {
	if degraded {
		if faultDescription == "" {
			faultDescription = "degraded"
		}
		return "DEGRADED: " + faultDescription, nil
	}
	return "OK", nil
}

func (Default) FormatDiskRate(readBps, writeBps float64) (string, error) {
	return fmt.Sprintf("DISK: R %8.1f B/s  W %8.1f B/s", readBps, writeBps), nil
}

func (Default) FormatNetworkRate(recvBps, sentBps float64) (string, error) {
	return fmt.Sprintf("NET: ↓ %8.1f B/s  ↑ %8.1f B/s", recvBps, sentBps), nil
}
