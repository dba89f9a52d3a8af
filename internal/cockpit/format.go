package cockpit

import (
	"github.com/aura-systems/aura/internal/renderbridge"
	"github.com/aura-systems/aura/internal/types"
)

// formatState implements step 7 ("Format strings") and assembles the final
// CockpitUIState per the health-bit state machine in spec.md §4.5: a
// render-bridge failure never propagates past this function, it only
// downgrades renderAvailable and substitutes fallback text.
func (c *Controller) formatState(
	frame types.Frame,
	processes []types.ProcessSample,
	telemetryAvailable, degraded bool,
	timeline []types.TimelinePoint,
	timelineSource types.TimelineSource,
	style types.StyleTokens,
) types.CockpitUIState {
	renderAvailable := true

	cpuLine, memLine, tsLine, err := c.render.FormatSnapshotLines(c.smoothedCPU, c.smoothedMem, c.clk.WallSeconds())
	if err != nil {
		cpuLine, memLine, tsLine = renderbridge.FallbackCPULine, renderbridge.FallbackMemoryLine, renderbridge.FallbackTimestampLine
		renderAvailable = false
	}

	var processRows []string
	if telemetryAvailable {
		for _, p := range processes {
			row, err := c.render.FormatProcessRow(p)
			if err != nil {
				row = renderbridge.FallbackProcessRow
				renderAvailable = false
			}
			processRows = append(processRows, row)
		}
	} else if c.lastGood != nil {
		processRows = c.lastGood.ProcessRows
	}

	diskLine, err := c.render.FormatDiskRate(frame.Disk.ReadBps, frame.Disk.WriteBps)
	if err != nil {
		diskLine = renderbridge.FallbackDiskLine
		renderAvailable = false
	}

	netLine, err := c.render.FormatNetworkRate(frame.Network.RecvBps, frame.Network.SentBps)
	if err != nil {
		netLine = renderbridge.FallbackNetworkLine
		renderAvailable = false
	}

	finalDegraded := degraded || !renderAvailable

	fault := faultDescription(telemetryAvailable, renderAvailable)
	statusLine, err := c.render.FormatStreamStatus(finalDegraded, fault)
	if err != nil {
		statusLine = renderbridge.FallbackStatusLine
		renderAvailable = false
		finalDegraded = true
	}

	timelineLine := formatTimelineLine(timelineSource, len(timeline))

	var timelineOut []types.TimelinePoint
	if !telemetryAvailable && c.lastGood != nil {
		timelineOut = c.lastGood.Timeline
		timelineSource = c.lastGood.TimelineSource
		timelineLine = c.lastGood.TimelineLine
	} else {
		timelineOut = timeline
	}

	return types.CockpitUIState{
		SmoothedCPUPercent:    c.smoothedCPU,
		SmoothedMemoryPercent: c.smoothedMem,

		CPULine:       cpuLine,
		MemoryLine:    memLine,
		TimestampLine: tsLine,
		ProcessRows:   processRows,
		StatusLine:    statusLine,
		TimelineLine:  timelineLine,
		DiskLine:      diskLine,
		NetworkLine:   netLine,

		Timeline:       timelineOut,
		TimelineSource: timelineSource,

		Style: style,

		TelemetryAvailable: telemetryAvailable,
		RenderAvailable:    renderAvailable,
		Degraded:           finalDegraded,
	}
}

func faultDescription(telemetryAvailable, renderAvailable bool) string {
	switch {
	case !telemetryAvailable && !renderAvailable:
		return "Telemetry degraded: collector missing; render unavailable"
	case !telemetryAvailable:
		return "Telemetry degraded: collector missing"
	case !renderAvailable:
		return "Render unavailable: formatting failed"
	default:
		return ""
	}
}

func formatTimelineLine(source types.TimelineSource, n int) string {
	switch source {
	case types.TimelineDVR:
		return "timeline: dvr (" + itoaSmall(n) + " pts)"
	case types.TimelineLive:
		return "timeline: live (" + itoaSmall(n) + " pts)"
	default:
		return "timeline: none"
	}
}

func itoaSmall(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
