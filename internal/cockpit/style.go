package cockpit

import (
	"math"

	"github.com/aura-systems/aura/internal/types"
)

// loadBand buckets a load fraction into a severity level: 0 calm, 1 busy,
// 2 hot, 3 critical.
func loadBand(loadFrac float64) int {
	switch {
	case loadFrac >= 0.9:
		return 3
	case loadFrac >= 0.7:
		return 2
	case loadFrac >= 0.4:
		return 1
	default:
		return 0
	}
}

// deriveStyleTokens is a pure function of the controller's per-tick
// observable state, producing the full StyleTokens surface handed to the
// render layer.
func deriveStyleTokens(phase, smoothedCPU, smoothedMem, dt float64, cfg Config, degraded bool, frameSlack float64, anomalyAlpha float64) types.StyleTokens {
	loadFrac := clampUnit(math.Max(smoothedCPU, smoothedMem) / 100)
	pulse := cfg.PulseStrength * math.Sin(2*math.Pi*phase)
	accent := clampRange(loadFrac+pulse, cfg.AccentFloor, cfg.AccentCeiling)

	severity := loadBand(loadFrac)

	motionScale := 1.0
	if degraded {
		motionScale = 0.3
	}

	qualityHint := 2
	switch {
	case frameSlack < 0:
		qualityHint = 0
	case frameSlack < cfg.FrameIntervalSeconds*0.5:
		qualityHint = 1
	}

	r, g, b := accentRGB(severity)

	return types.StyleTokens{
		Phase:                phase,
		NextDelaySeconds:     math.Max(0, cfg.FrameIntervalSeconds-dt),
		AccentIntensity:      accent,
		AccentR:              r,
		AccentG:              g,
		AccentB:              b,
		AccentA:              clampUnit(0.4 + 0.6*accent),
		FrostIntensity:       clampUnit(1 - loadFrac),
		TintStrength:         clampUnit(loadFrac),
		RingLineWidth:        clampRange(1+6*loadFrac, 0.01, 7),
		RingGlowStrength:     accent,
		CPUAlpha:             clampUnit(0.3 + 0.7*(smoothedCPU/100)),
		MemoryAlpha:          clampUnit(0.3 + 0.7*(smoothedMem/100)),
		SeverityLevel:        severity,
		MotionScale:          motionScale,
		QualityHint:          qualityHint,
		TimelineAnomalyAlpha: clampUnit(anomalyAlpha),
	}
}

// accentRGB maps a severity band to an accent color: calm blue, busy teal,
// hot amber, critical red.
func accentRGB(severity int) (float64, float64, float64) {
	switch severity {
	case 1:
		return 0.1, 0.8, 0.6
	case 2:
		return 0.95, 0.65, 0.1
	case 3:
		return 0.9, 0.15, 0.15
	default:
		return 0.2, 0.5, 0.95
	}
}

// rollingVariance computes the population variance of samples, used to
// derive timeline_anomaly_alpha from recent CPU history.
func rollingVariance(samples []float64) float64 {
	n := len(samples)
	if n == 0 {
		return 0
	}
	var mean float64
	for _, v := range samples {
		mean += v
	}
	mean /= float64(n)

	var sumSq float64
	for _, v := range samples {
		d := v - mean
		sumSq += d * d
	}
	return sumSq / float64(n)
}

// anomalyAlphaFromVariance maps a CPU-percent variance to [0,1], saturating
// at a variance of 900 (i.e. a stddev of 30 percentage points).
func anomalyAlphaFromVariance(variance float64) float64 {
	const saturation = 900.0
	return clampUnit(variance / saturation)
}
