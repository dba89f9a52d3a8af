package telemetry

import "math"

// SanitizePercent clamps x to [0,100], coercing NaN/Inf to 0. Adapted from
// the teacher's pkg/system/util.Clamp01, generalized from the [0,1] EMA
// domain to the [0,100] percent domain used throughout the telemetry
// engine and cockpit controller.
func SanitizePercent(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	if x < 0 {
		return 0
	}
	if x > 100 {
		return 100
	}
	return x
}

// SanitizeNonNegative coerces NaN/Inf to 0 and floors at 0.
func SanitizeNonNegative(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	if x < 0 {
		return 0
	}
	return x
}

// deltaU64 returns now-prev, or 0 if the counter did not advance
// monotonically (wrap or reset). Adapted from the teacher's
// pkg/system/util.DeltaU64.
func deltaU64(now, prev uint64) uint64 {
	if now >= prev {
		return now - prev
	}
	return 0
}

// deltaF64Monotonic returns now-prev when non-negative, or (0, false) when
// the counter regressed — the system-CPU-counter analogue of deltaU64 for
// the float64 second-accumulators gopsutil exposes.
func deltaF64Monotonic(now, prev float64) (float64, bool) {
	if now < prev {
		return 0, false
	}
	return now - prev, true
}

// safeDiv returns n/d, or 0 when d is too close to zero to divide safely.
// Adapted from the teacher's pkg/system/util.SafeDiv.
func safeDiv(n, d float64) float64 {
	const eps = 1e-12
	if d > eps || d < -eps {
		return n / d
	}
	return 0
}
