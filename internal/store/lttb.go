package store

import "github.com/aura-systems/aura/internal/types"

// DownsampleLTTB implements Largest-Triangle-Three-Buckets over
// (timestamp, cpu%), preserving the first and last points and returning
// min(target, len(points)) points. A target below 3 is not downsampled: the
// result is a copy of the full input. No library in the retrieved
// corpus implements LTTB; this is a direct, hand-written port of the
// well-known bucket/triangle-area algorithm (Sveinn Steinarsson, 2013),
// adapted to operate on types.TimelinePoint instead of a generic series.
func DownsampleLTTB(points []types.TimelinePoint, target int) []types.TimelinePoint {
	n := len(points)
	if target < 3 || n <= target {
		out := make([]types.TimelinePoint, n)
		copy(out, points)
		return out
	}

	sampled := make([]types.TimelinePoint, 0, target)
	sampled = append(sampled, points[0])

	// Bucket size for the points between the fixed first/last points.
	bucketSize := float64(n-2) / float64(target-2)

	a := 0 // index of the previously selected point
	for i := 0; i < target-2; i++ {
		bucketStart := int(float64(i)*bucketSize) + 1
		bucketEnd := int(float64(i+1)*bucketSize) + 1
		if bucketEnd > n-1 {
			bucketEnd = n - 1
		}
		if bucketStart >= bucketEnd {
			bucketStart = bucketEnd - 1
		}

		// Average point of the NEXT bucket, used as one triangle vertex.
		nextStart := bucketEnd
		nextEnd := int(float64(i+2)*bucketSize) + 1
		if nextEnd > n {
			nextEnd = n
		}
		if nextStart >= nextEnd {
			nextEnd = nextStart + 1
		}
		if nextEnd > n {
			nextEnd = n
		}
		avgX, avgY := avgPoint(points[nextStart:nextEnd])

		maxArea := -1.0
		maxIdx := bucketStart
		pax, pay := points[a].Timestamp, points[a].CPUPercent
		for j := bucketStart; j < bucketEnd; j++ {
			area := triangleArea(pax, pay, points[j].Timestamp, points[j].CPUPercent, avgX, avgY)
			if area > maxArea {
				maxArea = area
				maxIdx = j
			}
		}
		sampled = append(sampled, points[maxIdx])
		a = maxIdx
	}

	sampled = append(sampled, points[n-1])
	return sampled
}

func avgPoint(pts []types.TimelinePoint) (float64, float64) {
	if len(pts) == 0 {
		return 0, 0
	}
	var sx, sy float64
	for _, p := range pts {
		sx += p.Timestamp
		sy += p.CPUPercent
	}
	return sx / float64(len(pts)), sy / float64(len(pts))
}

func triangleArea(ax, ay, bx, by, cx, cy float64) float64 {
	return abs((ax-cx)*(by-ay)-(ax-bx)*(cy-ay)) * 0.5
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
