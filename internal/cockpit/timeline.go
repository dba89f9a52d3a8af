package cockpit

import "github.com/aura-systems/aura/internal/types"

// TimelineBridge is the DVR-backed timeline source. Implementations query
// a bounded, downsampled range; nil means "no DVR bridge available".
type TimelineBridge interface {
	QueryTimeline(start, end *float64, resolution int) ([]types.TimelinePoint, error)
}

// liveRing is a bounded, timestamp-ascending ring of recent (ts,cpu,mem)
// points, trimmed both by capacity and by a rolling time window.
type liveRing struct {
	capacity      int
	windowSeconds float64
	points        []types.TimelinePoint
}

func newLiveRing(capacity int, windowSeconds float64) *liveRing {
	return &liveRing{capacity: capacity, windowSeconds: windowSeconds}
}

func (r *liveRing) push(p types.TimelinePoint) {
	r.points = append(r.points, p)
	if len(r.points) > r.capacity {
		r.points = r.points[len(r.points)-r.capacity:]
	}
	horizon := p.Timestamp - r.windowSeconds
	cut := 0
	for cut < len(r.points) && r.points[cut].Timestamp < horizon {
		cut++
	}
	if cut > 0 {
		r.points = r.points[cut:]
	}
}

func (r *liveRing) snapshot() []types.TimelinePoint {
	out := make([]types.TimelinePoint, len(r.points))
	copy(out, r.points)
	return out
}

// selectTimeline implements step 6 of the tick pipeline: prefer a cached
// DVR query (refreshed every refresh_ticks) when prefer_dvr_timeline is set
// and a DB path is configured and the bridge is non-nil; otherwise fall
// back to the bounded live ring. Fewer than 2 points from either source
// yields TimelineNone with an empty timeline.
func (c *Controller) selectTimeline(now float64) ([]types.TimelinePoint, types.TimelineSource) {
	if c.cfg.PreferDVRTimeline && c.dbConfigured && c.timelineBridge != nil {
		if c.ticksSinceDVRRefresh <= 0 || c.ticksSinceDVRRefresh >= c.cfg.TimelineRefreshTicks {
			start := now - c.cfg.TimelineWindowSeconds
			end := now
			points, err := c.timelineBridge.QueryTimeline(&start, &end, c.cfg.TimelineResolution)
			if err == nil {
				c.dvrCache = points
			}
			c.ticksSinceDVRRefresh = 0
		}
		c.ticksSinceDVRRefresh++
		if len(c.dvrCache) >= 2 {
			return c.dvrCache, types.TimelineDVR
		}
	}

	live := c.ring.snapshot()
	if len(live) >= 2 {
		return live, types.TimelineLive
	}
	return nil, types.TimelineNone
}
