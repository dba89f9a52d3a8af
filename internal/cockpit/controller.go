// Package cockpit implements Aura's frame-paced orchestrator: it consumes
// telemetry, smooths signals, derives visual style tokens, selects a
// live-vs-DVR timeline, and publishes a stable per-frame CockpitUIState
// that degrades gracefully when telemetry or rendering fails. Its atomic
// publish hand-off is adapted from the single-producer/single-consumer
// atomic-pointer pattern used by the retrieved corpus's collector
// implementations, generalized from raw unsafe.Pointer to the generic
// atomic.Pointer added in later Go versions.
package cockpit

import (
	"sync/atomic"

	"github.com/aura-systems/aura/internal/clock"
	"github.com/aura-systems/aura/internal/obsmetrics"
	"github.com/aura-systems/aura/internal/renderbridge"
	"github.com/aura-systems/aura/internal/telemetry"
	"github.com/aura-systems/aura/internal/types"
)

// TelemetryBridge is the engine-backed telemetry source the controller's
// step 1 ("Collect") invokes once per tick.
type TelemetryBridge interface {
	Collect() (types.Frame, error)
}

// EngineBridge adapts a *telemetry.Engine to TelemetryBridge, gathering
// the system snapshot, top processes, disk, network, thermal, and GPU
// channels into a single Frame per tick.
type EngineBridge struct {
	Engine       *telemetry.Engine
	Clock        clock.Clock
	ProcessLimit int
}

func (b *EngineBridge) Collect() (types.Frame, error) {
	now := b.Clock.MonotonicSeconds()

	sys, err := b.Engine.CollectSystem(now)
	if err != nil {
		return types.Frame{}, err
	}
	perCore, _ := b.Engine.CollectPerCore(now)
	disk, _ := b.Engine.CollectDisk(now)
	net, _ := b.Engine.CollectNetwork(now)
	thermal, _ := b.Engine.CollectThermal(now)
	gpu, _ := b.Engine.CollectGPU(now)
	procs, _ := b.Engine.CollectTopProcesses(b.ProcessLimit)

	return types.Frame{
		Sample: types.Sample{
			Timestamp:      now,
			CPUPercent:     sys.CPUPercent,
			MemoryPercent:  sys.MemoryPercent,
			DiskReadBps:    disk.ReadBps,
			DiskWriteBps:   disk.WriteBps,
			NetworkRecvBps: net.RecvBps,
			NetworkSentBps: net.SentBps,
			PerCoreCPU:     perCore,
			Thermal:        thermal.Sensors,
			GPU:            gpu,
		},
		Processes:  procs,
		Disk:       disk,
		Network:    net,
		Thermal:    thermal,
		GPU:        gpu,
		PerCoreCPU: perCore,
	}, nil
}

// Controller owns its phase, smoothed state, and live-timeline ring. It is
// accessed only from the render/controller thread, so those fields carry
// no lock; the published CockpitUIState is handed off to readers via an
// atomic pointer instead.
type Controller struct {
	cfg            Config
	clk            clock.Clock
	telemetry      TelemetryBridge
	render         renderbridge.Bridge
	timelineBridge TimelineBridge
	dbConfigured   bool

	hasSmoothed  bool
	smoothedCPU  float64
	smoothedMem  float64
	phase        float64
	hasLastTick  bool
	lastTickMono float64

	ring                 *liveRing
	dvrCache             []types.TimelinePoint
	ticksSinceDVRRefresh int

	cpuHistory []float64

	lastGood *types.CockpitUIState

	published atomic.Pointer[types.CockpitUIState]
}

// New builds a Controller. timelineBridge may be nil (no DVR available);
// dbConfigured reflects whether a persistence DB path is configured at all,
// independent of whether a bridge instance was constructed.
func New(cfg Config, clk clock.Clock, telemetryBridge TelemetryBridge, render renderbridge.Bridge, timelineBridge TimelineBridge, dbConfigured bool) *Controller {
	return &Controller{
		cfg:            cfg,
		clk:            clk,
		telemetry:      telemetryBridge,
		render:         render,
		timelineBridge: timelineBridge,
		dbConfigured:   dbConfigured,
		ring:           newLiveRing(cfg.TimelineLiveCapacity, cfg.TimelineWindowSeconds),
	}
}

// Published returns the most recently published CockpitUIState, or nil if
// Tick has never run. Safe to call concurrently with Tick.
func (c *Controller) Published() *types.CockpitUIState {
	return c.published.Load()
}

// Tick runs one full pipeline pass and publishes the resulting state. It
// never returns an error: every failure mode degrades gracefully per
// spec.md §4.5's health-bit state machine.
func (c *Controller) Tick() types.CockpitUIState {
	now := c.clk.MonotonicSeconds()

	dtActual := c.cfg.FrameIntervalSeconds
	if c.hasLastTick {
		dtActual = now - c.lastTickMono
	}
	c.lastTickMono = now
	c.hasLastTick = true

	maxDt := c.cfg.FrameIntervalSeconds * float64(c.cfg.MaxCatchupFrames)
	dt := clampRange(dtActual, 0, maxDt)

	// Step 1: collect.
	frame, collectErr := c.telemetry.Collect()
	telemetryAvailable := collectErr == nil

	var cpu, mem float64
	var processes []types.ProcessSample
	switch {
	case telemetryAvailable:
		cpu = telemetry.SanitizePercent(frame.Sample.CPUPercent)
		mem = telemetry.SanitizePercent(frame.Sample.MemoryPercent)
		processes = frame.Processes
	case c.lastGood != nil:
		cpu = c.lastGood.SmoothedCPUPercent
		mem = c.lastGood.SmoothedMemoryPercent
	default:
		cpu, mem = 0, 0
	}

	degraded := !telemetryAvailable

	// Step 2: smooth.
	if !c.hasSmoothed {
		c.smoothedCPU = cpu
		c.smoothedMem = mem
		c.hasSmoothed = true
	} else {
		c.smoothedCPU = asymmetricSmooth(c.smoothedCPU, cpu, dt, c.cfg.RiseHalfLifeSeconds, c.cfg.FallHalfLifeSeconds)
		c.smoothedMem = asymmetricSmooth(c.smoothedMem, mem, dt, c.cfg.RiseHalfLifeSeconds, c.cfg.FallHalfLifeSeconds)
	}

	// Step 3: advance phase.
	c.phase = advancePhase(c.phase, dt, c.cfg.PulseHz)

	// cpu rolling history for the anomaly-alpha style token.
	c.cpuHistory = append(c.cpuHistory, c.smoothedCPU)
	if len(c.cpuHistory) > c.cfg.AnomalyWindow {
		c.cpuHistory = c.cpuHistory[len(c.cpuHistory)-c.cfg.AnomalyWindow:]
	}
	anomalyAlpha := anomalyAlphaFromVariance(rollingVariance(c.cpuHistory))

	frameSlack := c.cfg.FrameIntervalSeconds - dtActual

	// Steps 4-5: accent intensity + style tokens (derived together).
	style := deriveStyleTokens(c.phase, c.smoothedCPU, c.smoothedMem, dt, c.cfg, degraded, frameSlack, anomalyAlpha)

	// Step 6: select timeline, and record this tick's point into the live
	// ring regardless of which source is ultimately selected.
	c.ring.push(types.TimelinePoint{Timestamp: now, CPUPercent: c.smoothedCPU, MemoryPercent: c.smoothedMem})
	timelinePoints, timelineSource := c.selectTimeline(now)

	// Step 7: format strings via the render bridge.
	state := c.formatState(frame, processes, telemetryAvailable, degraded, timelinePoints, timelineSource, style)

	// Step 8: publish.
	c.published.Store(&state)
	if state.TelemetryAvailable && state.RenderAvailable {
		saved := state
		c.lastGood = &saved
	}

	obsmetrics.TicksRun.Inc()
	if state.Degraded {
		obsmetrics.DegradedTicks.Inc()
	}
	obsmetrics.TimelineSourceGauge.Set(float64(state.TimelineSource))

	return state
}

func advancePhase(phase, dt, pulseHz float64) float64 {
	p := phase + dt*pulseHz
	p -= float64(int(p))
	if p < 0 {
		p += 1
	}
	return p
}
