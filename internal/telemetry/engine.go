// Package telemetry implements Aura's stateful collectors over raw system
// counters: rate computation for CPU, disk, and network, and top-k process
// sampling with PID-reuse safety. Collectors never fail the call for a
// missing backend — they surface "unavailable" as zeros or empty lists, per
// spec.md §4.2.
package telemetry

import (
	"math"
	"sort"

	"github.com/aura-systems/aura/internal/clock"
	"github.com/aura-systems/aura/internal/errs"
	"github.com/aura-systems/aura/internal/types"
)

// cpuBaseline is the engine-private counter baseline for aggregate or
// per-core system CPU.
type cpuBaseline struct {
	hasPrevious bool
	kernel      float64
	user        float64
	idle        float64
}

// rateBaseline is the engine-private counter baseline for disk/network
// byte counters.
type rateBaseline struct {
	hasPrevious   bool
	lastTimestamp float64
	a, b          uint64 // e.g. read/write or recv/sent
}

// processCPUState is the engine-private per-pid CPU baseline. Invariant:
// if the observed create time differs from CreateTimeMs, the pid is a new
// process reusing an old pid and the cache entry must be discarded.
type processCPUState struct {
	lastTotalSecs   float64
	lastSampledSecs float64
	createTimeMs    int64
	seenThisTick    bool
}

// Engine is the stateful telemetry collector. It owns its counter
// baselines and process-state map; it is accessed only from the poller
// thread (spec.md §5), so it carries no internal lock.
type Engine struct {
	src rawSource
	clk clock.Clock

	sysCPU    cpuBaseline
	perCore   map[int]cpuBaseline
	diskBase  rateBaseline
	netBase   rateBaseline
	procState map[uint32]processCPUState
}

// NewEngine returns a production Engine backed by OS counters via gopsutil,
// using the real system clock for per-process CPU Δt.
func NewEngine() *Engine {
	return newEngineWithSource(newGopsutilSource(), clock.NewSystemClock())
}

func newEngineWithSource(src rawSource, clk clock.Clock) *Engine {
	return &Engine{
		src:       src,
		clk:       clk,
		perCore:   make(map[int]cpuBaseline),
		procState: make(map[uint32]processCPUState),
	}
}

func finite(t float64) bool {
	return !math.IsNaN(t) && !math.IsInf(t, 0)
}

// SystemSnapshot is the result of CollectSystem.
type SystemSnapshot struct {
	CPUPercent    float64
	MemoryPercent float64
}

// CollectSystem computes aggregate CPU% and memory% at timestamp t.
// usage% = 100*(Δkernel+Δuser-Δidle)/(Δkernel+Δuser); the first call seeds
// the baseline and yields 0. A non-monotonic counter delta resets the
// baseline and yields 0 for that tick.
func (e *Engine) CollectSystem(t float64) (SystemSnapshot, error) {
	if !finite(t) {
		return SystemSnapshot{}, errs.New("CollectSystem", errs.InvalidArgument, errBadTimestamp)
	}

	cpuPct, err := e.collectSystemCPU()
	if err != nil {
		return SystemSnapshot{}, errs.New("CollectSystem", errs.Runtime, err)
	}

	memPct := 0.0
	if m, err := e.src.Memory(); err == nil {
		memPct = SanitizePercent(m)
	}

	return SystemSnapshot{
		CPUPercent:    SanitizePercent(cpuPct),
		MemoryPercent: memPct,
	}, nil
}

func (e *Engine) collectSystemCPU() (float64, error) {
	cur, err := e.src.AggregateCPUTimes()
	if err != nil {
		return 0, err
	}
	pct, next := cpuUsagePercent(e.sysCPU, cur)
	e.sysCPU = next
	return pct, nil
}

// cpuUsagePercent implements the shared kernel/user/idle delta formula for
// both aggregate and per-core CPU, returning the usage percent and the
// baseline to store for next time.
func cpuUsagePercent(prev cpuBaseline, cur cpuTimes) (float64, cpuBaseline) {
	next := cpuBaseline{hasPrevious: true, kernel: cur.Kernel, user: cur.User, idle: cur.Idle}
	if !prev.hasPrevious {
		return 0, next
	}
	dKernel, okK := deltaF64Monotonic(cur.Kernel, prev.kernel)
	dUser, okU := deltaF64Monotonic(cur.User, prev.user)
	dIdle, okI := deltaF64Monotonic(cur.Idle, prev.idle)
	if !okK || !okU || !okI {
		// Non-monotonic: treat as baseline reset, yield 0 this tick.
		return 0, next
	}
	denom := dKernel + dUser
	if denom <= 0 {
		return 0, next
	}
	pct := 100 * (dKernel + dUser - dIdle) / denom
	return SanitizePercent(pct), next
}

// CollectPerCore returns per-logical-core CPU percent. Missing backend
// support yields an empty slice, never a failure.
func (e *Engine) CollectPerCore(t float64) ([]float64, error) {
	if !finite(t) {
		return nil, errs.New("CollectPerCore", errs.InvalidArgument, errBadTimestamp)
	}
	cores, err := e.src.PerCoreCPUTimes()
	if err != nil || len(cores) == 0 {
		return []float64{}, nil
	}
	out := make([]float64, len(cores))
	for i, cur := range cores {
		pct, next := cpuUsagePercent(e.perCore[i], cur)
		e.perCore[i] = next
		out[i] = pct
	}
	return out, nil
}

var errBadTimestamp = errTimestamp{}

type errTimestamp struct{}

func (errTimestamp) Error() string { return "timestamp must be finite" }

// DiskSnapshot is the result of CollectDisk.
type DiskSnapshot = types.DiskStats

// CollectDisk computes aggregate disk read/write byte rates at timestamp t.
// Rates are only emitted when a previous baseline exists, delta_time > 0,
// and the raw counters did not regress; otherwise zero rates are returned,
// never a failure (unavailable surfaces as zero, per spec.md §4.2).
func (e *Engine) CollectDisk(t float64) (DiskSnapshot, error) {
	if !finite(t) {
		return DiskSnapshot{}, errs.New("CollectDisk", errs.InvalidArgument, errBadTimestamp)
	}
	read, write, err := e.src.DiskIO()
	if err != nil {
		// Backend unavailable: zero rates, not a failure.
		return DiskSnapshot{}, nil
	}
	readBps, writeBps, next := rateSince(e.diskBase, t, read, write)
	e.diskBase = next
	return DiskSnapshot{
		ReadBps:         SanitizeNonNegative(readBps),
		WriteBps:        SanitizeNonNegative(writeBps),
		ReadBytesTotal:  read,
		WriteBytesTotal: write,
	}, nil
}

// NetworkSnapshot is the result of CollectNetwork.
type NetworkSnapshot = types.NetworkStats

// CollectNetwork computes aggregate network recv/sent byte rates at
// timestamp t, symmetric to CollectDisk.
func (e *Engine) CollectNetwork(t float64) (NetworkSnapshot, error) {
	if !finite(t) {
		return NetworkSnapshot{}, errs.New("CollectNetwork", errs.InvalidArgument, errBadTimestamp)
	}
	recv, sent, err := e.src.NetIO()
	if err != nil {
		return NetworkSnapshot{}, nil
	}
	recvBps, sentBps, next := rateSince(e.netBase, t, recv, sent)
	e.netBase = next
	return NetworkSnapshot{
		RecvBps:        SanitizeNonNegative(recvBps),
		SentBps:        SanitizeNonNegative(sentBps),
		RecvBytesTotal: recv,
		SentBytesTotal: sent,
	}, nil
}

// rateSince computes the symmetric (a,b) rate pair over a rateBaseline and
// returns the new baseline to store.
func rateSince(prev rateBaseline, t float64, a, b uint64) (float64, float64, rateBaseline) {
	next := rateBaseline{hasPrevious: true, lastTimestamp: t, a: a, b: b}
	if !prev.hasPrevious {
		return 0, 0, next
	}
	dt := t - prev.lastTimestamp
	if dt <= 0 {
		return 0, 0, next
	}
	if a < prev.a || b < prev.b {
		// Wrap/reset: baseline replaced, rate zero this tick.
		return 0, 0, next
	}
	da := float64(deltaU64(a, prev.a))
	db := float64(deltaU64(b, prev.b))
	return safeDiv(da, dt), safeDiv(db, dt), next
}

// CollectThermal returns best-effort thermal sensor readings. Missing
// support yields an empty report, never a failure.
func (e *Engine) CollectThermal(t float64) (types.ThermalReport, error) {
	if !finite(t) {
		return types.ThermalReport{}, errs.New("CollectThermal", errs.InvalidArgument, errBadTimestamp)
	}
	readings, err := e.src.Thermal()
	if err != nil || len(readings) == 0 {
		return types.ThermalReport{}, nil
	}
	sensors := make([]types.ThermalSensor, 0, len(readings))
	var hottest *types.ThermalSensor
	for _, r := range readings {
		s := types.ThermalSensor{Label: r.Label, Celsius: r.Celsius}
		sensors = append(sensors, s)
		if hottest == nil || s.Celsius > hottest.Celsius {
			h := s
			hottest = &h
		}
	}
	return types.ThermalReport{Sensors: sensors, Hottest: hottest}, nil
}

// CollectGPU is platform-conditional; see gpu_windows.go / gpu_other.go.
// Non-Windows builds (and Windows without a usable counter) report
// Available=false uniformly, per spec.md §9's Open Question resolution.
func (e *Engine) CollectGPU(t float64) (types.GPUStats, error) {
	if !finite(t) {
		return types.GPUStats{}, errs.New("CollectGPU", errs.InvalidArgument, errBadTimestamp)
	}
	return collectGPUPlatform()
}

// CollectTopProcesses enumerates all processes, ranks by
// (cpu% desc, rss desc, pid asc), and truncates to limit. PID-reuse is
// detected via create time; unobserved pids are pruned from the cache
// after each call.
func (e *Engine) CollectTopProcesses(limit int) ([]types.ProcessSample, error) {
	if limit <= 0 {
		return nil, errs.New("CollectTopProcesses", errs.InvalidArgument, errBadLimit)
	}

	nowSecs := e.clk.MonotonicSeconds()

	infos, err := e.src.Processes()
	if err != nil {
		return nil, errs.New("CollectTopProcesses", errs.Runtime, err)
	}

	numCPU := float64(e.src.NumCPU())
	samples := make([]types.ProcessSample, 0, len(infos))
	seen := make(map[uint32]struct{}, len(infos))

	for _, info := range infos {
		seen[info.PID] = struct{}{}
		cpuPct := e.processCPUPercent(info, numCPU, nowSecs)
		name := info.Name
		if name == "" {
			name = fallbackProcessName(info.PID)
		}
		if len(name) > 260 {
			name = name[:260]
		}
		samples = append(samples, types.ProcessSample{
			PID:           info.PID,
			Name:          name,
			CPUPercent:    SanitizePercent(cpuPct),
			MemoryRSSByte: types.ToBytes(info.RSSBytes),
		})
	}

	// Prune cache entries for pids not observed this tick.
	for pid := range e.procState {
		if _, ok := seen[pid]; !ok {
			delete(e.procState, pid)
		}
	}

	sort.SliceStable(samples, func(i, j int) bool {
		if samples[i].CPUPercent != samples[j].CPUPercent {
			return samples[i].CPUPercent > samples[j].CPUPercent
		}
		if samples[i].MemoryRSSByte != samples[j].MemoryRSSByte {
			return samples[i].MemoryRSSByte > samples[j].MemoryRSSByte
		}
		return samples[i].PID < samples[j].PID
	})

	if len(samples) > limit {
		samples = samples[:limit]
	}
	return samples, nil
}

var errBadLimit = errLimit{}

type errLimit struct{}

func (errLimit) Error() string { return "limit must be > 0" }

func fallbackProcessName(pid uint32) string {
	return "pid-" + itoa(pid)
}

func itoa(pid uint32) string {
	if pid == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for pid > 0 {
		i--
		buf[i] = byte('0' + pid%10)
		pid /= 10
	}
	return string(buf[i:])
}

// processCPUPercent computes per-process CPU% and updates/creates the
// pid's cache entry, honoring PID-reuse safety: if the observed create
// time differs from the cached one, the cache entry is discarded and the
// reading starts fresh at 0. nowSecs is the engine clock's current
// monotonic reading, shared by every process in this tick.
func (e *Engine) processCPUPercent(info procInfo, numCPU float64, nowSecs float64) float64 {
	prev, ok := e.procState[info.PID]
	if ok && prev.createTimeMs != info.CreateTimeMs {
		ok = false // PID reuse: invalidate the stale baseline.
	}

	next := processCPUState{
		lastTotalSecs:   info.TotalCPUSecs,
		lastSampledSecs: nowSecs,
		createTimeMs:    info.CreateTimeMs,
	}

	if !ok {
		e.procState[info.PID] = next
		return 0
	}

	dTotal, okTotal := deltaF64Monotonic(info.TotalCPUSecs, prev.lastTotalSecs)
	dWall := nowSecs - prev.lastSampledSecs
	e.procState[info.PID] = next
	if !okTotal || dWall <= 0 || numCPU <= 0 {
		return 0
	}
	return 100 * dTotal / (dWall * numCPU)
}
