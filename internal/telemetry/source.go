package telemetry

import (
	"context"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	gopsutilhost "github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	gopsutilnet "github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
)

// cpuTimes is the kernel/user/idle triple the engine computes rates over.
// As in the usage formula, Kernel includes Idle time; gopsutil's
// TimesStat supplies the counters as cumulative seconds rather than raw
// jiffies, which is an equivalent monotonic counter for delta purposes.
type cpuTimes struct {
	Kernel float64
	User   float64
	Idle   float64
}

// procInfo is the raw per-process counter bundle collect_top_processes and
// PID-reuse detection are built over.
type procInfo struct {
	PID            uint32
	Name           string
	TotalCPUSecs   float64
	CreateTimeMs   int64
	RSSBytes       uint64
}

// thermalReading is one raw sensor reading.
type thermalReading struct {
	Label   string
	Celsius float64
}

// rawSource is the dynamic-dispatch boundary between the engine's rate
// math and the OS. Production code uses gopsutilSource; tests inject a
// fake so collector math is exercised hermetically.
type rawSource interface {
	NumCPU() int
	AggregateCPUTimes() (cpuTimes, error)
	PerCoreCPUTimes() ([]cpuTimes, error)
	Memory() (usedPercent float64, err error)
	DiskIO() (readBytes, writeBytes uint64, err error)
	NetIO() (recvBytes, sentBytes uint64, err error)
	Processes() ([]procInfo, error)
	Thermal() ([]thermalReading, error)
}

// gopsutilSource is the production rawSource, backed by gopsutil.
type gopsutilSource struct{}

func newGopsutilSource() *gopsutilSource { return &gopsutilSource{} }

func (g *gopsutilSource) NumCPU() int {
	n := runtime.NumCPU()
	if n <= 0 {
		return 1
	}
	return n
}

func (g *gopsutilSource) AggregateCPUTimes() (cpuTimes, error) {
	ts, err := cpu.Times(false)
	if err != nil || len(ts) == 0 {
		return cpuTimes{}, err
	}
	return toCPUTimes(ts[0]), nil
}

func (g *gopsutilSource) PerCoreCPUTimes() ([]cpuTimes, error) {
	ts, err := cpu.Times(true)
	if err != nil {
		return nil, err
	}
	out := make([]cpuTimes, 0, len(ts))
	for _, t := range ts {
		out = append(out, toCPUTimes(t))
	}
	return out, nil
}

func toCPUTimes(t cpu.TimesStat) cpuTimes {
	return cpuTimes{
		Kernel: t.System + t.Idle, // gopsutil's System excludes idle time
		User:   t.User,
		Idle:   t.Idle,
	}
}

func (g *gopsutilSource) Memory() (float64, error) {
	m, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return m.UsedPercent, nil
}

func (g *gopsutilSource) DiskIO() (uint64, uint64, error) {
	counters, err := disk.IOCounters()
	if err != nil {
		return 0, 0, err
	}
	var read, write uint64
	for _, c := range counters {
		read += c.ReadBytes
		write += c.WriteBytes
	}
	return read, write, nil
}

func (g *gopsutilSource) NetIO() (uint64, uint64, error) {
	counters, err := gopsutilnet.IOCounters(false)
	if err != nil || len(counters) == 0 {
		return 0, 0, err
	}
	return counters[0].BytesRecv, counters[0].BytesSent, nil
}

func (g *gopsutilSource) Processes() ([]procInfo, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}
	out := make([]procInfo, 0, len(procs))
	for _, p := range procs {
		times, err := p.Times()
		if err != nil {
			continue
		}
		createMs, err := p.CreateTime()
		if err != nil {
			createMs = 0
		}
		name, err := p.Name()
		if err != nil || name == "" {
			name = ""
		}
		rss := uint64(0)
		if mi, err := p.MemoryInfo(); err == nil && mi != nil {
			rss = mi.RSS
		}
		out = append(out, procInfo{
			PID:          uint32(p.Pid),
			Name:         name,
			TotalCPUSecs: times.Total(),
			CreateTimeMs: createMs,
			RSSBytes:     rss,
		})
	}
	return out, nil
}

func (g *gopsutilSource) Thermal() ([]thermalReading, error) {
	temps, err := gopsutilhost.SensorsTemperaturesWithContext(context.Background())
	if err != nil {
		return nil, nil // best-effort: unavailable is empty, not an error
	}
	out := make([]thermalReading, 0, len(temps))
	for _, t := range temps {
		out = append(out, thermalReading{Label: t.SensorKey, Celsius: t.Temperature})
	}
	return out, nil
}
