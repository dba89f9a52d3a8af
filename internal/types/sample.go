package types

// Sample is an immutable telemetry record: the core four channels the DVR
// always carries, plus additional optional channels that are zero-filled
// (never synthesized) when a collector cannot produce them.
type Sample struct {
	Timestamp     float64 // monotonic seconds since epoch
	CPUPercent    float64 // [0,100]
	MemoryPercent float64 // [0,100]
	DiskReadBps   float64 // >= 0
	DiskWriteBps  float64 // >= 0

	// Optional channels. Zero value means "not collected this tick".
	NetworkRecvBps float64
	NetworkSentBps float64
	PerCoreCPU     []float64
	Thermal        []ThermalSensor
	GPU            GPUStats
}

// ProcessSample is one row of a top-k process enumeration.
type ProcessSample struct {
	PID           uint32
	Name          string // UTF-8, <= 260 bytes; "pid-<N>" fallback
	CPUPercent    float64
	MemoryRSSByte Bytes
}

// DiskStats is the result of one collect_disk call.
type DiskStats struct {
	ReadBps        float64
	WriteBps       float64
	ReadBytesTotal uint64
	WriteBytesTotal uint64
}

// NetworkStats is the result of one collect_network call.
type NetworkStats struct {
	RecvBps         float64
	SentBps         float64
	RecvBytesTotal  uint64
	SentBytesTotal  uint64
}

// ThermalSensor is one reading from collect_thermal.
type ThermalSensor struct {
	Label   string
	Celsius float64
}

// ThermalReport is the full result of one collect_thermal call.
type ThermalReport struct {
	Sensors []ThermalSensor
	Hottest *ThermalSensor
}

// GPUStats is the result of one collect_gpu call. Available=false means
// every other field is meaningless zero, not a measured zero.
type GPUStats struct {
	Available     bool
	GPUPercent    float64
	VRAMPercent   float64
	VRAMUsedByte  uint64
	VRAMTotalByte uint64
}

// TimelinePoint is one entry of a bounded, timestamp-ascending timeline,
// either sourced live from the controller's ring buffer or from a DVR
// range query.
type TimelinePoint struct {
	Timestamp     float64
	CPUPercent    float64
	MemoryPercent float64
}

// TimelineSource tags where a CockpitUIState's timeline came from.
type TimelineSource int

const (
	TimelineNone TimelineSource = iota
	TimelineLive
	TimelineDVR
)

func (s TimelineSource) String() string {
	switch s {
	case TimelineLive:
		return "Live"
	case TimelineDVR:
		return "Dvr"
	default:
		return "None"
	}
}

// Frame bundles one telemetry tick's worth of collected data: the core
// system snapshot plus whichever optional channels were gathered. It is
// the single-producer/single-consumer hand-off value between the poller
// and the cockpit controller.
type Frame struct {
	Sample      Sample
	Processes   []ProcessSample
	Disk        DiskStats
	Network     NetworkStats
	Thermal     ThermalReport
	GPU         GPUStats
	PerCoreCPU  []float64
}
