package types

// StyleTokens are the per-frame numeric outputs the cockpit controller hands
// to the (externally consumed) render layer.
type StyleTokens struct {
	Phase              float64 // [0,1)
	NextDelaySeconds   float64 // >= 0
	AccentIntensity    float64 // [0,1]
	AccentR            float64 // [0,1]
	AccentG            float64 // [0,1]
	AccentB            float64 // [0,1]
	AccentA            float64 // [0,1]
	FrostIntensity     float64 // [0,1]
	TintStrength       float64 // [0,1]
	RingLineWidth      float64 // (0,7]
	RingGlowStrength   float64 // [0,1]
	CPUAlpha           float64 // [0,1]
	MemoryAlpha        float64 // [0,1]
	SeverityLevel      int     // {0,1,2,3}
	MotionScale        float64 // [0,1]
	QualityHint        int     // {0,1,2}
	TimelineAnomalyAlpha float64 // [0,1]
}

// CockpitUIState is the full read-only surface the cockpit controller
// publishes once per tick for the render layer to consume.
type CockpitUIState struct {
	SmoothedCPUPercent    float64
	SmoothedMemoryPercent float64

	CPULine       string
	MemoryLine    string
	TimestampLine string
	ProcessRows   []string
	StatusLine    string
	TimelineLine  string
	DiskLine      string
	NetworkLine   string

	Timeline       []TimelinePoint
	TimelineSource TimelineSource

	Style StyleTokens

	TelemetryAvailable bool
	RenderAvailable    bool
	Degraded           bool
}
