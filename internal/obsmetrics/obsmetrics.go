// Package obsmetrics exposes Aura's ambient Prometheus metrics: counters
// and gauges observability tooling can scrape even though Aura itself has
// no HTTP surface of its own (a scrape endpoint, if wired by the caller,
// is an external collaborator — see spec.md's non-goals on remote access).
package obsmetrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// TicksRun counts completed cockpit controller ticks.
	TicksRun = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "aura",
		Name:      "ticks_run_total",
		Help:      "Total number of cockpit controller ticks that completed.",
	})

	// DegradedTicks counts controller ticks published with degraded=true.
	DegradedTicks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "aura",
		Name:      "degraded_ticks_total",
		Help:      "Total number of cockpit ticks published in a degraded state.",
	})

	// StoreAppendFailures counts DVR append calls that returned an error.
	StoreAppendFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "aura",
		Name:      "store_append_failures_total",
		Help:      "Total number of DVR store append failures.",
	})

	// TimelineSourceGauge reports the active timeline source as a small
	// integer: 0=None, 1=Live, 2=Dvr.
	TimelineSourceGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "aura",
		Name:      "timeline_source",
		Help:      "Active cockpit timeline source (0=None, 1=Live, 2=Dvr).",
	})
)

// Registry bundles Aura's collectors into one registry the caller can wire
// to any exporter they choose, without forcing a specific HTTP framework.
func Registry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(TicksRun, DegradedTicks, StoreAppendFailures, TimelineSourceGauge)
	return reg
}
