package main

import "github.com/aura-systems/aura/internal/types"

// snapshotJSON is the wire shape for --json/--watch emissions: one object
// per line. Timestamp, cpu, memory, disk and network rates are always
// present (zero when not collected); top_processes is omitted when empty.
type snapshotJSON struct {
	Timestamp     float64 `json:"timestamp"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`

	DiskReadBps         float64 `json:"disk_read_bps"`
	DiskWriteBps        float64 `json:"disk_write_bps"`
	NetworkBytesSentBps float64 `json:"network_bytes_sent_bps"`
	NetworkBytesRecvBps float64 `json:"network_bytes_recv_bps"`

	TopProcesses []processJSON `json:"top_processes,omitempty"`
}

type processJSON struct {
	PID           uint32 `json:"pid"`
	Name          string `json:"name"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryRSSByte uint64 `json:"memory_rss_bytes"`
}

func toSnapshotJSON(frame types.Frame) snapshotJSON {
	out := snapshotJSON{
		Timestamp:           frame.Sample.Timestamp,
		CPUPercent:          frame.Sample.CPUPercent,
		MemoryPercent:       frame.Sample.MemoryPercent,
		DiskReadBps:         frame.Sample.DiskReadBps,
		DiskWriteBps:        frame.Sample.DiskWriteBps,
		NetworkBytesSentBps: frame.Sample.NetworkSentBps,
		NetworkBytesRecvBps: frame.Sample.NetworkRecvBps,
	}
	for _, p := range frame.Processes {
		out.TopProcesses = append(out.TopProcesses, processJSON{
			PID:           p.PID,
			Name:          p.Name,
			CPUPercent:    p.CPUPercent,
			MemoryRSSByte: uint64(p.MemoryRSSByte),
		})
	}
	return out
}
