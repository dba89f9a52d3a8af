package main

import (
	"testing"

	"github.com/aura-systems/aura/internal/types"
)

func TestToSnapshotJSONCopiesCoreChannels(t *testing.T) {
	frame := types.Frame{
		Sample: types.Sample{
			Timestamp:      100,
			CPUPercent:     42.5,
			MemoryPercent:  60,
			DiskReadBps:    10,
			DiskWriteBps:   20,
			NetworkRecvBps: 30,
			NetworkSentBps: 40,
		},
		Processes: []types.ProcessSample{
			{PID: 7, Name: "proc", CPUPercent: 5, MemoryRSSByte: 1024},
		},
	}

	out := toSnapshotJSON(frame)

	if out.Timestamp != 100 || out.CPUPercent != 42.5 || out.MemoryPercent != 60 {
		t.Fatalf("unexpected core fields: %+v", out)
	}
	if out.DiskReadBps != 10 || out.DiskWriteBps != 20 {
		t.Fatalf("unexpected disk fields: %+v", out)
	}
	if out.NetworkBytesRecvBps != 30 || out.NetworkBytesSentBps != 40 {
		t.Fatalf("unexpected network fields: %+v", out)
	}
	if len(out.TopProcesses) != 1 || out.TopProcesses[0].PID != 7 || out.TopProcesses[0].Name != "proc" {
		t.Fatalf("unexpected processes: %+v", out.TopProcesses)
	}
}

func TestToSnapshotJSONOmitsEmptyProcesses(t *testing.T) {
	out := toSnapshotJSON(types.Frame{})
	if out.TopProcesses != nil {
		t.Fatalf("expected nil TopProcesses, got %+v", out.TopProcesses)
	}
}
