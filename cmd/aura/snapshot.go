package main

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/aura-systems/aura/internal/clock"
	"github.com/aura-systems/aura/internal/config"
	"github.com/aura-systems/aura/internal/store"
	"github.com/aura-systems/aura/internal/telemetry"
	"github.com/aura-systems/aura/internal/types"
)

const defaultProcessLimit = 10

// runSnapshot collects exactly one tick's worth of telemetry and emits it
// as a single JSON line on stdout, persisting it too when rc enables
// persistence.
func runSnapshot(rc config.RuntimeConfig, log *zerolog.Logger) error {
	clk := clock.NewSystemClock()
	engine := telemetry.NewEngine()

	st, closeStore, err := openStoreIfConfigured(rc, clk, log)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer closeStore()
	}

	frame, err := collectFrame(engine, clk, defaultProcessLimit)
	if err != nil {
		return err
	}

	if st != nil {
		if err := st.Append(frame.Sample); err != nil {
			log.Warn().Err(err).Msg("failed to persist snapshot")
		}
	}

	return emitJSONLine(os.Stdout, toSnapshotJSON(frame))
}

// collectFrame runs one poll of the core telemetry channels used by
// snapshot/watch mode: system, disk, network, and top processes.
func collectFrame(engine *telemetry.Engine, clk clock.Clock, processLimit int) (types.Frame, error) {
	now := clk.MonotonicSeconds()

	sys, err := engine.CollectSystem(now)
	if err != nil {
		return types.Frame{}, err
	}
	disk, _ := engine.CollectDisk(now)
	net, _ := engine.CollectNetwork(now)
	procs, _ := engine.CollectTopProcesses(processLimit)

	return types.Frame{
		Sample: types.Sample{
			Timestamp:      now,
			CPUPercent:     sys.CPUPercent,
			MemoryPercent:  sys.MemoryPercent,
			DiskReadBps:    disk.ReadBps,
			DiskWriteBps:   disk.WriteBps,
			NetworkRecvBps: net.RecvBps,
			NetworkSentBps: net.SentBps,
		},
		Processes: procs,
		Disk:      disk,
		Network:   net,
	}, nil
}

// openStoreIfConfigured opens the DVR store when rc enables persistence,
// returning a nil store and a nil close func when it does not. A store that fails to
// open is logged as a warning, not a fatal error: snapshot/watch modes
// must keep working without persistence.
func openStoreIfConfigured(rc config.RuntimeConfig, clk clock.Clock, log *zerolog.Logger) (*store.Store, func(), error) {
	if !rc.PersistenceEnabled {
		return nil, nil, nil
	}
	st, err := store.Open(rc.DBPath, rc.RetentionSeconds, clk)
	if err != nil {
		log.Warn().Err(err).Str("path", rc.DBPath).Msg("failed to open DVR store; continuing without persistence")
		return nil, nil, nil
	}
	return st, func() {
		if err := st.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close DVR store")
		}
	}, nil
}
