package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rs/zerolog"

	"github.com/aura-systems/aura/internal/clock"
	"github.com/aura-systems/aura/internal/cockpit"
	"github.com/aura-systems/aura/internal/config"
	"github.com/aura-systems/aura/internal/renderbridge"
	"github.com/aura-systems/aura/internal/store"
	"github.com/aura-systems/aura/internal/telemetry"
	"github.com/aura-systems/aura/internal/types"
)

// runGUI drives the cockpit controller's frame loop headlessly, emitting
// one CockpitUIState JSON line per tick. A real graphical front end would
// instead call Controller.Published() from its own render thread; this
// mode exists so the cockpit pipeline is exercisable without one.
func runGUI(ctx context.Context, rc config.RuntimeConfig, intervalSeconds float64, log *zerolog.Logger) error {
	clk := clock.NewSystemClock()
	engine := telemetry.NewEngine()

	st, closeStore, err := openStoreIfConfigured(rc, clk, log)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer closeStore()
	}

	cfg := cockpit.DefaultConfig()
	cfg.FrameIntervalSeconds = intervalSeconds
	cfg.PreferDVRTimeline = st != nil

	var bridge cockpit.TelemetryBridge = &cockpit.EngineBridge{Engine: engine, Clock: clk, ProcessLimit: cfg.ProcessLimit}
	if st != nil {
		bridge = &persistingBridge{inner: bridge, st: st, log: log}
	}

	var timelineBridge cockpit.TimelineBridge
	if st != nil {
		timelineBridge = storeTimelineBridge{st}
	}

	ctrl := cockpit.New(cfg, clk, bridge, renderbridge.NewDefault(), timelineBridge, st != nil)

	var streamClosed bool

	sched := clock.NewScheduler(clk)
	code, err := sched.Run(ctx, intervalSeconds, 0, func(tickCtx context.Context) error {
		state := ctrl.Tick()

		enc, err := json.Marshal(state)
		if err != nil {
			return err
		}
		enc = append(enc, '\n')
		if _, err := os.Stdout.Write(enc); err != nil {
			if isClosedStreamError(err) {
				streamClosed = true
				return context.Canceled
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	if code == clock.ExitCancelled {
		if streamClosed {
			return nil
		}
		return context.Canceled
	}
	return nil
}

// persistingBridge decorates a TelemetryBridge, appending every
// successfully collected frame's sample to the DVR store so --gui mode
// feeds the same store a --watch run would.
type persistingBridge struct {
	inner cockpit.TelemetryBridge
	st    *store.Store
	log   *zerolog.Logger
}

func (b *persistingBridge) Collect() (types.Frame, error) {
	frame, err := b.inner.Collect()
	if err != nil {
		return frame, err
	}
	if err := b.st.Append(frame.Sample); err != nil {
		b.log.Warn().Err(err).Msg("failed to persist cockpit sample")
	}
	return frame, nil
}

// storeTimelineBridge adapts *store.Store to cockpit.TimelineBridge.
type storeTimelineBridge struct {
	st *store.Store
}

func (b storeTimelineBridge) QueryTimeline(start, end *float64, resolution int) ([]types.TimelinePoint, error) {
	return b.st.QueryTimeline(start, end, resolution)
}
