package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/aura-systems/aura/internal/clock"
	"github.com/aura-systems/aura/internal/config"
	"github.com/aura-systems/aura/internal/telemetry"
)

// runWatch streams one JSON snapshot per interval until count emissions
// have been written (0 means unbounded) or the context is cancelled.
func runWatch(ctx context.Context, rc config.RuntimeConfig, intervalSeconds float64, count int, log *zerolog.Logger) error {
	clk := clock.NewSystemClock()
	engine := telemetry.NewEngine()

	st, closeStore, err := openStoreIfConfigured(rc, clk, log)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer closeStore()
	}

	var streamClosed bool

	sched := clock.NewScheduler(clk)
	code, err := sched.Run(ctx, intervalSeconds, count, func(tickCtx context.Context) error {
		frame, err := collectFrame(engine, clk, defaultProcessLimit)
		if err != nil {
			log.Warn().Err(err).Msg("tick failed to collect telemetry")
			return nil
		}
		if st != nil {
			if err := st.Append(frame.Sample); err != nil {
				log.Warn().Err(err).Msg("failed to persist sample")
			}
		}
		if err := emitJSONLine(os.Stdout, toSnapshotJSON(frame)); err != nil {
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
