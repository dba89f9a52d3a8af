package main

import (
	"fmt"
	"os"

	"github.com/aura-systems/aura/internal/clock"
	"github.com/aura-systems/aura/internal/config"
	"github.com/aura-systems/aura/internal/store"
	"github.com/aura-systems/aura/internal/types"
)

// runReadback serves --latest/--since/--until against the persisted DVR
// store and exits; it never starts the poller.
func runReadback(rc config.RuntimeConfig, f cliFlags) error {
	if !rc.PersistenceEnabled {
		return fmt.Errorf("persisted readback requires persistence to be enabled (remove --no-persist)")
	}

	clk := clock.NewSystemClock()
	st, err := store.Open(rc.DBPath, rc.RetentionSeconds, clk)
	if err != nil {
		return err
	}
	defer st.Close()

	var samples []types.Sample
	switch {
	case f.latest > 0:
		samples, err = st.Latest(f.latest)
	default:
		var start, end *float64
		if f.sinceSet {
			start = &f.since
		}
		if f.untilSet {
			end = &f.until
		}
		samples, err = st.Between(start, end)
	}
	if err != nil {
		return err
	}

	for _, s := range samples {
		if err := emitJSONLine(os.Stdout, toSnapshotJSON(types.Frame{Sample: s})); err != nil {
			if isClosedStreamError(err) {
				return nil
			}
			return err
		}
	}
	return nil
}
