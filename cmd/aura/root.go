// Command aura is Aura's CLI: one-shot/watch snapshot emission, persisted
// readback, and a headless cockpit mode, all resolved against the layered
// RuntimeConfig in internal/config.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aura-systems/aura/internal/config"
	"github.com/aura-systems/aura/internal/logging"
)

const (
	exitOK    = 0
	exitUsage = 1
	exitCancelled = 130
)

// cliFlags holds the raw flag values before validation/resolution.
type cliFlags struct {
	jsonMode bool
	watch    bool
	intervalRaw string
	count    int

	noPersist bool
	dbPath    string
	retentionSeconds float64
	retentionSet     bool

	latest int
	since  float64
	sinceSet bool
	until  float64
	untilSet bool

	gui bool

	verbose bool
}

func main() {
	os.Exit(runMain())
}

func runMain() int {
	var f cliFlags

	root := &cobra.Command{
		Use:   "aura",
		Short: "Aura: a local-only desktop system monitor with a DVR-backed cockpit",
		Long: `Aura samples CPU, memory, disk, network, process, thermal, and GPU
telemetry at a fixed interval, optionally persists it to a local DVR store,
and can drive a cockpit-style visual surface from smoothed signals.

This build is local-only: no cloud upload, no multi-host aggregation, no
remote API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd.Context(), f)
		},
	}

	root.Flags().BoolVar(&f.jsonMode, "json", false, "emit one snapshot as a JSON object and exit")
	root.Flags().BoolVar(&f.watch, "watch", false, "continuously stream snapshots at --interval")
	root.Flags().StringVar(&f.intervalRaw, "interval", "1", "sampling interval in seconds (strictly positive, finite)")
	root.Flags().IntVar(&f.count, "count", 0, "stop --watch after N emissions (0 = unbounded)")

	root.Flags().BoolVar(&f.noPersist, "no-persist", false, "disable DVR persistence regardless of other config layers")
	root.Flags().StringVar(&f.dbPath, "db-path", "", "override the DVR database path")
	root.Flags().Float64Var(&f.retentionSeconds, "retention-seconds", 0, "override retention horizon in seconds")

	root.Flags().IntVar(&f.latest, "latest", 0, "read back the last N persisted samples and exit")
	root.Flags().Float64Var(&f.since, "since", 0, "lower bound (unix seconds) for a persisted time-range read")
	root.Flags().Float64Var(&f.until, "until", 0, "upper bound (unix seconds) for a persisted time-range read")

	root.Flags().BoolVar(&f.gui, "gui", false, "run the headless cockpit controller loop instead of raw snapshot/watch output")

	root.Flags().BoolVar(&f.verbose, "verbose", false, "enable debug-level logging on stderr")

	root.PreRunE = func(cmd *cobra.Command, args []string) error {
		f.retentionSet = cmd.Flags().Changed("retention-seconds")
		f.sinceSet = cmd.Flags().Changed("since")
		f.untilSet = cmd.Flags().Changed("until")
		return nil
	}

	// With SIGPIPE ignored, a write to a closed stdout returns EPIPE instead
	// of killing the process, so the emitters can treat it as a clean exit.
	signal.Ignore(syscall.SIGPIPE)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	root.SetContext(ctx)

	if err := root.Execute(); err != nil {
		if ctx.Err() != nil {
			return exitCancelled
		}
		fmt.Fprintln(os.Stderr, err.Error())
		return exitUsage
	}
	return exitOK
}

// dispatch validates mode exclusivity and resolves RuntimeConfig, then
// routes to the selected mode.
func dispatch(ctx context.Context, f cliFlags) error {
	otherModes := 0
	if f.jsonMode {
		otherModes++
	}
	if f.watch {
		otherModes++
	}
	if f.latest > 0 || f.sinceSet || f.untilSet {
		otherModes++
	}
	if f.gui && otherModes > 0 {
		return fmt.Errorf("--gui is mutually exclusive with read/watch/json modes")
	}

	interval, err := parseInterval(f.intervalRaw)
	if err != nil {
		return err
	}

	cli := config.CLIOverrides{
		NoPersist:           f.noPersist,
		DBPath:              f.dbPath,
		DBPathSet:           f.dbPath != "",
		RetentionSeconds:    f.retentionSeconds,
		RetentionSecondsSet: f.retentionSet,
	}

	configPath, _ := config.DefaultConfigFilePath()
	rc, err := config.Resolve(cli, config.OSEnv(), configPath)
	if err != nil {
		return err
	}

	log := logging.NewStderr(f.verbose)

	switch {
	case f.latest > 0 || f.sinceSet || f.untilSet:
		return runReadback(rc, f)
	case f.gui:
		return runGUI(ctx, rc, interval, &log)
	case f.watch:
		return runWatch(ctx, rc, interval, f.count, &log)
	default:
		return runSnapshot(rc, &log)
	}
}
