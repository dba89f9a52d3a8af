package clock

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/aura-systems/aura/internal/errs"
)

// ErrBadInterval is returned when Run is given a non-finite, non-positive,
// or otherwise invalid interval.
var ErrBadInterval = errors.New("interval must be a positive finite number")

// ExitCancelled is the process exit code a cancelled Run should report.
const ExitCancelled = 130

// DefaultMaxCatchupFrames bounds how much accumulated scheduling debt a
// single missed deadline can collapse into. Callers that want a different
// frame discipline override it per Scheduler instance via the
// MaxCatchupFrames field.
const DefaultMaxCatchupFrames = 5

// TickFunc is invoked once per scheduler tick. Returning an error that is
// not context.Canceled is treated as recoverable: the loop does not log it
// (logging is left to the tick itself) and continues.
type TickFunc func(ctx context.Context) error

// Scheduler runs a TickFunc at a fixed interval with bounded catch-up.
type Scheduler struct {
	Clock            Clock
	MaxCatchupFrames int
	// Sleep lets tests substitute a fake sleeper; defaults to a real
	// context-aware sleep.
	Sleep func(ctx context.Context, d time.Duration) bool
}

// NewScheduler builds a Scheduler over the given Clock with the default
// frame discipline.
func NewScheduler(c Clock) *Scheduler {
	return &Scheduler{
		Clock:            c,
		MaxCatchupFrames: DefaultMaxCatchupFrames,
		Sleep:            contextSleep,
	}
}

// contextSleep sleeps for d or until ctx is cancelled, whichever is first.
// It returns true if the sleep was cut short by cancellation.
func contextSleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		select {
		case <-ctx.Done():
			return true
		default:
			return false
		}
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return true
	case <-timer.C:
		return false
	}
}

// validateInterval rejects non-finite or non-positive interval values.
// Boolean-shaped input cannot reach it as a float64: the caller (the CLI
// layer) refuses to parse a literal "true"/"false" into intervalSeconds in
// the first place; this is the last line of defense shared by every Run
// caller.
func validateInterval(intervalSeconds float64) error {
	if math.IsNaN(intervalSeconds) || math.IsInf(intervalSeconds, 0) {
		return ErrBadInterval
	}
	if intervalSeconds <= 0 {
		return ErrBadInterval
	}
	return nil
}

// Run executes tick once per interval, for count iterations (count <= 0
// means run until ctx is cancelled). It returns the process exit code the
// caller should report (0 on normal completion, 130 on cancellation) and
// any fatal (non-recoverable) error.
func (s *Scheduler) Run(ctx context.Context, intervalSeconds float64, count int, tick TickFunc) (int, error) {
	if err := validateInterval(intervalSeconds); err != nil {
		return 1, errs.New("scheduler.Run", errs.InvalidArgument, err)
	}
	interval := time.Duration(intervalSeconds * float64(time.Second))
	maxCatchup := s.MaxCatchupFrames
	if maxCatchup <= 0 {
		maxCatchup = DefaultMaxCatchupFrames
	}

	iterations := 0
	debt := time.Duration(0)
	for {
		select {
		case <-ctx.Done():
			return ExitCancelled, nil
		default:
		}

		t0 := s.Clock.MonotonicSeconds()
		if err := tick(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return ExitCancelled, nil
			}
			// Recoverable error: the loop continues. Callers are expected
			// to have logged it inside tick.
		}
		iterations++

		elapsed := time.Duration((s.Clock.MonotonicSeconds() - t0) * float64(time.Second))
		sleep := interval - elapsed + debt
		// Collapse unbounded debt into at most maxCatchup ticks worth of
		// negative sleep, i.e. never let a long stall force the scheduler
		// to sprint through more than maxCatchup "free" ticks.
		maxDebt := interval * time.Duration(maxCatchup)
		if sleep < -maxDebt {
			sleep = -maxDebt
		}
		if sleep < 0 {
			debt = sleep
			sleep = 0
		} else {
			debt = 0
		}

		if count > 0 && iterations >= count {
			return 0, nil
		}

		cancelled := s.Sleep(ctx, sleep)
		if cancelled {
			return ExitCancelled, nil
		}
	}
}
