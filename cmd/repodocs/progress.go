package main

import (
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// progressEnabled reports whether a progress spinner should be drawn:
// never for piped/non-TTY stderr, and never when --quiet was passed.
func progressEnabled(quiet bool) bool {
	return !quiet && isatty.IsTerminal(os.Stderr.Fd())
}

// newStageSpinner returns an indeterminate spinner labeled with the stage
// currently running, or nil when progress output is disabled — callers must
// nil-check before use.
func newStageSpinner(quiet bool, description string) *progressbar.ProgressBar {
	if !progressEnabled(quiet) {
		return nil
	}
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionThrottle(65*time.Millisecond),
	)
}

// startSpin animates an indeterminate spinner on a fixed tick until the
// returned stop function is called, since progressbar only redraws on
// explicit Add calls.
func startSpin(bar *progressbar.ProgressBar) (stop func()) {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()
	return func() { close(done) }
}
