// Command fix-calibration-conflict replaces the conflicting identity matrix
// in /etc/X11/xorg.conf.d/99-calibration.conf with the known-good one.
package main

import (
	"os"

	"github.com/jopey-woof/turt3/internal/fix"
	"github.com/jopey-woof/turt3/internal/logging"
)

func main() {
	logger := logging.NewLogger(logging.ERROR, false)
	result := fix.Run(os.Stdout, fix.CalibrationConflict, fix.RunOptions{Logger: logger})
	result.LogSummary(logger)
	os.Exit(result.ExitCode())
}
