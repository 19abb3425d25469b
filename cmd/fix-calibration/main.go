// Command fix-calibration applies the known-good matrix to the empty
// CalibrationMatrix in /etc/X11/xorg.conf.d/10-touchscreen.conf.
package main

import (
	"os"

	"github.com/jopey-woof/turt3/internal/fix"
	"github.com/jopey-woof/turt3/internal/logging"
)

func main() {
	logger := logging.NewLogger(logging.ERROR, false)
	result := fix.Run(os.Stdout, fix.Calibration, fix.RunOptions{Logger: logger})
	result.LogSummary(logger)
	os.Exit(result.ExitCode())
}
