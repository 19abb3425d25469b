package report

import (
	"fmt"
	"time"

	"github.com/jopey-woof/turt3/internal/logging"
)

// Outcome classifies how a fix run ended
type Outcome string

const (
	OutcomeApplied  Outcome = "applied"
	OutcomeNotFound Outcome = "not_found"
	OutcomeError    Outcome = "error"
	OutcomeDryRun   Outcome = "dry_run"
)

// Result is the record of one fix run. Set once at completion.
type Result struct {
	Fix          string        `json:"fix"`
	Path         string        `json:"path"`
	Outcome      Outcome       `json:"outcome"`
	Replacements int           `json:"replacements"`
	Backup       string        `json:"backup,omitempty"`
	Error        string        `json:"error,omitempty"`
	StartTime    time.Time     `json:"start_time"`
	Duration     time.Duration `json:"duration_ns"`
}

// NewResult creates a result for fix against path, timed from start
func NewResult(fix, path string, outcome Outcome, start time.Time) *Result {
	return &Result{
		Fix:       fix,
		Path:      path,
		Outcome:   outcome,
		StartTime: start,
		Duration:  time.Since(start),
	}
}

// OK reports whether the run counts as a success
func (r *Result) OK() bool {
	return r.Outcome == OutcomeApplied || r.Outcome == OutcomeDryRun
}

// ExitCode maps the result onto the process exit status
func (r *Result) ExitCode() int {
	if r.OK() {
		return 0
	}
	return 1
}

// LogSummary emits a one-line summary of the run
func (r *Result) LogSummary(logger *logging.Logger) {
	line := fmt.Sprintf("FIX %s | outcome=%s | path=%s | replacements=%d | took=%s",
		r.Fix, r.Outcome, r.Path, r.Replacements, r.Duration.Round(time.Microsecond))
	if r.Backup != "" {
		line += " | backup=" + r.Backup
	}

	switch r.Outcome {
	case OutcomeError:
		logger.Error(line + " | error=" + r.Error)
	case OutcomeNotFound:
		logger.Warn(line)
	default:
		logger.Info(line)
	}
}

// ExitCode returns 0 only when every result succeeded
func ExitCode(results []*Result) int {
	for _, r := range results {
		if !r.OK() {
			return 1
		}
	}
	return 0
}
