package fix

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jopey-woof/turt3/internal/logging"
	"github.com/jopey-woof/turt3/internal/patch"
	"github.com/jopey-woof/turt3/internal/report"
)

// RunOptions configure a fix run
type RunOptions struct {
	Root   string
	Backup bool
	DryRun bool
	Logger *logging.Logger
}

// Run applies f, prints human-readable status lines to w and returns the result.
// Callers decide whether the result is worth a LogSummary.
func Run(w io.Writer, f Fix, opts RunOptions) *report.Result {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	target := f.Target(opts.Root)
	logger = logger.WithField("fix", f.Name)
	logger.Debug("applying fix", map[string]interface{}{"path": target})

	start := time.Now()
	outcome, err := patch.Apply(target, f.Old, f.New, patch.Options{
		Backup: opts.Backup,
		DryRun: opts.DryRun,
	})

	var result *report.Result
	switch {
	case errors.Is(err, patch.ErrPatternNotFound):
		result = report.NewResult(f.Name, target, report.OutcomeNotFound, start)
		fmt.Fprintln(w, f.NotFoundMessage())

	case err != nil:
		result = report.NewResult(f.Name, target, report.OutcomeError, start)
		result.Error = err.Error()
		fmt.Fprintf(w, "❌ Error: %v\n", err)

	case opts.DryRun:
		result = report.NewResult(f.Name, target, report.OutcomeDryRun, start)
		result.Replacements = outcome.Replacements
		fmt.Fprintf(w, "🔍 %s: would replace %d occurrence(s) in %s\n", f.Name, outcome.Replacements, target)

	default:
		result = report.NewResult(f.Name, target, report.OutcomeApplied, start)
		result.Replacements = outcome.Replacements
		result.Backup = outcome.Backup
		fmt.Fprintln(w, f.SuccessMessage())
		for _, line := range f.Details {
			fmt.Fprintln(w, line)
		}
	}

	return result
}

// Status is the read-only view of a fix against its target file
type Status struct {
	Fix   string      `json:"fix"`
	Path  string      `json:"path"`
	State patch.State `json:"state,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Inspect reports the state of f without modifying anything
func Inspect(f Fix, root string) Status {
	target := f.Target(root)
	st := Status{Fix: f.Name, Path: target}

	state, err := patch.Check(target, f.Old, f.New)
	if err != nil {
		st.Error = err.Error()
		return st
	}
	st.State = state
	return st
}
