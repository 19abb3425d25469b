package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jopey-woof/turt3/internal/fix"
	"github.com/jopey-woof/turt3/internal/report"
	"github.com/jopey-woof/turt3/internal/xserver"
)

func newApplyCmd(s *state) *cobra.Command {
	var dryRun bool

	applyCmd := &cobra.Command{
		Use:   "apply [fix...]",
		Short: "Apply calibration fixes",
		Long: `Apply one or more fixes. With no arguments every fix in the catalog is applied.

Each fix replaces its expected substring with the known-good matrix and leaves
the rest of the file untouched. A fix whose substring is absent (including one
that was already applied) is reported as a failure and the file is not modified.

Example:
  calfix apply
  calfix apply calibration-conflict
  calfix apply --root /mnt/image --backup`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fixes, err := s.catalog.Select(args)
			if err != nil {
				return err
			}

			opts := s.runOptions()
			opts.DryRun = dryRun

			out := cmd.OutOrStdout()
			metrics := report.NewMetrics()
			results := make([]*report.Result, 0, len(fixes))
			applied := false
			for _, f := range fixes {
				result := fix.Run(out, f, opts)
				result.LogSummary(s.logger.WithField("fix", f.Name))
				metrics.Observe(result)
				results = append(results, result)
				if result.Outcome == report.OutcomeApplied {
					applied = true
				}
			}

			if applied && s.cfg.Root == "" {
				ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
				servers, err := xserver.Find(ctx)
				cancel()
				if err != nil {
					s.logger.Debug(fmt.Sprintf("X server probe failed: %v", err))
				} else if hint := xserver.RestartHint(servers); hint != "" {
					fmt.Fprintln(out, hint)
				}
			}

			s.writeMetrics(out, metrics)

			if report.ExitCode(results) != 0 {
				return ErrFixFailed
			}
			return nil
		},
	}

	applyCmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without writing")
	applyCmd.Flags().Bool("backup", false, "keep a <file>.bak copy before patching")
	s.v.BindPFlag("backup", applyCmd.Flags().Lookup("backup"))

	return applyCmd
}
