package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jopey-woof/turt3/internal/report"
	"github.com/jopey-woof/turt3/internal/watch"
)

func newWatchCmd(s *state) *cobra.Command {
	var debounce time.Duration

	watchCmd := &cobra.Command{
		Use:   "watch [fix...]",
		Short: "Re-apply fixes whenever their files change",
		Long: `Watch mode applies the selected fixes once and then watches their
directories, re-applying a fix whenever its file is rewritten (for example by
a package upgrade restoring the stock configuration).

Example:
  calfix watch
  calfix watch calibration --debounce 2s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fixes, err := s.catalog.Select(args)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("debounce") {
				debounce, err = time.ParseDuration(s.cfg.Watch.Debounce)
				if err != nil {
					return fmt.Errorf("invalid watch.debounce: %w", err)
				}
			}

			metrics := report.NewMetrics()
			w := watch.New(watch.Config{
				Fixes:    fixes,
				Run:      s.runOptions(),
				Debounce: debounce,
				Output:   cmd.OutOrStdout(),
				Logger:   s.logger.WithField("component", "watch"),
				OnResult: func(r *report.Result) {
					metrics.Observe(r)
					s.writeMetrics(cmd.OutOrStdout(), metrics)
				},
			})

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			go func() {
				select {
				case sig := <-sigChan:
					s.logger.Info(fmt.Sprintf("Received signal %v, shutting down...", sig))
					cancel()
				case <-ctx.Done():
				}
			}()

			s.logger.Info(fmt.Sprintf("Watching %d fix(es). Press Ctrl+C to stop.", len(fixes)))
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("watch error: %w", err)
			}

			s.logger.Info("Watch stopped")
			return nil
		},
	}

	watchCmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "quiet period after a change before re-applying")

	return watchCmd
}
