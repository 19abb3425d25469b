package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/jopey-woof/turt3/internal/fix"
)

func newStatusCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "status [fix...]",
		Short: "Show whether each fix is pending or applied",
		Long: `Inspect each fix target without modifying anything.

States:
  pending   the expected substring is present; apply will patch it
  applied   the known-good value is present
  missing   neither value is present`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fixes, err := s.catalog.Select(args)
			if err != nil {
				return err
			}

			statuses := make([]fix.Status, 0, len(fixes))
			for _, f := range fixes {
				statuses = append(statuses, fix.Inspect(f, s.cfg.Root))
			}

			out := cmd.OutOrStdout()
			if s.isJSONOutput() {
				output, err := json.MarshalIndent(statuses, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal JSON: %w", err)
				}
				fmt.Fprintln(out, string(output))
				return nil
			}

			table := tablewriter.NewWriter(out)
			table.Header("Fix", "Path", "State")
			for _, st := range statuses {
				state := string(st.State)
				if st.Error != "" {
					state = "error: " + st.Error
				}
				table.Append(st.Fix, st.Path, state)
			}
			table.Render()
			return nil
		},
	}
}

func newListCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available fixes",
		RunE: func(cmd *cobra.Command, args []string) error {
			fixes := s.catalog.All()
			out := cmd.OutOrStdout()

			if s.isJSONOutput() {
				output, err := json.MarshalIndent(fixes, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal JSON: %w", err)
				}
				fmt.Fprintln(out, string(output))
				return nil
			}

			table := tablewriter.NewWriter(out)
			table.Header("Name", "Path", "Description")
			for _, f := range fixes {
				table.Append(f.Name, f.Path, f.Description)
			}
			table.Render()
			fmt.Fprintf(out, "\nTotal fixes: %d\n", len(fixes))
			return nil
		},
	}
}
