package cli

import (
	"fmt"

	"github.com/alexanderramin/estimo/internal/cli/formatter"
	"github.com/alexanderramin/estimo/internal/filter"
	"github.com/spf13/cobra"
)

func newShowCmd(app *App, opts *globalOptions) *cobra.Command {
	priority := newPriorityFlag()
	var query string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show totals, costs and the interface breakdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, app, opts, false)
			if err != nil {
				return err
			}
			if err := loginIfGiven(cmd, app, opts, sess); err != nil {
				return err
			}

			view := formatter.EstimateView{
				State:      sess.State(),
				Items:      sess.Visible(filter.Criteria{Priority: priority.value, Query: query}),
				Totals:     sess.Totals(),
				Visibility: sess.Visibility(),
			}
			if scenarios, err := sess.RateScenarios(); err == nil {
				view.Scenarios = scenarios
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEstimate(view))
			return nil
		},
	}

	cmd.Flags().Var(priority, "priority", "Only show P0, P1, P2 or ALL")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Search id, name and description")

	return cmd
}

func newListCmd(app *App, opts *globalOptions) *cobra.Command {
	priority := newPriorityFlag()
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List interfaces with their effort breakdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, app, opts, false)
			if err != nil {
				return err
			}
			items := sess.Visible(filter.Criteria{Priority: priority.value, Query: query})
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No interfaces match."))
				return nil
			}
			st := sess.State()
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatItemTable(items, st.Pricing))
			return nil
		},
	}

	cmd.Flags().Var(priority, "priority", "Only list P0, P1, P2 or ALL")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Search id, name and description")

	return cmd
}
