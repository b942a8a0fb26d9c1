package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/estimo/internal/cli/formatter"
	"github.com/alexanderramin/estimo/internal/domain"
	"github.com/spf13/cobra"
)

func newEditCmd(app *App, opts *globalOptions) *cobra.Command {
	values := make(map[domain.EffortField]*string, 4)
	var noSave bool

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change effort hours of an interface and save the local draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var changed []domain.EffortField
			for _, f := range domain.EffortFields() {
				if cmd.Flags().Changed(string(f)) {
					changed = append(changed, f)
				}
			}
			if len(changed) == 0 {
				return errors.New("nothing to change: pass at least one of --fe, --be, --intg, --qa")
			}

			sess, err := openSession(cmd, app, opts, true)
			if err != nil {
				return err
			}
			if err := login(cmd, app, opts, sess); err != nil {
				return err
			}

			id := args[0]
			for _, f := range changed {
				if err := sess.SetEffort(id, f, *values[f]); err != nil {
					return err
				}
			}

			st := sess.State()
			item := st.Items[st.Items.IndexOf(id)]
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatItemDetail(item, st.Pricing))

			if noSave {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Not saved (--no-save)."))
				return nil
			}
			saved, err := sess.SaveDraft(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
				formatter.StyleGreen.Render("✔ Saved local draft"), formatter.TruncID(saved.Revision))
			return nil
		},
	}

	for _, f := range domain.EffortFields() {
		v := new(string)
		values[f] = v
		cmd.Flags().StringVar(v, string(f), "", fmt.Sprintf("%s hours (blank or non-numeric counts as 0)", f))
	}
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Show the result without saving the local draft")

	return cmd
}
