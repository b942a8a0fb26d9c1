package cli

import (
	"fmt"

	"github.com/alexanderramin/estimo/internal/service"
	"github.com/spf13/cobra"
)

func newLinkCmd(app *App, opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Print a client share link",
	}

	cmd.AddCommand(
		newLinkSubCmd(app, opts, "published", "Link to the published estimate with the current pricing",
			(*service.EstimateSession).PublishedLink),
		newLinkSubCmd(app, opts, "draft", "Link that embeds the current dataset without publishing it",
			(*service.EstimateSession).DraftLink),
	)

	return cmd
}

func newLinkSubCmd(app *App, opts *globalOptions, use, short string, build func(*service.EstimateSession) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, app, opts, true)
			if err != nil {
				return err
			}
			url, err := build(sess)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
}
