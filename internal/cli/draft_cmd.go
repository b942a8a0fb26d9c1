package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/estimo/internal/cli/formatter"
	"github.com/alexanderramin/estimo/internal/repository"
	"github.com/alexanderramin/estimo/internal/source"
	"github.com/spf13/cobra"
)

func newDraftCmd(app *App, opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Manage the draft saved on this device",
	}

	cmd.AddCommand(
		newDraftSaveCmd(app, opts),
		newDraftResetCmd(app, opts),
		newDraftShowCmd(app, opts),
		newDraftImportCmd(app, opts),
	)

	return cmd
}

func newDraftSaveCmd(app *App, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Save the active dataset (e.g. one opened from a link) as the local draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, app, opts, true)
			if err != nil {
				return err
			}
			if err := login(cmd, app, opts, sess); err != nil {
				return err
			}
			saved, err := sess.SaveDraft(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatLocalDraft(saved))
			return nil
		},
	}
}

func newDraftResetCmd(app *App, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the local draft and go back to the published estimate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, app, opts, true)
			if err != nil {
				return err
			}
			if err := login(cmd, app, opts, sess); err != nil {
				return err
			}
			if err := sess.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleGreen.Render("✔ Local draft cleared; showing the published estimate."))
			return nil
		},
	}
}

func newDraftShowCmd(app *App, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the draft saved on this device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.sessionConfig(cmd, app.Defaults, true)
			if err != nil {
				return err
			}
			saved, err := app.NewSession(cfg).LocalDraft(cmd.Context())
			if errors.Is(err, repository.ErrNotFound) {
				saved, err = nil, nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatLocalDraft(saved))
			return nil
		},
	}
}

func newDraftImportCmd(app *App, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the local draft with a JSON or YAML snapshot file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := source.FileSource{Path: args[0]}.Fetch(cmd.Context())
			if err != nil {
				return err
			}
			sess, err := openSession(cmd, app, opts, true)
			if err != nil {
				return err
			}
			if err := login(cmd, app, opts, sess); err != nil {
				return err
			}
			if err := sess.ReplaceItems(items); err != nil {
				return err
			}
			saved, err := sess.SaveDraft(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatLocalDraft(saved))
			return nil
		},
	}
}
