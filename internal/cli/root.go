package cli

import (
	"context"

	"github.com/alexanderramin/estimo/internal/domain"
	"github.com/alexanderramin/estimo/internal/service"
	"github.com/spf13/cobra"
)

// App holds the collaborators used by CLI commands.
type App struct {
	// NewSession builds an unloaded session for one command invocation.
	NewSession func(cfg service.SessionConfig) *service.EstimateSession

	// Defaults is the pricing used when neither a link nor a flag sets it.
	Defaults domain.PricingConfig

	// Serve runs the HTTP surface until ctx ends.
	Serve func(ctx context.Context) error

	// IsInteractive reports whether stdin is a terminal, in which case a
	// missing passcode is prompted for.
	IsInteractive func() bool

	// PromptPasscode asks for the admin passcode. Nil uses the huh form.
	PromptPasscode func() (string, error)
}

// NewRootCmd creates the top-level "estimo" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "estimo",
		Short:         "Effort and cost estimates with shareable drafts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	opts.register(root)

	root.AddCommand(
		newShowCmd(app, opts),
		newListCmd(app, opts),
		newExportCmd(app, opts),
		newLinkCmd(app, opts),
		newEditCmd(app, opts),
		newDraftCmd(app, opts),
		newServeCmd(app),
	)

	return root
}
