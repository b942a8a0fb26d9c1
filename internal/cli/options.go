package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alexanderramin/estimo/internal/access"
	"github.com/alexanderramin/estimo/internal/cli/formatter"
	"github.com/alexanderramin/estimo/internal/domain"
	"github.com/alexanderramin/estimo/internal/link"
	"github.com/alexanderramin/estimo/internal/service"
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every command. A share
// link sets view, rate, buffer and draft at once; explicit flags win.
type globalOptions struct {
	link     string
	view     string
	rate     float64
	buffer   float64
	draft    string
	passcode string
}

func (o *globalOptions) register(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&o.link, "link", "", "Open a share link (view, rate, buffer and #draft=)")
	f.StringVar(&o.view, "view", "", "View as admin or client (default client)")
	f.Float64Var(&o.rate, "rate", 0, "Hourly rate in €/h")
	f.Float64Var(&o.buffer, "buffer", 0, "Contingency buffer in percent")
	f.StringVar(&o.draft, "draft", "", "Draft token to open instead of the published estimate")
	f.StringVar(&o.passcode, "passcode", "", "Admin passcode ('-' reads it from stdin)")
}

// sessionConfig merges the link with explicit flags. forceAdmin is set
// by commands that only make sense in the admin view.
func (o *globalOptions) sessionConfig(cmd *cobra.Command, defaults domain.PricingConfig, forceAdmin bool) (service.SessionConfig, error) {
	var l link.Link
	if o.link != "" {
		parsed, err := link.Parse(o.link)
		if err != nil {
			return service.SessionConfig{}, err
		}
		l = parsed
	}

	flags := cmd.Flags()
	if flags.Changed("view") {
		l.View = domain.ParseRole(o.view)
	}
	if flags.Changed("rate") {
		if _, err := defaults.WithRate(o.rate); err != nil {
			return service.SessionConfig{}, fmt.Errorf("--rate: %w", err)
		}
		rate := o.rate
		l.Rate = &rate
	}
	if flags.Changed("buffer") {
		buffer := o.buffer
		l.Buffer = &buffer
	}
	if flags.Changed("draft") {
		l.DraftToken = o.draft
	}
	if l.View == "" {
		l.View = domain.RoleClient
	}
	if forceAdmin {
		l.View = domain.RoleAdmin
	}

	return service.SessionConfig{
		Role:       l.View,
		Pricing:    l.Pricing(defaults),
		DraftToken: l.DraftToken,
	}, nil
}

// openSession builds and loads a session. A load failure is rendered on
// stderr before being returned.
func openSession(cmd *cobra.Command, app *App, opts *globalOptions, forceAdmin bool) (*service.EstimateSession, error) {
	cfg, err := opts.sessionConfig(cmd, app.Defaults, forceAdmin)
	if err != nil {
		return nil, err
	}
	sess := app.NewSession(cfg)
	if err := sess.Load(cmd.Context()); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), formatter.FormatLoadFailure(err))
		return nil, err
	}
	return sess, nil
}

// login authenticates the session with the passcode from --passcode,
// stdin or an interactive prompt, in that order.
func login(cmd *cobra.Command, app *App, opts *globalOptions, sess *service.EstimateSession) error {
	passcode, err := resolvePasscode(cmd, app, opts)
	if err != nil {
		return err
	}
	if err := sess.Login(cmd.Context(), passcode); err != nil {
		if errors.Is(err, access.ErrInvalidPasscode) {
			return fmt.Errorf("login rejected: %w", err)
		}
		return err
	}
	return nil
}

// loginIfGiven authenticates only when a passcode was passed explicitly.
func loginIfGiven(cmd *cobra.Command, app *App, opts *globalOptions, sess *service.EstimateSession) error {
	if opts.passcode == "" || sess.State().Gate.Role() != domain.RoleAdmin {
		return nil
	}
	return login(cmd, app, opts, sess)
}

func resolvePasscode(cmd *cobra.Command, app *App, opts *globalOptions) (string, error) {
	switch {
	case opts.passcode == "-":
		return readPasscode(cmd.InOrStdin())
	case opts.passcode != "":
		return opts.passcode, nil
	case app.IsInteractive != nil && app.IsInteractive():
		prompt := app.PromptPasscode
		if prompt == nil {
			prompt = promptPasscode
		}
		return prompt()
	default:
		return "", fmt.Errorf("%w: pass --passcode or run interactively", access.ErrPasscodeRequired)
	}
}

func readPasscode(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading passcode: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
