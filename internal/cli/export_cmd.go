package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/estimo/internal/cli/formatter"
	"github.com/alexanderramin/estimo/internal/export"
	"github.com/alexanderramin/estimo/internal/service"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App, opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the estimate as CSV or as a publishable snapshot",
	}

	cmd.AddCommand(
		newExportSubCmd(app, opts, "hours", "Hours breakdown as CSV", export.HoursFilename, false,
			func(s *service.EstimateSession) ([]byte, error) {
				out, err := s.HoursCSV()
				return []byte(out), err
			}),
		newExportSubCmd(app, opts, "pricing", "Economic breakdown as CSV (admin)", export.PricingFilename, true,
			func(s *service.EstimateSession) ([]byte, error) {
				out, err := s.PricingCSV()
				return []byte(out), err
			}),
		newExportSubCmd(app, opts, "snapshot", "Dataset snapshot for republishing (admin)", export.SnapshotFilename, true,
			func(s *service.EstimateSession) ([]byte, error) {
				return s.Snapshot()
			}),
	)

	return cmd
}

func newExportSubCmd(
	app *App,
	opts *globalOptions,
	use, short, filename string,
	admin bool,
	render func(*service.EstimateSession) ([]byte, error),
) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, app, opts, admin)
			if err != nil {
				return err
			}
			if admin {
				if err := login(cmd, app, opts, sess); err != nil {
					return err
				}
			}
			data, err := render(sess)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				return writeAll(cmd.OutOrStdout(), data)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), formatter.StyleGreen.Render("✔ Wrote "+output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", fmt.Sprintf("Write to a file (e.g. %s); default stdout", filename))

	return cmd
}

func writeAll(w io.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}
