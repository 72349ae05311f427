package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"devspectrum/internal/app"
)

func newValidateCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load every table and font and lay out all persona reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := app.Build(cmd.Context(), a.Config, a.Logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "ok: %d questions, %d personas, %d content bundles, locales %s\n",
				len(container.Quiz.Questions),
				len(container.Personas),
				len(container.Content),
				strings.Join(container.Reports.Locales().Supported(), ","),
			)
			return nil
		},
	}
}
