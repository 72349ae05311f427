package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"devspectrum/internal/app"
	"devspectrum/internal/domain"
)

func newRenderCmd(a *App) *cobra.Command {
	var (
		lang    string
		answers string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a PDF report for a set of answers",
		Example: `  devspectrum render --lang en --answers q1=1,q2=-2,...,q28=0 -o report.pdf
  devspectrum render --answers q1=a|b   # several options on a multi-select question`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := parseAnswers(answers)
			if err != nil {
				return err
			}
			return runRender(cmd.Context(), a, sub, lang, output)
		},
	}

	cmd.Flags().StringVar(&lang, "lang", "", "Report locale (defaults to DEFAULT_LOCALE)")
	cmd.Flags().StringVar(&answers, "answers", "", "Comma separated question=option pairs")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (defaults to the report file name)")
	_ = cmd.MarkFlagRequired("answers")
	return cmd
}

func runRender(ctx context.Context, a *App, sub domain.Submission, lang, output string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	container, err := app.Build(ctx, a.Config, a.Logger)
	if err != nil {
		return err
	}

	report, err := container.Reports.Generate(ctx, sub, lang)
	if err != nil {
		return err
	}
	if output == "" {
		output = report.Filename
	}
	if err := os.WriteFile(output, report.Bytes, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	fmt.Fprintf(a.Out, "%s (%s): %d pages, %d bytes -> %s\n", report.PersonaID, report.Locale, report.Pages, len(report.Bytes), output)
	return nil
}

// parseAnswers convierte "q1=1,q2=a|b" en un envío respetando el orden dado.
func parseAnswers(raw string) (domain.Submission, error) {
	var sub domain.Submission
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		id, value, ok := strings.Cut(pair, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("answer %q: expected question=option", pair)
		}
		var options []string
		for _, o := range strings.Split(value, "|") {
			if o = strings.TrimSpace(o); o != "" {
				options = append(options, o)
			}
		}
		sub = append(sub, domain.Answer{QuestionID: id, OptionIDs: options})
	}
	if len(sub) == 0 {
		return nil, fmt.Errorf("no answers given")
	}
	return sub, nil
}
