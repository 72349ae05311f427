package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"devspectrum/internal/assets"
	"devspectrum/internal/db"
	"devspectrum/internal/domain"
	"devspectrum/internal/repository"
)

// contentWriter lo implementa *repository.PgContentRepository.
type contentWriter interface {
	Upsert(ctx context.Context, c domain.PersonaContent) error
}

func newSeedCmd(a *App) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Copy persona content from JSON into the Postgres persona_content table",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if a.Config.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is not set")
			}

			var src repository.ContentRepository = repository.NewJSONContentRepository(assets.PersonaContent)
			if from != "" {
				src = repository.NewJSONContentFile(from)
			}

			pool, err := db.NewPool(ctx, a.Config)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer pool.Close()
			if err := db.EnsureSchema(ctx, pool); err != nil {
				return fmt.Errorf("ensure schema: %w", err)
			}

			n, err := seedContent(ctx, src, repository.NewPgContentRepository(pool))
			if err != nil {
				return err
			}
			a.Logger.Info("persona content seeded", zap.Int("bundles", n))
			fmt.Fprintf(a.Out, "seeded %d persona content bundles\n", n)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "persona_content.json to load (defaults to the embedded copy)")
	return cmd
}

func seedContent(ctx context.Context, src repository.ContentRepository, dst contentWriter) (int, error) {
	items, err := src.ListContent(ctx)
	if err != nil {
		return 0, err
	}
	for _, c := range items {
		if err := dst.Upsert(ctx, c); err != nil {
			return 0, fmt.Errorf("upsert %s/%s: %w", c.PersonaID, c.Locale, err)
		}
	}
	return len(items), nil
}
