package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"devspectrum/internal/domain"
)

// pgQuerier is a minimal interface over *pgxpool.Pool to simplify testing.
type pgQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type PgContentRepository struct {
	pool pgQuerier
}

func NewPgContentRepository(pool pgQuerier) *PgContentRepository {
	return &PgContentRepository{pool: pool}
}

func (r *PgContentRepository) ListContent(ctx context.Context) ([]domain.PersonaContent, error) {
	const query = `
		SELECT persona_id, locale, title, tagline_heading, tagline,
			COALESCE(paragraphs, '[]'::jsonb), COALESCE(tips, '[]'::jsonb)
		FROM persona_content
		ORDER BY persona_id, locale
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.PersonaContent
	for rows.Next() {
		var c domain.PersonaContent
		if err := rows.Scan(
			&c.PersonaID,
			&c.Locale,
			&c.Title,
			&c.TaglineHeading,
			&c.Tagline,
			&c.Paragraphs,
			&c.Tips,
		); err != nil {
			return nil, err
		}
		items = append(items, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// Upsert guarda un bloque de contenido y reemplaza el anterior del mismo perfil
// e idioma.
func (r *PgContentRepository) Upsert(ctx context.Context, c domain.PersonaContent) error {
	const query = `
		INSERT INTO persona_content (persona_id, locale, title, tagline_heading, tagline, paragraphs, tips, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (persona_id, locale)
		DO UPDATE SET
			title = EXCLUDED.title,
			tagline_heading = EXCLUDED.tagline_heading,
			tagline = EXCLUDED.tagline,
			paragraphs = EXCLUDED.paragraphs,
			tips = EXCLUDED.tips,
			updated_at = EXCLUDED.updated_at
	`

	paragraphs := c.Paragraphs
	if paragraphs == nil {
		paragraphs = []string{}
	}
	tips := c.Tips
	if tips == nil {
		tips = []string{}
	}

	_, err := r.pool.Exec(ctx, query,
		c.PersonaID,
		c.Locale,
		c.Title,
		c.TaglineHeading,
		c.Tagline,
		paragraphs,
		tips,
	)
	return err
}
