package repository

import (
	"context"
	"encoding/json"
	"os"
	"slices"
	"sort"

	"devspectrum/internal/domain"
)

// ContentRepository define el contrato para listar los textos de perfiles. Se
// carga una sola vez al arrancar.
type ContentRepository interface {
	ListContent(ctx context.Context) ([]domain.PersonaContent, error)
}

// contentRecord es un idioma de persona_content.json.
type contentRecord struct {
	Title          string   `json:"title"`
	TaglineHeading string   `json:"tagline_heading"`
	Tagline        string   `json:"tagline"`
	Paragraphs     []string `json:"paragraphs"`
	Tips           []string `json:"tips"`
}

// JSONContentRepository lee textos indexados por id de perfil y luego por idioma.
type JSONContentRepository struct {
	data []byte
	path string
}

func NewJSONContentRepository(data []byte) *JSONContentRepository {
	return &JSONContentRepository{data: data}
}

// NewJSONContentFile lee path en cada llamada a ListContent.
func NewJSONContentFile(path string) *JSONContentRepository {
	return &JSONContentRepository{path: path}
}

func (r *JSONContentRepository) ListContent(ctx context.Context) ([]domain.PersonaContent, error) {
	data := r.data
	if r.path != "" {
		raw, err := os.ReadFile(r.path)
		if err != nil {
			return nil, domain.NewConfigurationError("content", "read "+r.path, err)
		}
		data = raw
	}

	var file map[string]map[string]contentRecord
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, domain.NewConfigurationError("content", "parse json", err)
	}

	var out []domain.PersonaContent
	for personaID, locales := range file {
		for locale, rec := range locales {
			out = append(out, domain.PersonaContent{
				PersonaID:      personaID,
				Locale:         locale,
				Title:          rec.Title,
				TaglineHeading: rec.TaglineHeading,
				Tagline:        rec.Tagline,
				Paragraphs:     rec.Paragraphs,
				Tips:           rec.Tips,
			})
		}
	}
	sortContent(out)
	return out, nil
}

// MemoryContentRepository sirve un slice fijo, para tests y herramientas.
type MemoryContentRepository struct {
	items []domain.PersonaContent
}

func NewMemoryContentRepository(items ...domain.PersonaContent) *MemoryContentRepository {
	return &MemoryContentRepository{items: slices.Clone(items)}
}

func (r *MemoryContentRepository) ListContent(ctx context.Context) ([]domain.PersonaContent, error) {
	out := slices.Clone(r.items)
	sortContent(out)
	return out, nil
}

func sortContent(items []domain.PersonaContent) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].PersonaID != items[j].PersonaID {
			return items[i].PersonaID < items[j].PersonaID
		}
		return items[i].Locale < items[j].Locale
	})
}
