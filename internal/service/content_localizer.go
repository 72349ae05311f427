package service

import (
	"fmt"
	"slices"
	"strings"

	"devspectrum/internal/domain"
)

// ContentLocalizer busca el texto de un perfil por perfil e idioma. Los
// bloques se indexan una vez y las búsquedas no tocan el repositorio.
type ContentLocalizer struct {
	locales *Locales
	bundles map[string]map[string]domain.PersonaContent
}

// NewContentLocalizer indexa items y verifica que cada perfil tenga un bloque
// con título en el idioma por defecto.
func NewContentLocalizer(items []domain.PersonaContent, personaIDs []string, locales *Locales) (*ContentLocalizer, error) {
	bundles := make(map[string]map[string]domain.PersonaContent)
	for _, c := range items {
		locale := strings.ToLower(strings.TrimSpace(c.Locale))
		if c.PersonaID == "" || locale == "" {
			return nil, domain.NewConfigurationError("content", "bundle without persona id or locale", nil)
		}
		if strings.TrimSpace(c.Title) == "" {
			return nil, domain.NewConfigurationError("content", fmt.Sprintf("%s/%s: empty title", c.PersonaID, locale), nil)
		}
		byLocale, ok := bundles[c.PersonaID]
		if !ok {
			byLocale = make(map[string]domain.PersonaContent)
			bundles[c.PersonaID] = byLocale
		}
		if _, dup := byLocale[locale]; dup {
			return nil, domain.NewConfigurationError("content", fmt.Sprintf("%s/%s: duplicate bundle", c.PersonaID, locale), nil)
		}
		c.Locale = locale
		byLocale[locale] = c
	}

	var missing []string
	for _, id := range personaIDs {
		if _, ok := bundles[id][locales.Default()]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, domain.NewConfigurationError("content",
			fmt.Sprintf("no %s content for personas %s", locales.Default(), strings.Join(missing, ", ")), nil)
	}
	return &ContentLocalizer{locales: locales, bundles: bundles}, nil
}

// Localize devuelve el bloque del idioma normalizado, o el del idioma por
// defecto si ese no existe. El Locale devuelto indica cuál se usó. Paragraphs y
// Tips nunca son nil.
func (l *ContentLocalizer) Localize(personaID, locale string) (domain.PersonaContent, error) {
	byLocale, ok := l.bundles[personaID]
	if !ok {
		return domain.PersonaContent{}, domain.NewConfigurationError("content", "no content for persona "+personaID, nil)
	}
	c, ok := byLocale[l.locales.Normalize(locale)]
	if !ok {
		c, ok = byLocale[l.locales.Default()]
	}
	if !ok {
		return domain.PersonaContent{}, domain.NewConfigurationError("content", "no default content for persona "+personaID, nil)
	}

	c.Paragraphs = cloneOrEmpty(c.Paragraphs)
	c.Tips = cloneOrEmpty(c.Tips)
	return c, nil
}

func cloneOrEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return slices.Clone(values)
}
