package service

import (
	"strings"

	"golang.org/x/text/language"

	"devspectrum/internal/domain"
)

// Locales lleva cualquier etiqueta de idioma al conjunto soportado. Lo que no
// coincide cae en el idioma por defecto.
type Locales struct {
	def       string
	supported []string
	matcher   language.Matcher
}

// NewLocales construye el matcher. El idioma por defecto debe estar en supported.
func NewLocales(def string, supported ...string) (*Locales, error) {
	def = strings.ToLower(strings.TrimSpace(def))
	if def == "" {
		return nil, domain.NewConfigurationError("locales", "default locale is empty", nil)
	}
	ordered := []string{def}
	seen := map[string]bool{def: true}
	found := false
	for _, s := range supported {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == def {
			found = true
		}
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		ordered = append(ordered, s)
	}
	if !found {
		return nil, domain.NewConfigurationError("locales", "default locale "+def+" is not supported", nil)
	}

	tags := make([]language.Tag, 0, len(ordered))
	for _, s := range ordered {
		tag, err := language.Parse(s)
		if err != nil {
			return nil, domain.NewConfigurationError("locales", "invalid locale "+s, err)
		}
		tags = append(tags, tag)
	}
	return &Locales{def: def, supported: ordered, matcher: language.NewMatcher(tags)}, nil
}

// Default devuelve el idioma de respaldo.
func (l *Locales) Default() string {
	return l.def
}

// Supported devuelve los idiomas con el de por defecto primero.
func (l *Locales) Supported() []string {
	return l.supported
}

// Normalize lleva una etiqueta como "zh-CN", "ZH" o "zh_Hans" a un código
// soportado.
func (l *Locales) Normalize(tag string) string {
	tag = strings.ReplaceAll(strings.TrimSpace(tag), "_", "-")
	if tag == "" {
		return l.def
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return l.def
	}
	return l.match(parsed)
}

// Negotiate prefiere un idioma explícito y si no usa el header
// Accept-Language.
func (l *Locales) Negotiate(explicit, acceptLanguage string) string {
	if strings.TrimSpace(explicit) != "" {
		return l.Normalize(explicit)
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return l.def
	}
	return l.match(tags...)
}

func (l *Locales) match(tags ...language.Tag) string {
	_, index, confidence := l.matcher.Match(tags...)
	if confidence == language.No {
		return l.def
	}
	return l.supported[index]
}
