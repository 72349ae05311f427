package service

import (
	"sort"
	"strings"

	"devspectrum/internal/domain"
)

// AxisResult es un eje del perfil con sus etiquetas localizadas.
type AxisResult struct {
	Trait         string  `json:"trait"`
	Title         string  `json:"title"`
	Score         float64 `json:"score"`
	Letter        string  `json:"letter"`
	Label         string  `json:"label"`
	PositiveLabel string  `json:"positive_label"`
	NegativeLabel string  `json:"negative_label"`
}

// Profile es el desglose por ejes de un vector. Code une las letras
// favorecidas en orden de eje, p. ej. "RPEA".
type Profile struct {
	Code string       `json:"code"`
	Axes []AxisResult `json:"axes"`
}

// BuildProfile lee el vector sobre los ejes del cuestionario. Las etiquetas
// salen de locale, luego de fallback y si no de la letra sola.
func BuildProfile(quiz *domain.Quiz, v domain.TraitVector, locale, fallback string) Profile {
	label := func(letter string) string {
		if l := quiz.Letters[locale][letter]; l != "" {
			return l
		}
		if l := quiz.Letters[fallback][letter]; l != "" {
			return l
		}
		return letter
	}

	var code strings.Builder
	axes := make([]AxisResult, 0, len(quiz.Axes))
	for _, axis := range quiz.Axes {
		score := v[axis.Trait]
		letter := axis.Letter(score)
		code.WriteString(letter)
		title := axis.Title.In(locale, fallback)
		if title == "" {
			title = axis.Trait
		}
		axes = append(axes, AxisResult{
			Trait:         axis.Trait,
			Title:         title,
			Score:         score,
			Letter:        letter,
			Label:         label(letter),
			PositiveLabel: label(axis.Positive),
			NegativeLabel: label(axis.Negative),
		})
	}
	return Profile{Code: code.String(), Axes: axes}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
