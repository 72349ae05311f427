package repository

import (
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"devspectrum/internal/domain"
)

type personaFile struct {
	Personas []personaRecord `yaml:"personas"`
}

type personaRecord struct {
	ID      string        `yaml:"id"`
	Rank    int           `yaml:"rank"`
	Scoring scoringRecord `yaml:"scoring"`
}

type scoringRecord struct {
	Kind    string             `yaml:"kind"`
	Bias    float64            `yaml:"bias"`
	Weights map[string]float64 `yaml:"weights"`
	Centers map[string]float64 `yaml:"centers"`
}

// LoadPersonasFile lee una tabla de perfiles desde disco.
func LoadPersonasFile(path string) ([]domain.Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewConfigurationError("personas", "read "+path, err)
	}
	return LoadPersonas(data)
}

// LoadPersonas parsea una tabla de perfiles. Los chequeos contra los rasgos
// quedan para el resolver, que es dueño de esas invariantes.
func LoadPersonas(data []byte) ([]domain.Persona, error) {
	var file personaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, domain.NewConfigurationError("personas", "parse yaml", err)
	}

	personas := make([]domain.Persona, 0, len(file.Personas))
	for _, rec := range file.Personas {
		personas = append(personas, domain.Persona{
			ID:      rec.ID,
			Rank:    rec.Rank,
			Scoring: buildScoring(rec.Scoring),
		})
	}
	return personas, nil
}

// buildScoring une pesos y centros en términos ordenados por rasgo. Los
// términos de centroide sin peso explícito usan 1.
func buildScoring(rec scoringRecord) domain.Scoring {
	kind := domain.ScoringKind(rec.Kind)
	names := map[string]bool{}
	for t := range rec.Weights {
		names[t] = true
	}
	for t := range rec.Centers {
		names[t] = true
	}

	terms := make([]domain.ScoringTerm, 0, len(names))
	for t := range names {
		weight, ok := rec.Weights[t]
		if !ok && kind == domain.ScoringCentroid {
			weight = 1
		}
		terms = append(terms, domain.ScoringTerm{Trait: t, Weight: weight, Center: rec.Centers[t]})
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i].Trait < terms[j].Trait })
	return domain.Scoring{Kind: kind, Bias: rec.Bias, Terms: terms}
}
