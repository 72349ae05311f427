package service

import (
	"fmt"
	"math"
	"sort"

	"devspectrum/internal/domain"
)

// scoreEpsilon es el margen bajo el cual dos puntajes cuentan como empate.
const scoreEpsilon = 1e-9

// PersonaResolver asigna vectores de rasgos a perfiles. Los perfiles se guardan
// ordenados por rango, así el empate va al menor rango sin importar el orden de
// la tabla.
type PersonaResolver struct {
	personas []domain.Persona
}

// NewPersonaResolver valida la tabla de perfiles contra los rasgos conocidos.
func NewPersonaResolver(personas []domain.Persona, traits []string) (*PersonaResolver, error) {
	if len(personas) == 0 {
		return nil, domain.NewConfigurationError("personas", "persona table is empty", nil)
	}
	known := make(map[string]bool, len(traits))
	for _, t := range traits {
		known[t] = true
	}

	ids := map[string]bool{}
	ranks := map[int]string{}
	for _, p := range personas {
		if p.ID == "" {
			return nil, domain.NewConfigurationError("personas", "persona without id", nil)
		}
		if ids[p.ID] {
			return nil, domain.NewConfigurationError("personas", "duplicate persona "+p.ID, nil)
		}
		ids[p.ID] = true
		if other, dup := ranks[p.Rank]; dup {
			return nil, domain.NewConfigurationError("personas", fmt.Sprintf("%s and %s share rank %d", other, p.ID, p.Rank), nil)
		}
		ranks[p.Rank] = p.ID
		if err := validateScoring(p.ID, p.Scoring, known); err != nil {
			return nil, err
		}
	}

	sorted := make([]domain.Persona, len(personas))
	copy(sorted, personas)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Rank < sorted[j].Rank })
	return &PersonaResolver{personas: sorted}, nil
}

func validateScoring(id string, s domain.Scoring, known map[string]bool) error {
	if !finite(s.Bias) {
		return domain.NewConfigurationError("personas", id+": bias is not finite", nil)
	}
	switch s.Kind {
	case domain.ScoringLinear, domain.ScoringCentroid:
		if len(s.Terms) == 0 {
			return domain.NewConfigurationError("personas", fmt.Sprintf("%s: %s scoring needs terms", id, s.Kind), nil)
		}
	case domain.ScoringConstant:
		if len(s.Terms) > 0 {
			return domain.NewConfigurationError("personas", id+": constant scoring takes no terms", nil)
		}
	default:
		return domain.NewConfigurationError("personas", fmt.Sprintf("%s: unknown scoring kind %q", id, s.Kind), nil)
	}
	for _, term := range s.Terms {
		if !known[term.Trait] {
			return domain.NewConfigurationError("personas", fmt.Sprintf("%s: unknown trait %s", id, term.Trait), nil)
		}
		if !finite(term.Weight) || !finite(term.Center) {
			return domain.NewConfigurationError("personas", fmt.Sprintf("%s: %s parameters are not finite", id, term.Trait), nil)
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Personas devuelve la tabla en orden de rango.
func (r *PersonaResolver) Personas() []domain.Persona {
	return r.personas
}

// Resolve devuelve el perfil con mayor puntuación. Todo perfil a menos de
// scoreEpsilon del máximo cuenta como empate y gana el de menor rango.
func (r *PersonaResolver) Resolve(v domain.TraitVector) domain.Persona {
	scores := make([]float64, len(r.personas))
	top := math.Inf(-1)
	for i, p := range r.personas {
		scores[i] = p.Scoring.Score(v)
		if scores[i] > top {
			top = scores[i]
		}
	}
	for i, s := range scores {
		if s >= top-scoreEpsilon {
			return r.personas[i]
		}
	}
	return r.personas[0]
}
