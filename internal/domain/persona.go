package domain

import "math"

// ScoringKind etiqueta la forma de la función de puntuación de un perfil.
type ScoringKind string

const (
	ScoringLinear   ScoringKind = "linear"
	ScoringCentroid ScoringKind = "centroid"
	ScoringConstant ScoringKind = "constant"
)

// ScoringTerm son los parámetros de un rasgo. Center solo se usa en la puntuación por centroide.
type ScoringTerm struct {
	Trait  string  `json:"trait"`
	Weight float64 `json:"weight"`
	Center float64 `json:"center,omitempty"`
}

// Scoring es la región de un perfil en el espacio de rasgos, expresada como
// score(vector). Terms va ordenado por rasgo para sumar siempre en el mismo orden.
type Scoring struct {
	Kind  ScoringKind   `json:"kind"`
	Bias  float64       `json:"bias,omitempty"`
	Terms []ScoringTerm `json:"terms,omitempty"`
}

// Score evalúa la función de puntuación. Los rasgos ausentes valen cero.
func (s Scoring) Score(v TraitVector) float64 {
	switch s.Kind {
	case ScoringLinear:
		total := s.Bias
		for _, term := range s.Terms {
			total += term.Weight * v[term.Trait]
		}
		return total
	case ScoringCentroid:
		total := 0.0
		for _, term := range s.Terms {
			d := v[term.Trait] - term.Center
			total -= term.Weight * d * d
		}
		return total + s.Bias
	case ScoringConstant:
		return s.Bias
	default:
		return math.Inf(-1)
	}
}

// Persona es un resultado posible del cuestionario. En empates gana el Rank menor.
type Persona struct {
	ID      string  `json:"id"`
	Rank    int     `json:"rank"`
	Scoring Scoring `json:"scoring"`
}

// PersonaContent es el texto de un perfil en un idioma.
type PersonaContent struct {
	PersonaID      string   `json:"persona_id"`
	Locale         string   `json:"locale"`
	Title          string   `json:"title"`
	TaglineHeading string   `json:"tagline_heading,omitempty"`
	Tagline        string   `json:"tagline,omitempty"`
	Paragraphs     []string `json:"paragraphs"`
	Tips           []string `json:"tips"`
}
