package service

import (
	"slices"

	"devspectrum/internal/domain"
)

// TraitBuilder convierte un envío en un vector de rasgos. Solo lee la tabla de
// preguntas, por lo que una instancia sirve a todas las solicitudes.
type TraitBuilder struct {
	quiz *domain.Quiz
}

func NewTraitBuilder(quiz *domain.Quiz) *TraitBuilder {
	return &TraitBuilder{quiz: quiz}
}

// Build valida sub y suma los aportes elegidos. La acumulación sigue el orden
// de la tabla de preguntas, así el vector no depende del orden de las respuestas.
func (b *TraitBuilder) Build(sub domain.Submission) (domain.TraitVector, error) {
	vector, _, err := b.Breakdown(sub)
	return vector, err
}

// Breakdown es Build más el detalle por pregunta, en el orden de la tabla.
func (b *TraitBuilder) Breakdown(sub domain.Submission) (domain.TraitVector, []domain.Response, error) {
	chosen, err := b.validate(sub)
	if err != nil {
		return nil, nil, err
	}

	vector := make(domain.TraitVector, len(b.quiz.Traits))
	for _, t := range b.quiz.Traits {
		vector[t] = 0
	}
	responses := make([]domain.Response, 0, len(b.quiz.Questions))
	for _, q := range b.quiz.Questions {
		resp := domain.Response{
			QuestionID:    q.ID,
			Trait:         q.Trait,
			Reverse:       q.Reverse,
			Contributions: map[string]float64{},
		}
		// options are summed in table order, not selection order
		for _, o := range q.Options {
			if !slices.Contains(chosen[q.ID], o.ID) {
				continue
			}
			resp.OptionIDs = append(resp.OptionIDs, o.ID)
			for _, trait := range sortedKeys(o.Contributions) {
				vector[trait] += o.Contributions[trait]
				resp.Contributions[trait] += o.Contributions[trait]
			}
			if q.Trait != "" {
				adjusted := o.Value
				if q.Reverse && adjusted != 0 {
					adjusted = -adjusted
				}
				resp.Adjusted += adjusted
			}
		}
		if q.Trait != "" {
			resp.Weighted = resp.Contributions[q.Trait]
		} else {
			for _, trait := range sortedKeys(resp.Contributions) {
				resp.Weighted += resp.Contributions[trait]
			}
			resp.Adjusted = resp.Weighted
		}
		responses = append(responses, resp)
	}
	return vector, responses, nil
}

func (b *TraitBuilder) validate(sub domain.Submission) (map[string][]string, error) {
	chosen := make(map[string][]string, len(sub))
	for _, a := range sub {
		q, ok := b.quiz.Question(a.QuestionID)
		if !ok {
			return nil, domain.NewValidationError(a.QuestionID, "unknown question")
		}
		if _, dup := chosen[a.QuestionID]; dup {
			return nil, domain.NewValidationError(a.QuestionID, "answered more than once")
		}
		if len(a.OptionIDs) == 0 {
			return nil, domain.NewValidationError(a.QuestionID, "no option selected")
		}
		if len(a.OptionIDs) > 1 && !q.Multi {
			return nil, domain.NewValidationError(a.QuestionID, "several options on a single-choice question")
		}
		picked := map[string]bool{}
		for _, id := range a.OptionIDs {
			if _, ok := q.Option(id); !ok {
				return nil, domain.NewValidationError(a.QuestionID, "unknown option "+id)
			}
			if picked[id] {
				return nil, domain.NewValidationError(a.QuestionID, "option "+id+" selected twice")
			}
			picked[id] = true
		}
		chosen[a.QuestionID] = a.OptionIDs
	}

	var missing []string
	for _, q := range b.quiz.Questions {
		if _, ok := chosen[q.ID]; !ok {
			missing = append(missing, q.ID)
		}
	}
	if len(missing) > 0 {
		err := domain.NewValidationError(missing[0], "unanswered")
		err.Missing = missing
		return nil, err
	}
	return chosen, nil
}
