package service

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"devspectrum/internal/domain"
)

func TestPersonaResolver_DevSpectrumCodes(t *testing.T) {
	quiz, personas, _ := devSpectrum(t)
	resolver, err := NewPersonaResolver(personas, quiz.Traits)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	builder := NewTraitBuilder(quiz)

	cases := map[string]string{
		"1":  "RPEA",
		"0":  "RPFA", // every axis ties at zero, the first letters win
		"3":  "RPEA",
		"-1": "QCFV",
	}
	for value, want := range cases {
		vector, err := builder.Build(likertAll(quiz, value))
		if err != nil {
			t.Fatalf("build %s: %v", value, err)
		}
		got := resolver.Resolve(vector)
		if got.ID != want {
			t.Fatalf("answers %s: expected %s, got %s", value, want, got.ID)
		}
		if code := BuildProfile(quiz, vector, "en", "zh").Code; code != want {
			t.Fatalf("answers %s: profile code %s disagrees with persona %s", value, code, want)
		}
	}
}

func TestPersonaResolver_MatchesSignRule(t *testing.T) {
	quiz, personas, _ := devSpectrum(t)
	resolver, err := NewPersonaResolver(personas, quiz.Traits)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		vector := domain.TraitVector{}
		for _, trait := range quiz.Traits {
			vector[trait] = float64(rng.Intn(43) - 21)
		}
		want := BuildProfile(quiz, vector, "en", "zh").Code
		first := resolver.Resolve(vector).ID
		if first != want {
			t.Fatalf("vector %v: expected %s, got %s", vector, want, first)
		}
		if again := resolver.Resolve(vector).ID; again != first {
			t.Fatalf("resolution not deterministic: %s then %s", first, again)
		}
	}
}

func TestPersonaResolver_TieGoesToLowestRank(t *testing.T) {
	scoring := domain.Scoring{Kind: domain.ScoringLinear, Terms: []domain.ScoringTerm{{Trait: "x", Weight: 2}}}
	orders := [][]domain.Persona{
		{{ID: "low", Rank: 1, Scoring: scoring}, {ID: "high", Rank: 2, Scoring: scoring}},
		{{ID: "high", Rank: 2, Scoring: scoring}, {ID: "low", Rank: 1, Scoring: scoring}},
	}
	for _, personas := range orders {
		resolver, err := NewPersonaResolver(personas, []string{"x"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, x := range []float64{-5, 0, 3.25} {
			if got := resolver.Resolve(domain.TraitVector{"x": x}).ID; got != "low" {
				t.Fatalf("expected low-rank persona, got %s", got)
			}
		}
	}
}

func TestPersonaResolver_EpsilonTie(t *testing.T) {
	personas := []domain.Persona{
		{ID: "b", Rank: 2, Scoring: domain.Scoring{Kind: domain.ScoringConstant, Bias: 1 + 5e-10}},
		{ID: "a", Rank: 1, Scoring: domain.Scoring{Kind: domain.ScoringConstant, Bias: 1}},
		{ID: "c", Rank: 3, Scoring: domain.Scoring{Kind: domain.ScoringConstant, Bias: 0.5}},
	}
	resolver, err := NewPersonaResolver(personas, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := resolver.Resolve(domain.TraitVector{}).ID; got != "a" {
		t.Fatalf("expected a within epsilon, got %s", got)
	}
}

func TestPersonaResolver_EpsilonTieMeasuredFromMaximum(t *testing.T) {
	personas := []domain.Persona{
		{ID: "c", Rank: 3, Scoring: domain.Scoring{Kind: domain.ScoringConstant, Bias: 1.5e-9}},
		{ID: "a", Rank: 1, Scoring: domain.Scoring{Kind: domain.ScoringConstant, Bias: 0}},
		{ID: "b", Rank: 2, Scoring: domain.Scoring{Kind: domain.ScoringConstant, Bias: 0.9e-9}},
	}
	resolver, err := NewPersonaResolver(personas, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// b sits within epsilon of the maximum (c) and outranks it; a does not.
	if got := resolver.Resolve(domain.TraitVector{}).ID; got != "b" {
		t.Fatalf("expected b, got %s", got)
	}
}

func TestPersonaResolver_CentroidPicksNearest(t *testing.T) {
	resolver, err := NewPersonaResolver(systematicPersonas(), []string{"systematic", "creative"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := resolver.Resolve(domain.TraitVector{"systematic": 8, "creative": -6}).ID; got != "architect" {
		t.Fatalf("expected architect, got %s", got)
	}
	if got := resolver.Resolve(domain.TraitVector{"systematic": -2, "creative": 4}).ID; got != "inventor" {
		t.Fatalf("expected inventor, got %s", got)
	}
}

func TestNewPersonaResolver_Validation(t *testing.T) {
	linear := domain.Scoring{Kind: domain.ScoringLinear, Terms: []domain.ScoringTerm{{Trait: "x", Weight: 1}}}
	cases := map[string][]domain.Persona{
		"empty":           nil,
		"missing id":      {{Rank: 1, Scoring: linear}},
		"duplicate id":    {{ID: "a", Rank: 1, Scoring: linear}, {ID: "a", Rank: 2, Scoring: linear}},
		"duplicate rank":  {{ID: "a", Rank: 1, Scoring: linear}, {ID: "b", Rank: 1, Scoring: linear}},
		"unknown kind":    {{ID: "a", Rank: 1, Scoring: domain.Scoring{Kind: "radial"}}},
		"unknown trait":   {{ID: "a", Rank: 1, Scoring: domain.Scoring{Kind: domain.ScoringLinear, Terms: []domain.ScoringTerm{{Trait: "y", Weight: 1}}}}},
		"infinite weight": {{ID: "a", Rank: 1, Scoring: domain.Scoring{Kind: domain.ScoringLinear, Terms: []domain.ScoringTerm{{Trait: "x", Weight: math.Inf(1)}}}}},
		"nan bias":        {{ID: "a", Rank: 1, Scoring: domain.Scoring{Kind: domain.ScoringConstant, Bias: math.NaN()}}},
		"linear no terms": {{ID: "a", Rank: 1, Scoring: domain.Scoring{Kind: domain.ScoringLinear}}},
		"constant terms":  {{ID: "a", Rank: 1, Scoring: domain.Scoring{Kind: domain.ScoringConstant, Terms: linear.Terms}}},
	}
	for name, personas := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewPersonaResolver(personas, []string{"x"})
			if !errors.Is(err, domain.ErrConfiguration) {
				t.Fatalf("expected ConfigurationError, got %v", err)
			}
		})
	}
}
