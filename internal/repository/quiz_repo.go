package repository

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"devspectrum/internal/domain"
)

type quizFile struct {
	Axes    []axisRecord                 `yaml:"axes"`
	Traits  []string                     `yaml:"traits"`
	Letters map[string]map[string]string `yaml:"letters"`
	Copy    map[string]domain.ReportCopy `yaml:"copy"`
	Likert  []likertRecord               `yaml:"likert"`
	Records []questionRecord             `yaml:"questions"`
}

type axisRecord struct {
	Trait    string      `yaml:"trait"`
	Positive string      `yaml:"positive"`
	Negative string      `yaml:"negative"`
	Title    domain.Text `yaml:"title"`
}

type likertRecord struct {
	Value int         `yaml:"value"`
	Label domain.Text `yaml:"label"`
}

type optionRecord struct {
	ID            string             `yaml:"id"`
	Label         domain.Text        `yaml:"label"`
	Contributions map[string]float64 `yaml:"contributions"`
}

// questionRecord es una pregunta de polo, puntuada en la escala Likert, o una
// pregunta con opciones y aportes explícitos.
type questionRecord struct {
	ID      string         `yaml:"id"`
	Pole    string         `yaml:"pole"`
	Reverse bool           `yaml:"reverse"`
	Multi   bool           `yaml:"multi"`
	Prompt  domain.Text    `yaml:"prompt"`
	Options []optionRecord `yaml:"options"`
}

// LoadQuizFile lee una tabla de preguntas desde disco.
func LoadQuizFile(path string) (*domain.Quiz, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewConfigurationError("quiz", "read "+path, err)
	}
	return LoadQuiz(data)
}

// LoadQuiz parsea y valida una tabla de preguntas. Las preguntas de polo se
// expanden en una opción por valor Likert.
func LoadQuiz(data []byte) (*domain.Quiz, error) {
	var file quizFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, domain.NewConfigurationError("quiz", "parse yaml", err)
	}

	quiz := &domain.Quiz{Letters: file.Letters, Copy: file.Copy}
	traits := map[string]bool{}
	poles := map[string]domain.Axis{}
	addTrait := func(name string) error {
		name = strings.TrimSpace(name)
		if name == "" {
			return domain.NewConfigurationError("quiz", "empty trait name", nil)
		}
		if !traits[name] {
			traits[name] = true
			quiz.Traits = append(quiz.Traits, name)
		}
		return nil
	}

	for _, rec := range file.Axes {
		axis := domain.Axis{Trait: rec.Trait, Positive: rec.Positive, Negative: rec.Negative, Title: rec.Title}
		if axis.Positive == "" || axis.Negative == "" || axis.Positive == axis.Negative {
			return nil, domain.NewConfigurationError("quiz", fmt.Sprintf("axis %s needs two distinct letters", rec.Trait), nil)
		}
		for _, letter := range []string{axis.Positive, axis.Negative} {
			if _, dup := poles[letter]; dup {
				return nil, domain.NewConfigurationError("quiz", fmt.Sprintf("letter %s used by two axes", letter), nil)
			}
			poles[letter] = axis
		}
		if err := addTrait(rec.Trait); err != nil {
			return nil, err
		}
		quiz.Axes = append(quiz.Axes, axis)
	}
	for _, t := range file.Traits {
		if err := addTrait(t); err != nil {
			return nil, err
		}
	}

	seen := map[string]bool{}
	for _, rec := range file.Records {
		if rec.ID == "" {
			return nil, domain.NewConfigurationError("quiz", "question without id", nil)
		}
		if seen[rec.ID] {
			return nil, domain.NewConfigurationError("quiz", "duplicate question "+rec.ID, nil)
		}
		seen[rec.ID] = true

		q := domain.Question{ID: rec.ID, Prompt: rec.Prompt, Multi: rec.Multi, Reverse: rec.Reverse}
		switch {
		case rec.Pole != "" && len(rec.Options) > 0:
			return nil, domain.NewConfigurationError("quiz", rec.ID+": pole and options are exclusive", nil)
		case rec.Pole != "":
			axis, ok := poles[rec.Pole]
			if !ok {
				return nil, domain.NewConfigurationError("quiz", fmt.Sprintf("%s: unknown pole %s", rec.ID, rec.Pole), nil)
			}
			if len(file.Likert) == 0 {
				return nil, domain.NewConfigurationError("quiz", rec.ID+": pole question without a likert scale", nil)
			}
			q.Trait = axis.Trait
			q.Options = likertOptions(file.Likert, axis, rec.Pole, rec.Reverse)
		default:
			for _, o := range rec.Options {
				for trait, delta := range o.Contributions {
					if !traits[trait] {
						return nil, domain.NewConfigurationError("quiz", fmt.Sprintf("%s/%s: unknown trait %s", rec.ID, o.ID, trait), nil)
					}
					if math.IsNaN(delta) || math.IsInf(delta, 0) {
						return nil, domain.NewConfigurationError("quiz", fmt.Sprintf("%s/%s: contribution is not finite", rec.ID, o.ID), nil)
					}
				}
				q.Options = append(q.Options, domain.Option{ID: o.ID, Label: o.Label, Contributions: o.Contributions})
			}
		}
		if err := validateOptions(q); err != nil {
			return nil, err
		}
		quiz.Questions = append(quiz.Questions, q)
	}

	if len(quiz.Questions) == 0 {
		return nil, domain.NewConfigurationError("quiz", "no questions", nil)
	}
	return quiz, nil
}

// likertOptions puntúa value*direction sobre el rasgo del eje; direction es -1
// en preguntas inversas y en polos del lado negativo del eje.
func likertOptions(scale []likertRecord, axis domain.Axis, pole string, reverse bool) []domain.Option {
	direction := 1.0
	if reverse {
		direction = -direction
	}
	if pole != axis.Positive {
		direction = -direction
	}
	options := make([]domain.Option, 0, len(scale))
	for _, l := range scale {
		delta := float64(l.Value) * direction
		if delta == 0 {
			delta = 0 // no negative zero
		}
		options = append(options, domain.Option{
			ID:            strconv.Itoa(l.Value),
			Label:         l.Label,
			Value:         float64(l.Value),
			Contributions: map[string]float64{axis.Trait: delta},
		})
	}
	return options
}

func validateOptions(q domain.Question) error {
	if len(q.Options) == 0 {
		return domain.NewConfigurationError("quiz", q.ID+": no options", nil)
	}
	ids := map[string]bool{}
	for _, o := range q.Options {
		if o.ID == "" {
			return domain.NewConfigurationError("quiz", q.ID+": option without id", nil)
		}
		if ids[o.ID] {
			return domain.NewConfigurationError("quiz", fmt.Sprintf("%s: duplicate option %s", q.ID, o.ID), nil)
		}
		ids[o.ID] = true
	}
	return nil
}
