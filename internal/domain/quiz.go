package domain

// Text es un texto localizado por código de idioma.
type Text map[string]string

// In devuelve el texto de locale, o el de fallback si falta.
func (t Text) In(locale, fallback string) string {
	if v := t[locale]; v != "" {
		return v
	}
	if v := t[fallback]; v != "" {
		return v
	}
	return ""
}

// Option es una respuesta seleccionable de una pregunta. Value guarda el punto
// de la escala Likert antes de aplicar la inversión y la orientación del eje.
type Option struct {
	ID            string             `json:"id"`
	Label         Text               `json:"label,omitempty"`
	Value         float64            `json:"value,omitempty"`
	Contributions map[string]float64 `json:"contributions"`
}

// Question es inmutable una vez cargada la tabla.
type Question struct {
	ID      string   `json:"id"`
	Prompt  Text     `json:"prompt"`
	Multi   bool     `json:"multi"`
	Trait   string   `json:"trait,omitempty"`
	Reverse bool     `json:"reverse,omitempty"`
	Options []Option `json:"options"`
}

// Option devuelve la opción con el id dado.
func (q Question) Option(id string) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Axis une dos letras opuestas sobre un rasgo. Un puntaje >= 0 favorece a Positive.
type Axis struct {
	Trait    string `json:"trait"`
	Positive string `json:"positive"`
	Negative string `json:"negative"`
	Title    Text   `json:"title"`
}

// Letter devuelve la letra favorecida por score.
func (a Axis) Letter(score float64) string {
	if score >= 0 {
		return a.Positive
	}
	return a.Negative
}

// ReportCopy guarda las etiquetas fijas del reporte en un idioma.
type ReportCopy struct {
	ReportTitle      string `yaml:"report_title" json:"report_title"`
	ProfileCode      string `yaml:"profile_code" json:"profile_code"`
	TipsHeading      string `yaml:"tips_heading" json:"tips_heading"`
	BreakdownHeading string `yaml:"breakdown_heading" json:"breakdown_heading"`
	Favours          string `yaml:"favours" json:"favours"`
	AnswerSummary    string `yaml:"answer_summary" json:"answer_summary"`
	AnswerLine       string `yaml:"answer_line" json:"answer_line"`
	MissingAnswers   string `yaml:"missing_answers" json:"missing_answers"`
	IncompleteExport string `yaml:"incomplete_export" json:"incomplete_export"`
}

// Quiz es la tabla de preguntas del proceso.
type Quiz struct {
	Traits    []string
	Questions []Question
	Axes      []Axis
	Letters   map[string]map[string]string
	Copy      map[string]ReportCopy
}

// Question devuelve la pregunta con el id dado.
func (q *Quiz) Question(id string) (Question, bool) {
	for _, question := range q.Questions {
		if question.ID == id {
			return question, true
		}
	}
	return Question{}, false
}

// Answer es la elección del usuario para una pregunta.
type Answer struct {
	QuestionID string   `json:"question_id"`
	OptionIDs  []string `json:"option_ids"`
}

// Submission es una secuencia ordenada de respuestas, una por pregunta.
type Submission []Answer

// Response registra cómo se puntuó una respuesta. En preguntas Likert Adjusted
// es el valor tras la inversión y Weighted el aporte al rasgo del eje; en
// preguntas con opciones explícitas ambos son la suma de aportes.
type Response struct {
	QuestionID    string             `json:"question_id"`
	OptionIDs     []string           `json:"option_ids"`
	Trait         string             `json:"trait,omitempty"`
	Reverse       bool               `json:"reverse,omitempty"`
	Adjusted      float64            `json:"adjusted"`
	Weighted      float64            `json:"weighted"`
	Contributions map[string]float64 `json:"contributions"`
}

// TraitVector asocia cada rasgo con su puntaje.
type TraitVector map[string]float64
