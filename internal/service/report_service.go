package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"devspectrum/internal/domain"
	"devspectrum/internal/layout"
	"devspectrum/internal/pdf"
)

// Renderer convierte un documento maquetado en bytes.
type Renderer interface {
	Render(doc *layout.Document, meta pdf.Metadata) ([]byte, error)
}

// Evaluation reúne todo lo que se sabe de un envío antes de maquetarlo.
type Evaluation struct {
	Vector    domain.TraitVector    `json:"vector"`
	Responses []domain.Response     `json:"responses"`
	Persona   domain.Persona        `json:"-"`
	Profile   Profile               `json:"profile"`
	Content   domain.PersonaContent `json:"content"`
	Locale    string                `json:"locale"`
}

// Report es un documento terminado.
type Report struct {
	PersonaID string
	Locale    string
	Filename  string
	Pages     int
	Document  *layout.Document
	Bytes     []byte
}

// ReportService ejecuta el pipeline completo, desde las respuestas hasta el
// PDF. Solo guarda tablas construidas al arrancar.
type ReportService struct {
	quiz     *domain.Quiz
	builder  *TraitBuilder
	resolver *PersonaResolver
	content  *ContentLocalizer
	locales  *Locales
	engine   *layout.Engine
	renderer Renderer
	logger   *zap.Logger
	now      func() time.Time
}

func NewReportService(
	quiz *domain.Quiz,
	resolver *PersonaResolver,
	content *ContentLocalizer,
	locales *Locales,
	engine *layout.Engine,
	renderer Renderer,
	logger *zap.Logger,
) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		quiz:     quiz,
		builder:  NewTraitBuilder(quiz),
		resolver: resolver,
		content:  content,
		locales:  locales,
		engine:   engine,
		renderer: renderer,
		logger:   logger,
		now:      time.Now,
	}
}

// Quiz devuelve la tabla de preguntas.
func (s *ReportService) Quiz() *domain.Quiz {
	return s.quiz
}

// Locales devuelve el matcher de idiomas.
func (s *ReportService) Locales() *Locales {
	return s.locales
}

// Evaluate puntúa sub y busca el texto del perfil para locale.
func (s *ReportService) Evaluate(sub domain.Submission, locale string) (*Evaluation, error) {
	vector, responses, err := s.builder.Breakdown(sub)
	if err != nil {
		return nil, err
	}
	persona := s.resolver.Resolve(vector)
	content, err := s.content.Localize(persona.ID, locale)
	if err != nil {
		return nil, err
	}
	return &Evaluation{
		Vector:    vector,
		Responses: responses,
		Persona:   persona,
		Profile:   BuildProfile(s.quiz, vector, content.Locale, s.locales.Default()),
		Content:   content,
		Locale:    content.Locale,
	}, nil
}

// Compose ordena una evaluación en bloques de reporte.
func (s *ReportService) Compose(ev *Evaluation) layout.Content {
	labels := s.Copy(ev.Locale)

	var subtitle []string
	if labels.ReportTitle != "" {
		subtitle = append(subtitle, labels.ReportTitle)
	}
	if ev.Profile.Code != "" {
		if labels.ProfileCode != "" {
			subtitle = append(subtitle, labels.ProfileCode+": "+ev.Profile.Code)
		} else {
			subtitle = append(subtitle, ev.Profile.Code)
		}
	}

	rows := make([]string, 0, len(ev.Profile.Axes))
	for _, axis := range ev.Profile.Axes {
		row := fmt.Sprintf("%s: %.1f", axis.Title, axis.Score)
		if labels.Favours != "" {
			row += fmt.Sprintf(" (%s %s)", labels.Favours, axis.Label)
		} else {
			row += fmt.Sprintf(" (%s)", axis.Label)
		}
		rows = append(rows, row)
	}

	return layout.Content{
		Title:          ev.Content.Title,
		Subtitle:       strings.Join(subtitle, " · "),
		TaglineHeading: ev.Content.TaglineHeading,
		Tagline:        ev.Content.Tagline,
		Paragraphs:     ev.Content.Paragraphs,
		TipsHeading:    labels.TipsHeading,
		Tips:           ev.Content.Tips,
		Sections: []layout.Section{
			{Heading: labels.BreakdownHeading, Rows: rows},
			{Heading: labels.AnswerSummary, Rows: s.answerRows(ev, labels)},
		},
	}
}

const defaultAnswerLine = "{raw} · {adjusted} · {weighted}"

// answerRows escribe dos filas por pregunta: el enunciado y la línea de puntuación.
func (s *ReportService) answerRows(ev *Evaluation, labels domain.ReportCopy) []string {
	line := labels.AnswerLine
	if line == "" {
		line = defaultAnswerLine
	}
	def := s.locales.Default()
	rows := make([]string, 0, 2*len(ev.Responses))
	for _, r := range ev.Responses {
		prompt := strings.ToUpper(r.QuestionID)
		if q, ok := s.quiz.Question(r.QuestionID); ok {
			if text := q.Prompt.In(ev.Locale, def); text != "" {
				prompt += ": " + text
			}
		}
		rows = append(rows, prompt, strings.NewReplacer(
			"{raw}", strings.Join(r.OptionIDs, "/"),
			"{adjusted}", strconv.FormatFloat(r.Adjusted, 'f', -1, 64),
			"{weighted}", fmt.Sprintf("%.1f", r.Weighted),
		).Replace(line))
	}
	return rows
}

// Generate produce el reporte final. Los errores de validación vuelven antes
// de maquetar.
func (s *ReportService) Generate(ctx context.Context, sub domain.Submission, locale string) (*Report, error) {
	ev, err := s.Evaluate(sub, locale)
	if err != nil {
		return nil, err
	}
	doc, err := s.engine.Layout(s.Compose(ev))
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	labels := s.Copy(ev.Locale)
	data, err := s.renderer.Render(doc, pdf.Metadata{
		Title:     labels.ReportTitle,
		Author:    "DevSpectrum",
		Subject:   ev.Content.Title,
		Keywords:  []string{ev.Persona.ID, ev.Locale, uuid.NewString()},
		CreatedAt: s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("render report %s/%s: %w", ev.Persona.ID, ev.Locale, err)
	}

	s.logger.Debug("report generated",
		zap.String("persona", ev.Persona.ID),
		zap.String("locale", ev.Locale),
		zap.Int("pages", len(doc.Pages)),
		zap.Int("bytes", len(data)),
	)
	return &Report{
		PersonaID: ev.Persona.ID,
		Locale:    ev.Locale,
		Filename:  "DevSpectrum_" + ev.Persona.ID + ".pdf",
		Pages:     len(doc.Pages),
		Document:  doc,
		Bytes:     data,
	}, nil
}

// Preflight maqueta cada perfil en cada idioma soportado para que los glifos
// faltantes y los desbordes de página aparezcan al arrancar y no a mitad de
// una solicitud. Se prueban un vector nulo y uno negativo para cubrir las dos
// letras de cada eje, con el resumen de respuestas completo.
func (s *ReportService) Preflight() error {
	sample := make(domain.Submission, 0, len(s.quiz.Questions))
	for _, q := range s.quiz.Questions {
		sample = append(sample, domain.Answer{QuestionID: q.ID, OptionIDs: []string{q.Options[0].ID}})
	}
	_, responses, err := s.builder.Breakdown(sample)
	if err != nil {
		return domain.NewConfigurationError("preflight", "answer summary", err)
	}

	zero := make(domain.TraitVector, len(s.quiz.Traits))
	negative := make(domain.TraitVector, len(s.quiz.Traits))
	for _, t := range s.quiz.Traits {
		zero[t] = 0
		negative[t] = -1
	}
	for _, p := range s.resolver.Personas() {
		for _, locale := range s.locales.Supported() {
			content, err := s.content.Localize(p.ID, locale)
			if err != nil {
				return err
			}
			for _, vector := range []domain.TraitVector{zero, negative} {
				ev := &Evaluation{
					Vector:    vector,
					Responses: responses,
					Persona:   p,
					Profile:   BuildProfile(s.quiz, vector, content.Locale, s.locales.Default()),
					Content:   content,
					Locale:    content.Locale,
				}
				if _, err := s.engine.Layout(s.Compose(ev)); err != nil {
					return domain.NewConfigurationError("preflight", fmt.Sprintf("%s/%s", p.ID, locale), err)
				}
			}
		}
	}
	return nil
}

// Copy devuelve las etiquetas fijas de locale, o las del idioma por defecto.
func (s *ReportService) Copy(locale string) domain.ReportCopy {
	if c, ok := s.quiz.Copy[locale]; ok {
		return c
	}
	return s.quiz.Copy[s.locales.Default()]
}
