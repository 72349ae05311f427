package service

import (
	"context"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"devspectrum/internal/assets"
	"devspectrum/internal/domain"
	"devspectrum/internal/fonts"
	"devspectrum/internal/layout"
	"devspectrum/internal/pdf"
	"devspectrum/internal/repository"
)

// systematicQuiz has ten questions that each push "systematic" up and
// "creative" down when answered "agree".
func systematicQuiz() *domain.Quiz {
	quiz := &domain.Quiz{
		Traits: []string{"systematic", "creative"},
		Copy: map[string]domain.ReportCopy{
			"zh": {ReportTitle: "开发者画像报告", TipsHeading: "成长建议", BreakdownHeading: "维度拆解"},
			"en": {ReportTitle: "Developer Report", TipsHeading: "Tips", BreakdownHeading: "Breakdown"},
		},
	}
	for i := 1; i <= 10; i++ {
		quiz.Questions = append(quiz.Questions, domain.Question{
			ID:     fmt.Sprintf("s%d", i),
			Prompt: domain.Text{"en": fmt.Sprintf("Statement %d", i)},
			Options: []domain.Option{
				{ID: "agree", Contributions: map[string]float64{"systematic": 1, "creative": -1}},
				{ID: "neutral", Contributions: map[string]float64{}},
				{ID: "disagree", Contributions: map[string]float64{"systematic": -1, "creative": 1}},
			},
		})
	}
	return quiz
}

func systematicPersonas() []domain.Persona {
	return []domain.Persona{
		{ID: "inventor", Rank: 2, Scoring: domain.Scoring{Kind: domain.ScoringCentroid, Terms: []domain.ScoringTerm{
			{Trait: "creative", Weight: 1, Center: 10},
			{Trait: "systematic", Weight: 1, Center: -10},
		}}},
		{ID: "architect", Rank: 1, Scoring: domain.Scoring{Kind: domain.ScoringCentroid, Terms: []domain.ScoringTerm{
			{Trait: "creative", Weight: 1, Center: -10},
			{Trait: "systematic", Weight: 1, Center: 10},
		}}},
		{ID: "generalist", Rank: 3, Scoring: domain.Scoring{Kind: domain.ScoringConstant, Bias: -1000}},
	}
}

func systematicContent() []domain.PersonaContent {
	return []domain.PersonaContent{
		{PersonaID: "architect", Locale: "zh", Title: "系统架构师", Tagline: "先设计，再动手。",
			Paragraphs: []string{"你喜欢把问题拆解成清晰的结构，再按计划推进。"},
			Tips:       []string{"偶尔留出时间做没有计划的探索。", "和创意型同事结对。"}},
		{PersonaID: "architect", Locale: "en", Title: "Systems Architect", Tagline: "Design first.",
			Paragraphs: []string{"You break problems into clear structures."},
			Tips:       []string{"Leave room for unplanned exploration."}},
		{PersonaID: "inventor", Locale: "zh", Title: "创意发明家",
			Paragraphs: []string{"你总在尝试新点子。"}},
		{PersonaID: "generalist", Locale: "zh", Title: "多面手"},
	}
}

func agreeAll(quiz *domain.Quiz) domain.Submission {
	sub := make(domain.Submission, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		sub = append(sub, domain.Answer{QuestionID: q.ID, OptionIDs: []string{"agree"}})
	}
	return sub
}

func fixedResolver(t *testing.T) *fonts.Resolver {
	t.Helper()
	latin := fonts.NewFontAssetFromFace("latin", []fonts.Script{fonts.ScriptLatin}, fonts.NewLatinFixedFace())
	cjk := fonts.NewFontAssetFromFace("cjk", []fonts.Script{fonts.ScriptHan, fonts.ScriptKana}, fonts.NewCJKFixedFace())
	resolver, err := fonts.NewResolver(latin, cjk)
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}
	return resolver
}

type stubRenderer struct {
	calls int
	doc   *layout.Document
	meta  pdf.Metadata
	err   error
}

func (r *stubRenderer) Render(doc *layout.Document, meta pdf.Metadata) ([]byte, error) {
	r.calls++
	r.doc = doc
	r.meta = meta
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.3 stub"), nil
}

func newReportService(t *testing.T, quiz *domain.Quiz, personas []domain.Persona, content []domain.PersonaContent, renderer Renderer) *ReportService {
	t.Helper()
	locales, err := NewLocales("zh", "zh", "en")
	if err != nil {
		t.Fatalf("locales: %v", err)
	}
	resolver, err := NewPersonaResolver(personas, quiz.Traits)
	if err != nil {
		t.Fatalf("persona resolver: %v", err)
	}
	ids := make([]string, 0, len(personas))
	for _, p := range personas {
		ids = append(ids, p.ID)
	}
	localizer, err := NewContentLocalizer(content, ids, locales)
	if err != nil {
		t.Fatalf("content localizer: %v", err)
	}
	cfg, err := layout.DefaultConfig("A4")
	if err != nil {
		t.Fatalf("layout config: %v", err)
	}
	engine, err := layout.NewEngine(cfg, fixedResolver(t))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return NewReportService(quiz, resolver, localizer, locales, engine, renderer, zap.NewNop())
}

// devSpectrum loads the embedded DevSpectrum tables.
func devSpectrum(t *testing.T) (*domain.Quiz, []domain.Persona, []domain.PersonaContent) {
	t.Helper()
	quiz, err := repository.LoadQuiz(assets.Quiz)
	if err != nil {
		t.Fatalf("load quiz: %v", err)
	}
	personas, err := repository.LoadPersonas(assets.Personas)
	if err != nil {
		t.Fatalf("load personas: %v", err)
	}
	content, err := repository.NewJSONContentRepository(assets.PersonaContent).ListContent(context.Background())
	if err != nil {
		t.Fatalf("load content: %v", err)
	}
	return quiz, personas, content
}

// likertAll answers every question with the same Likert value.
func likertAll(quiz *domain.Quiz, value string) domain.Submission {
	sub := make(domain.Submission, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		sub = append(sub, domain.Answer{QuestionID: q.ID, OptionIDs: []string{value}})
	}
	return sub
}
