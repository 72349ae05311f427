package http

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"devspectrum/internal/domain"
	"devspectrum/internal/service"
)

// QuizHandler mantiene dependencias para los endpoints del cuestionario.
type QuizHandler struct {
	logger  *zap.Logger
	reports *service.ReportService
	limiter service.ExportRateLimiter
}

// NewQuizHandler crea un QuizHandler. limiter puede ser nil para desactivar el limite.
func NewQuizHandler(logger *zap.Logger, reports *service.ReportService, limiter service.ExportRateLimiter) *QuizHandler {
	return &QuizHandler{
		logger:  logger,
		reports: reports,
		limiter: limiter,
	}
}

type optionView struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type questionView struct {
	ID      string       `json:"id"`
	Prompt  string       `json:"prompt"`
	Multi   bool         `json:"multi"`
	Options []optionView `json:"options"`
}

// Health maneja GET /health.
func (h *QuizHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Questions maneja GET /api/questions.
func (h *QuizHandler) Questions(c *gin.Context) {
	locales := h.reports.Locales()
	locale := locales.Negotiate(c.Query("lang"), c.GetHeader("Accept-Language"))
	def := locales.Default()

	quiz := h.reports.Quiz()
	questions := make([]questionView, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		view := questionView{ID: q.ID, Prompt: q.Prompt.In(locale, def), Multi: q.Multi}
		for _, o := range q.Options {
			label := o.Label.In(locale, def)
			if label == "" {
				label = o.ID
			}
			view.Options = append(view.Options, optionView{ID: o.ID, Label: label})
		}
		questions = append(questions, view)
	}

	c.JSON(http.StatusOK, gin.H{
		"locale":    locale,
		"questions": questions,
	})
}

// Results maneja POST /api/results.
func (h *QuizHandler) Results(c *gin.Context) {
	sub, lang, err := h.bindSubmission(c)
	if err != nil {
		h.logger.Warn("invalid results request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	locale := h.reports.Locales().Negotiate(lang, c.GetHeader("Accept-Language"))

	ev, err := h.reports.Evaluate(sub, locale)
	if err != nil {
		h.writeError(c, err, locale, false)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"locale":    ev.Locale,
		"code":      ev.Profile.Code,
		"persona":   ev.Persona.ID,
		"title":     ev.Content.Title,
		"profile":   ev.Profile,
		"content":   ev.Content,
		"responses": h.reviewRows(ev),
	})
}

// ExportPDF maneja POST /export/pdf.
func (h *QuizHandler) ExportPDF(c *gin.Context) {
	if h.limiter != nil {
		if ok, retry := h.limiter.Allow(c.Request.Context(), c.ClientIP()); !ok {
			body := gin.H{"error": service.ErrRateLimited.Error()}
			if retry > 0 {
				seconds := int(math.Ceil(retry.Seconds()))
				c.Header("Retry-After", strconv.Itoa(seconds))
				body["retry_after"] = seconds
			}
			h.logger.Warn("export rate limited", zap.String("client_ip", c.ClientIP()))
			c.JSON(http.StatusTooManyRequests, body)
			return
		}
	}

	sub, lang, err := h.bindSubmission(c)
	if err != nil {
		h.logger.Warn("invalid export request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	locale := h.reports.Locales().Negotiate(lang, c.GetHeader("Accept-Language"))

	report, err := h.reports.Generate(c.Request.Context(), sub, locale)
	if err != nil {
		h.writeError(c, err, locale, true)
		return
	}

	h.logger.Info("pdf exported",
		zap.String("request_id", c.GetString(requestIDKey)),
		zap.String("persona", report.PersonaID),
		zap.String("locale", report.Locale),
		zap.Int("pages", report.Pages),
	)
	c.Header("Content-Disposition", `attachment; filename="`+report.Filename+`"`)
	c.Data(http.StatusOK, "application/pdf", report.Bytes)
}

func (h *QuizHandler) writeError(c *gin.Context, err error, locale string, export bool) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		missing := verr.Missing
		if missing == nil {
			missing = []string{}
		}
		labels := h.reports.Copy(locale)
		msg := labels.MissingAnswers
		if export {
			msg = labels.IncompleteExport
		}
		msg = strings.ReplaceAll(msg, "{missing}", strings.Join(missing, ", "))
		if msg == "" || (len(verr.Missing) == 0 && !export) {
			msg = verr.Error()
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":       msg,
			"code":        verr.Code(),
			"question_id": verr.QuestionID,
			"missing":     missing,
		})
	case errors.Is(err, domain.ErrConfiguration), errors.Is(err, domain.ErrUnsupportedScript):
		h.logger.Error("service misconfigured", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "service misconfigured"})
	default:
		h.logger.Error("report failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build report"})
	}
}

type responseView struct {
	domain.Response
	Prompt string `json:"prompt"`
}

// reviewRows adjunta el enunciado localizado a cada respuesta puntuada.
func (h *QuizHandler) reviewRows(ev *service.Evaluation) []responseView {
	quiz := h.reports.Quiz()
	def := h.reports.Locales().Default()
	rows := make([]responseView, 0, len(ev.Responses))
	for _, r := range ev.Responses {
		view := responseView{Response: r}
		if q, ok := quiz.Question(r.QuestionID); ok {
			view.Prompt = q.Prompt.In(ev.Locale, def)
		}
		rows = append(rows, view)
	}
	return rows
}

// answerValue acepta "1", 1 o ["a", "b"].
type answerValue []string

func (v *answerValue) UnmarshalJSON(data []byte) error {
	var many []json.RawMessage
	if err := json.Unmarshal(data, &many); err == nil {
		out := make([]string, 0, len(many))
		for _, raw := range many {
			s, err := scalar(raw)
			if err != nil {
				return err
			}
			out = append(out, s)
		}
		*v = out
		return nil
	}
	s, err := scalar(data)
	if err != nil {
		return err
	}
	*v = []string{s}
	return nil
}

func scalar(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), nil
	}
	return n.String(), nil
}

// bindSubmission lee respuestas de un body JSON ({"lang": "en", "answers":
// {"q1": 1}}) o de campos de formulario con el id de la pregunta. Las
// respuestas siguen el orden de la tabla. Los ids JSON desconocidos van al
// final para que la validación los reporte; los campos de formulario que no
// son preguntas (botones, tokens CSRF) se ignoran.
func (h *QuizHandler) bindSubmission(c *gin.Context) (domain.Submission, string, error) {
	answers := map[string][]string{}
	var lang string

	if strings.HasPrefix(c.ContentType(), "application/json") {
		var req struct {
			Lang    string                 `json:"lang"`
			Answers map[string]answerValue `json:"answers"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, "", err
		}
		for id, v := range req.Answers {
			answers[id] = v
		}
		lang = req.Lang
	} else {
		if err := c.Request.ParseForm(); err != nil {
			return nil, "", err
		}
		for id, values := range c.Request.PostForm {
			if _, ok := h.reports.Quiz().Question(id); !ok {
				continue
			}
			answers[id] = values
		}
		lang = c.PostForm("lang")
	}
	if q := c.Query("lang"); q != "" {
		lang = q
	}

	sub := make(domain.Submission, 0, len(answers))
	for _, q := range h.reports.Quiz().Questions {
		if values, ok := answers[q.ID]; ok {
			sub = append(sub, domain.Answer{QuestionID: q.ID, OptionIDs: values})
			delete(answers, q.ID)
		}
	}
	rest := make([]string, 0, len(answers))
	for id := range answers {
		rest = append(rest, id)
	}
	sort.Strings(rest)
	for _, id := range rest {
		sub = append(sub, domain.Answer{QuestionID: id, OptionIDs: answers[id]})
	}
	return sub, lang, nil
}
