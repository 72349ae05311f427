// Package app arma las tablas y servicios de proceso que comparten el servidor
// HTTP y la herramienta de línea de comandos.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"devspectrum/internal/assets"
	"devspectrum/internal/config"
	"devspectrum/internal/db"
	"devspectrum/internal/domain"
	"devspectrum/internal/fonts"
	"devspectrum/internal/layout"
	"devspectrum/internal/pdf"
	"devspectrum/internal/repository"
	"devspectrum/internal/service"
)

// Container guarda las tablas inmutables y los servicios construidos a partir de ellas.
type Container struct {
	Quiz     *domain.Quiz
	Personas []domain.Persona
	Content  []domain.PersonaContent
	Fonts    *fonts.Resolver
	Reports  *service.ReportService
}

// Build carga tablas, fuentes y contenido y luego verifica la maquetación del
// reporte. Cualquier error es un fallo de arranque.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	quiz, personas, err := LoadTables(cfg)
	if err != nil {
		return nil, err
	}
	content, err := LoadContent(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	resolver, err := LoadFonts(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	locales, err := service.NewLocales(cfg.DefaultLocale, contentLocales(content)...)
	if err != nil {
		return nil, err
	}
	personaResolver, err := service.NewPersonaResolver(personas, quiz.Traits)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(personas))
	for _, p := range personas {
		ids = append(ids, p.ID)
	}
	localizer, err := service.NewContentLocalizer(content, ids, locales)
	if err != nil {
		return nil, err
	}

	layoutCfg, err := layout.DefaultConfig(cfg.PageSize)
	if err != nil {
		return nil, domain.NewConfigurationError("layout", "page size", err)
	}
	if cfg.MaxPages > 0 {
		layoutCfg.MaxPages = cfg.MaxPages
	}
	engine, err := layout.NewEngine(layoutCfg, resolver)
	if err != nil {
		return nil, err
	}

	reports := service.NewReportService(quiz, personaResolver, localizer, locales, engine, pdf.NewRenderer(resolver), logger)
	if err := reports.Preflight(); err != nil {
		return nil, err
	}

	logger.Info("tables loaded",
		zap.Int("questions", len(quiz.Questions)),
		zap.Int("personas", len(personas)),
		zap.Int("content_bundles", len(content)),
		zap.Strings("locales", locales.Supported()),
	)
	return &Container{
		Quiz:     quiz,
		Personas: personas,
		Content:  content,
		Fonts:    resolver,
		Reports:  reports,
	}, nil
}

// LoadTables lee las tablas de preguntas y perfiles desde disco si hay ruta
// configurada, o desde las copias embebidas.
func LoadTables(cfg *config.Config) (*domain.Quiz, []domain.Persona, error) {
	var (
		quiz *domain.Quiz
		err  error
	)
	if cfg.QuestionsPath != "" {
		quiz, err = repository.LoadQuizFile(cfg.QuestionsPath)
	} else {
		quiz, err = repository.LoadQuiz(assets.Quiz)
	}
	if err != nil {
		return nil, nil, err
	}

	var personas []domain.Persona
	if cfg.PersonasPath != "" {
		personas, err = repository.LoadPersonasFile(cfg.PersonasPath)
	} else {
		personas, err = repository.LoadPersonas(assets.Personas)
	}
	if err != nil {
		return nil, nil, err
	}
	return quiz, personas, nil
}

// LoadContent lista los textos de perfiles desde Postgres si DATABASE_URL está
// definido, desde CONTENT_PATH si existe, o desde el JSON embebido.
func LoadContent(ctx context.Context, cfg *config.Config, logger *zap.Logger) ([]domain.PersonaContent, error) {
	var repo repository.ContentRepository
	switch {
	case cfg.DatabaseURL != "":
		pgPool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return nil, domain.NewConfigurationError("content", "connect database", err)
		}
		defer pgPool.Close()
		if err := db.Ping(ctx, pgPool); err != nil {
			return nil, domain.NewConfigurationError("content", "ping database", err)
		}
		repo = repository.NewPgContentRepository(pgPool)
		logger.Info("persona content source", zap.String("source", "postgres"))
	case cfg.ContentPath != "":
		repo = repository.NewJSONContentFile(cfg.ContentPath)
		logger.Info("persona content source", zap.String("source", cfg.ContentPath))
	default:
		repo = repository.NewJSONContentRepository(assets.PersonaContent)
	}

	content, err := repo.ListContent(ctx)
	if err != nil {
		var cfgErr *domain.ConfigurationError
		if errors.As(err, &cfgErr) {
			return nil, err
		}
		return nil, domain.NewConfigurationError("content", "list persona content", err)
	}
	return content, nil
}

// LoadFonts lee en paralelo los archivos de fuentes configurados. Las caras
// latinas usan por defecto las fuentes Go embebidas; sin ruta CJK no hay
// salida CJK.
func LoadFonts(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*fonts.Resolver, error) {
	latin := assets.LatinRegular
	latinBold := assets.LatinBold
	var cjk, cjkBold []byte

	p := pool.New().WithErrors().WithContext(ctx)
	read := func(path string, dst *[]byte, optional bool) {
		if path == "" {
			return
		}
		p.Go(func(ctx context.Context) error {
			data, err := os.ReadFile(path)
			if err != nil {
				if optional && errors.Is(err, fs.ErrNotExist) {
					logger.Warn("font file not found", zap.String("path", path))
					return nil
				}
				return domain.NewConfigurationError("fonts", "read "+path, err)
			}
			*dst = data
			return nil
		})
	}
	read(cfg.LatinFontPath, &latin, false)
	read(cfg.LatinBoldFontPath, &latinBold, false)
	read(cfg.CJKFontPath, &cjk, false)
	read(cfg.CJKBoldFontPath, &cjkBold, true)
	if err := p.Wait(); err != nil {
		return nil, err
	}

	latinAsset, err := fonts.NewFontAsset("latin", []fonts.Script{fonts.ScriptLatin}, latin, latinBold)
	if err != nil {
		return nil, domain.NewConfigurationError("fonts", "latin", err)
	}
	loaded := []*fonts.FontAsset{latinAsset}

	if len(cjk) > 0 {
		scripts, err := fonts.ParseScripts(strings.Join(cfg.CJKFontScripts, ","))
		if err != nil {
			return nil, domain.NewConfigurationError("fonts", "CJK_FONT_SCRIPTS", err)
		}
		cjkAsset, err := fonts.NewFontAsset("cjk", scripts, cjk, cjkBold)
		if err != nil {
			return nil, domain.NewConfigurationError("fonts", "cjk", err)
		}
		loaded = append(loaded, cjkAsset)
	} else {
		logger.Warn("no CJK font configured")
	}

	resolver, err := fonts.NewResolver(loaded...)
	if err != nil {
		return nil, err
	}
	for _, a := range loaded {
		logger.Info("font loaded",
			zap.String("name", a.Name),
			zap.String("scripts", fmt.Sprint(a.Scripts)),
			zap.Bool("bold", a.HasBold()),
		)
	}
	return resolver, nil
}

func contentLocales(content []domain.PersonaContent) []string {
	seen := map[string]bool{}
	var out []string
	for _, c := range content {
		l := strings.ToLower(c.Locale)
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	sort.Strings(out)
	return out
}
