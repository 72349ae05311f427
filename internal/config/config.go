package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort      string `env:"HTTP_PORT" envDefault:"8080"`
	DefaultLocale string `env:"DEFAULT_LOCALE" envDefault:"zh"`

	// Rutas vacías usan las tablas embebidas.
	QuestionsPath string `env:"QUESTIONS_PATH"`
	PersonasPath  string `env:"PERSONAS_PATH"`
	ContentPath   string `env:"CONTENT_PATH"`
	DatabaseURL   string `env:"DATABASE_URL"`

	LatinFontPath     string   `env:"LATIN_FONT_PATH"`
	LatinBoldFontPath string   `env:"LATIN_BOLD_FONT_PATH"`
	CJKFontPath       string   `env:"CJK_FONT_PATH" envDefault:"fonts/NotoSansSC-Regular.ttf"`
	CJKBoldFontPath   string   `env:"CJK_BOLD_FONT_PATH"`
	CJKFontScripts    []string `env:"CJK_FONT_SCRIPTS" envSeparator:"," envDefault:"han,kana"`

	PageSize string `env:"PAGE_SIZE" envDefault:"A4"`
	MaxPages int    `env:"MAX_PAGES" envDefault:"8"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	ExportRateWindowSeconds int `env:"EXPORT_RATE_WINDOW_SECONDS" envDefault:"60"`
	ExportRateMax           int `env:"EXPORT_RATE_MAX" envDefault:"10"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ExportRateWindow devuelve la ventana del limitador de exportaciones.
func (c *Config) ExportRateWindow() time.Duration {
	return time.Duration(c.ExportRateWindowSeconds) * time.Second
}
