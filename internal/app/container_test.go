package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"devspectrum/internal/config"
	"devspectrum/internal/domain"
	"devspectrum/internal/fonts"
)

func testConfig() *config.Config {
	return &config.Config{
		DefaultLocale:  "zh",
		CJKFontScripts: []string{"han", "kana"},
		PageSize:       "A4",
		MaxPages:       8,
	}
}

func TestLoadTables_Embedded(t *testing.T) {
	quiz, personas, err := LoadTables(testConfig())
	require.NoError(t, err)
	assert.Len(t, quiz.Questions, 28)
	assert.Len(t, personas, 16)
}

func TestLoadTables_MissingFile(t *testing.T) {
	cfg := testConfig()
	cfg.PersonasPath = filepath.Join(t.TempDir(), "personas.yaml")
	_, _, err := LoadTables(cfg)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestLoadContent_Embedded(t *testing.T) {
	content, err := LoadContent(context.Background(), testConfig(), zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, content, 32)
	assert.Equal(t, []string{"en", "zh"}, contentLocales(content))
}

func TestLoadFonts_LatinOnly(t *testing.T) {
	resolver, err := LoadFonts(context.Background(), testConfig(), zap.NewNop())
	require.NoError(t, err)
	require.Len(t, resolver.Assets(), 1)
	assert.True(t, resolver.Assets()[0].HasBold())

	_, err = resolver.Resolve(fonts.ScriptHan, "中")
	assert.ErrorIs(t, err, domain.ErrUnsupportedScript)
}

func TestLoadFonts_MissingFile(t *testing.T) {
	cfg := testConfig()
	cfg.CJKFontPath = filepath.Join(t.TempDir(), "NotoSansSC-Regular.ttf")
	_, err := LoadFonts(context.Background(), cfg, zap.NewNop())
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestBuild_FailsFastWithoutCJKFont(t *testing.T) {
	_, err := Build(context.Background(), testConfig(), zap.NewNop())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.ErrorIs(t, err, domain.ErrUnsupportedScript)
}

func TestBuild_UnknownPageSize(t *testing.T) {
	cfg := testConfig()
	cfg.PageSize = "A3"
	_, err := Build(context.Background(), cfg, zap.NewNop())
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
