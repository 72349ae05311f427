package fonts

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"devspectrum/internal/domain"
)

func testResolver(t *testing.T) *Resolver {
	t.Helper()
	latin := NewFontAssetFromFace("latin", []Script{ScriptLatin}, NewLatinFixedFace())
	cjk := NewFontAssetFromFace("cjk", []Script{ScriptHan, ScriptKana}, NewCJKFixedFace())
	r, err := NewResolver(latin, cjk)
	require.NoError(t, err)
	return r
}

func joinRuns(runs []Run) string {
	var sb strings.Builder
	for _, run := range runs {
		sb.WriteString(run.Text)
	}
	return sb.String()
}

func TestClassify(t *testing.T) {
	cases := map[rune]Script{
		'a':      ScriptLatin,
		'É':      ScriptLatin,
		'中':      ScriptHan,
		'か':      ScriptKana,
		'カ':      ScriptKana,
		'한':      ScriptHangul,
		' ':      ScriptNeutral,
		'，':      ScriptNeutral,
		'7':      ScriptNeutral,
		'\u0301': ScriptNeutral,
		'ب':      ScriptUnknown,
	}
	for r, want := range cases {
		assert.Equal(t, want, Classify(r), "rune %q", r)
	}
}

func TestParseScripts(t *testing.T) {
	scripts, err := ParseScripts(" han, kana ,")
	require.NoError(t, err)
	assert.Equal(t, []Script{ScriptHan, ScriptKana}, scripts)

	_, err = ParseScripts("han,klingon")
	assert.Error(t, err)
}

func TestRuns_MixedScriptRoundTrip(t *testing.T) {
	r := testResolver(t)
	inputs := []string{
		"Go语言是一门 language，非常 fast!",
		"前端 CICD 专家",
		"école 和 café",
		"“你好” world",
		"🧑‍💻 engineer",
		"",
	}
	for _, text := range inputs {
		runs, err := r.Runs(text)
		require.NoError(t, err, text)
		assert.Equal(t, text, joinRuns(runs), "round trip of %q", text)
		for i, run := range runs {
			assert.Equal(t, text[run.Start:run.End], run.Text)
			if i > 0 {
				assert.Equal(t, runs[i-1].End, run.Start)
			}
		}
	}
}

func TestRuns_ScriptsAndFonts(t *testing.T) {
	r := testResolver(t)
	runs, err := r.Runs("Go语言 fast")
	require.NoError(t, err)
	require.Len(t, runs, 3)

	assert.Equal(t, "Go", runs[0].Text)
	assert.Equal(t, ScriptLatin, runs[0].Script)
	assert.Equal(t, "latin", runs[0].Font.Name)

	// the space after 语言 inherits han from the preceding run
	assert.Equal(t, "语言 ", runs[1].Text)
	assert.Equal(t, ScriptHan, runs[1].Script)
	assert.Equal(t, "cjk", runs[1].Font.Name)

	assert.Equal(t, "fast", runs[2].Text)
}

func TestRuns_LeadingAndAllNeutral(t *testing.T) {
	r := testResolver(t)

	runs, err := r.Runs("“你好”")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, ScriptHan, runs[0].Script)

	runs, err = r.Runs("2025 - 42")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, ScriptLatin, runs[0].Script)
}

func TestRuns_NeutralFallsBackToDrawingFont(t *testing.T) {
	ascii := &FixedFace{Width: 0.5, Metric: Metrics{Ascent: 0.8, Descent: 0.2, LineHeight: 1.2}, Covered: func(r rune) bool { return r < 0x80 }}
	latin := NewFontAssetFromFace("latin", []Script{ScriptLatin}, ascii)
	cjk := NewFontAssetFromFace("cjk", []Script{ScriptHan}, NewCJKFixedFace())
	r, err := NewResolver(latin, cjk)
	require.NoError(t, err)

	runs, err := r.Runs("abc，def")
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "，", runs[1].Text)
	assert.Equal(t, ScriptNeutral, runs[1].Script)
	assert.Equal(t, "cjk", runs[1].Font.Name)
}

func TestRuns_BoldFaceGapIsUnsupported(t *testing.T) {
	cjkFace := NewCJKFixedFace()
	partialBold := &FixedFace{
		Width:   0.5,
		Wide:    1,
		Metric:  cjkFace.Metric,
		Covered: func(r rune) bool { return r != '算' && cjkFace.HasGlyph(r) },
	}
	latin := NewFontAssetFromFace("latin", []Script{ScriptLatin}, NewLatinFixedFace())
	cjk := NewFontAssetFromFaces("cjk", []Script{ScriptHan}, cjkFace, partialBold)
	r, err := NewResolver(latin, cjk)
	require.NoError(t, err)

	runs, err := r.Runs("中文")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "cjk", runs[0].Font.Name)

	_, err = r.Runs("算法")
	var unsupported *domain.UnsupportedScriptError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, '算', unsupported.Rune)
	assert.Equal(t, "han", unsupported.Script)
}

func TestRuns_UnsupportedScript(t *testing.T) {
	r := testResolver(t)

	_, err := r.Runs("hello مرحبا")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedScript))

	_, err = r.Runs("한국어")
	var unsupported *domain.UnsupportedScriptError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "hangul", unsupported.Script)
	assert.Equal(t, '한', unsupported.Rune)
}

func TestNewResolver_Validation(t *testing.T) {
	_, err := NewResolver()
	assert.True(t, errors.Is(err, domain.ErrConfiguration))

	a := NewFontAssetFromFace("same", []Script{ScriptLatin}, NewLatinFixedFace())
	b := NewFontAssetFromFace("same", []Script{ScriptHan}, NewCJKFixedFace())
	_, err = NewResolver(a, b)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}

func TestUsage(t *testing.T) {
	u := NewUsage()
	u.Add(FaceKey{Font: "latin"}, "abca\n")
	u.Add(FaceKey{Font: "latin", Bold: true}, "Z")
	u.Add(FaceKey{Font: "cjk"}, "\ufe0f")

	assert.Equal(t, []FaceKey{{Font: "latin"}, {Font: "latin", Bold: true}}, u.Faces())
	assert.Equal(t, []rune{'a', 'b', 'c'}, u.Runes(FaceKey{Font: "latin"}))
	assert.Empty(t, u.Runes(FaceKey{Font: "cjk"}))
}

func TestNewFontAsset_GoFonts(t *testing.T) {
	asset, err := NewFontAsset("go", []Script{ScriptLatin}, goregular.TTF, gobold.TTF)
	require.NoError(t, err)
	assert.True(t, asset.HasBold())

	face := asset.Face(false)
	assert.True(t, face.HasGlyph('A'))
	assert.True(t, face.HasGlyph('—'))
	assert.False(t, face.HasGlyph('中'))
	assert.Greater(t, face.Advance('M'), 0.0)
	assert.Less(t, face.Advance('i'), face.Advance('M'))

	m := face.Metrics()
	assert.Greater(t, m.Ascent, 0.0)
	assert.Greater(t, m.Descent, 0.0)
	assert.GreaterOrEqual(t, m.LineHeight, m.Ascent)

	_, err = NewFontAsset("broken", nil, []byte("not a font"), nil)
	assert.Error(t, err)
}
