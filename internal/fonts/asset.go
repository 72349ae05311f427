package fonts

import (
	"fmt"
	"slices"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Metrics son las métricas verticales de la fuente como fracción del em.
type Metrics struct {
	Ascent     float64
	Descent    float64
	LineHeight float64
}

// Face responde lo que la maquetación necesita saber de los glifos. Las
// implementaciones deben ser seguras para uso concurrente.
type Face interface {
	HasGlyph(r rune) bool
	// Advance devuelve el avance horizontal de r como fracción del em.
	Advance(r rune) float64
	Metrics() Metrics
}

// FontAsset es una fuente embebida que todas las solicitudes comparten en solo lectura.
type FontAsset struct {
	Name    string
	Scripts []Script
	Regular []byte
	Bold    []byte

	regular Face
	bold    Face
}

// NewFontAsset parsea los payloads. bold puede ser nil.
func NewFontAsset(name string, scripts []Script, regular, bold []byte) (*FontAsset, error) {
	if len(regular) == 0 {
		return nil, fmt.Errorf("font %s: empty payload", name)
	}
	regularFace, err := newSFNTFace(regular)
	if err != nil {
		return nil, fmt.Errorf("font %s: %w", name, err)
	}
	asset := &FontAsset{
		Name:    name,
		Scripts: scripts,
		Regular: regular,
		regular: regularFace,
	}
	if len(bold) > 0 {
		boldFace, err := newSFNTFace(bold)
		if err != nil {
			return nil, fmt.Errorf("font %s bold: %w", name, err)
		}
		asset.Bold = bold
		asset.bold = boldFace
	}
	return asset, nil
}

// NewFontAssetFromFace crea un asset sin payload binario: se puede maquetar
// pero no renderizar.
func NewFontAssetFromFace(name string, scripts []Script, face Face) *FontAsset {
	return NewFontAssetFromFaces(name, scripts, face, nil)
}

// NewFontAssetFromFaces es NewFontAssetFromFace con una cara negrita opcional.
func NewFontAssetFromFaces(name string, scripts []Script, regular, bold Face) *FontAsset {
	return &FontAsset{Name: name, Scripts: scripts, regular: regular, bold: bold}
}

// Covers indica si el asset declara cobertura de s.
func (a *FontAsset) Covers(s Script) bool {
	return slices.Contains(a.Scripts, s)
}

// HasBold indica si hay una cara negrita.
func (a *FontAsset) HasBold() bool {
	return a.bold != nil
}

// Face devuelve la negrita si se pide y existe.
func (a *FontAsset) Face(bold bool) Face {
	if bold && a.bold != nil {
		return a.bold
	}
	return a.regular
}

// Draws indica si la cara regular, y la negrita cuando existe, tienen glifo
// para cada rune visible. Títulos y encabezados usan la negrita, así que un
// hueco en cualquiera de las dos descarta el asset.
func (a *FontAsset) Draws(text string) (rune, bool) {
	for _, r := range text {
		if ignorable(r) {
			continue
		}
		if !a.regular.HasGlyph(r) {
			return r, false
		}
		if a.bold != nil && !a.bold.HasGlyph(r) {
			return r, false
		}
	}
	return 0, true
}

type sfntFace struct {
	font    *sfnt.Font
	ppem    fixed.Int26_6
	upem    float64
	metrics Metrics
	buffers sync.Pool
}

func newSFNTFace(data []byte) (*sfntFace, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, err
	}
	upem := f.UnitsPerEm()
	face := &sfntFace{
		font: f,
		ppem: fixed.I(int(upem)),
		upem: float64(upem),
	}
	face.buffers.New = func() any { return new(sfnt.Buffer) }

	var buf sfnt.Buffer
	m, err := f.Metrics(&buf, face.ppem, font.HintingNone)
	if err != nil {
		return nil, err
	}
	face.metrics = Metrics{
		Ascent:     face.units(m.Ascent),
		Descent:    face.units(m.Descent),
		LineHeight: face.units(m.Height),
	}
	if face.metrics.LineHeight <= 0 {
		face.metrics.LineHeight = face.metrics.Ascent + face.metrics.Descent
	}
	return face, nil
}

func (f *sfntFace) units(v fixed.Int26_6) float64 {
	return float64(v) / 64 / f.upem
}

func (f *sfntFace) glyph(r rune) (sfnt.GlyphIndex, *sfnt.Buffer) {
	buf := f.buffers.Get().(*sfnt.Buffer)
	idx, err := f.font.GlyphIndex(buf, r)
	if err != nil {
		return 0, buf
	}
	return idx, buf
}

func (f *sfntFace) HasGlyph(r rune) bool {
	idx, buf := f.glyph(r)
	f.buffers.Put(buf)
	return idx != 0
}

func (f *sfntFace) Advance(r rune) float64 {
	idx, buf := f.glyph(r)
	defer f.buffers.Put(buf)
	if idx == 0 {
		return 0
	}
	adv, err := f.font.GlyphAdvance(buf, idx, f.ppem, font.HintingNone)
	if err != nil {
		return 0
	}
	return f.units(adv)
}

func (f *sfntFace) Metrics() Metrics {
	return f.metrics
}
