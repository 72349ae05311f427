package layout

import (
	"fmt"
	"strings"
)

// RGB es un color de texto.
type RGB struct {
	R, G, B int
}

// Style controla cómo se mide y dibuja un tipo de bloque. Tamaños en puntos.
type Style struct {
	FontSize    float64
	LineSpacing float64
	SpaceBefore float64
	SpaceAfter  float64
	Indent      float64
	Bold        bool
	Color       RGB
	Bullet      string
}

// Margins en puntos.
type Margins struct {
	Top, Right, Bottom, Left float64
}

// Config es el conjunto fijo de reglas de maquetación que comparten todas las solicitudes.
type Config struct {
	PageWidth  float64
	PageHeight float64
	Margins    Margins
	MaxPages   int
	Styles     map[BlockKind]Style
}

var (
	pageA4     = [2]float64{595.28, 841.89}
	pageLetter = [2]float64{612, 792}
)

var (
	textColor   = RGB{32, 37, 45}
	accentColor = RGB{79, 89, 231}
	taglineRed  = RGB{242, 77, 98}
	mutedColor  = RGB{110, 116, 132}
)

// DefaultConfig devuelve la maquetación del reporte para el tamaño de página (A4 o Letter).
func DefaultConfig(pageSize string) (Config, error) {
	var size [2]float64
	switch strings.ToLower(strings.TrimSpace(pageSize)) {
	case "", "a4":
		size = pageA4
	case "letter":
		size = pageLetter
	default:
		return Config{}, fmt.Errorf("unknown page size %q", pageSize)
	}
	return Config{
		PageWidth:  size[0],
		PageHeight: size[1],
		Margins:    Margins{Top: 56, Right: 50, Bottom: 56, Left: 50},
		MaxPages:   8,
		Styles: map[BlockKind]Style{
			KindTitle:     {FontSize: 22, LineSpacing: 1.1, SpaceAfter: 6, Bold: true, Color: accentColor},
			KindSubtitle:  {FontSize: 11, LineSpacing: 1.2, SpaceAfter: 10, Color: mutedColor},
			KindTagline:   {FontSize: 12, LineSpacing: 1.25, SpaceAfter: 12, Bold: true, Color: taglineRed},
			KindHeading:   {FontSize: 14, LineSpacing: 1.2, SpaceBefore: 12, SpaceAfter: 6, Bold: true, Color: textColor},
			KindParagraph: {FontSize: 11, LineSpacing: 1.3, SpaceAfter: 8, Color: textColor},
			KindListItem:  {FontSize: 11, LineSpacing: 1.3, SpaceAfter: 4, Indent: 14, Color: textColor, Bullet: "•"},
		},
	}, nil
}

// ContentWidth es el ancho útil de línea.
func (c Config) ContentWidth() float64 {
	return c.PageWidth - c.Margins.Left - c.Margins.Right
}

func (c Config) validate() error {
	if c.PageWidth <= 0 || c.PageHeight <= 0 {
		return fmt.Errorf("page size must be positive")
	}
	if c.ContentWidth() <= 0 || c.PageHeight-c.Margins.Top-c.Margins.Bottom <= 0 {
		return fmt.Errorf("margins leave no room for content")
	}
	if c.MaxPages <= 0 {
		return fmt.Errorf("max pages must be positive")
	}
	for _, kind := range allKinds {
		s, ok := c.Styles[kind]
		if !ok {
			return fmt.Errorf("missing style for %s", kind)
		}
		if s.FontSize <= 0 || s.LineSpacing <= 0 {
			return fmt.Errorf("style %s: font size and line spacing must be positive", kind)
		}
		if s.Indent >= c.ContentWidth() {
			return fmt.Errorf("style %s: indent wider than the page", kind)
		}
	}
	return nil
}
