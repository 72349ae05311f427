package layout

import (
	"fmt"

	"devspectrum/internal/fonts"
)

// BlockKind es el conjunto cerrado de unidades que forman un reporte.
type BlockKind int

const (
	KindTitle BlockKind = iota
	KindSubtitle
	KindTagline
	KindHeading
	KindParagraph
	KindListItem
)

var allKinds = []BlockKind{KindTitle, KindSubtitle, KindTagline, KindHeading, KindParagraph, KindListItem}

func (k BlockKind) String() string {
	switch k {
	case KindTitle:
		return "title"
	case KindSubtitle:
		return "subtitle"
	case KindTagline:
		return "tagline"
	case KindHeading:
		return "heading"
	case KindParagraph:
		return "paragraph"
	case KindListItem:
		return "list_item"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// splittable: tipos que pueden seguir en la página siguiente en un límite de línea.
func (k BlockKind) splittable() bool {
	switch k {
	case KindParagraph, KindListItem:
		return true
	case KindTitle, KindSubtitle, KindTagline, KindHeading:
		return false
	default:
		return false
	}
}

// Fragment es texto dibujado con una cara. X es absoluta.
type Fragment struct {
	Text   string
	Font   string
	Bold   bool
	Size   float64
	Script fonts.Script
	X      float64
	Width  float64
}

// Line es una línea maquetada. Top y Baseline son coordenadas absolutas
// medidas desde el borde superior.
type Line struct {
	Top       float64
	Baseline  float64
	Height    float64
	Width     float64
	Fragments []Fragment
}

// Block es la parte de un bloque colocada en una página.
type Block struct {
	Kind      BlockKind
	X         float64
	Y         float64
	Width     float64
	Height    float64
	Color     RGB
	Continued bool
	Lines     []Line
}

// Text devuelve el texto dibujado, con las líneas unidas por saltos de línea.
func (b Block) Text() string {
	var out []byte
	for i, line := range b.Lines {
		if i > 0 {
			out = append(out, '\n')
		}
		for _, f := range line.Fragments {
			out = append(out, f.Text...)
		}
	}
	return string(out)
}

// Page guarda los bloques en orden de dibujo.
type Page struct {
	Number int
	Blocks []Block
}

// Document se genera nuevo en cada solicitud.
type Document struct {
	Width  float64
	Height float64
	Pages  []Page
	Usage  *fonts.Usage
}

// Blocks devuelve todos los bloques colocados, página por página.
func (d *Document) Blocks() []Block {
	var blocks []Block
	for _, p := range d.Pages {
		blocks = append(blocks, p.Blocks...)
	}
	return blocks
}

// Section es un grupo de filas con encabezado que va después del texto del perfil.
type Section struct {
	Heading string
	Rows    []string
}

// Content es todo lo que maqueta un reporte, en orden de dibujo.
type Content struct {
	Title          string
	Subtitle       string
	TaglineHeading string
	Tagline        string
	Paragraphs     []string
	TipsHeading    string
	Tips           []string
	Sections       []Section
}
