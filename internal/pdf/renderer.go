// Package pdf dibuja documentos maquetados con go-pdf/fpdf. Solo se embeben
// las caras que el documento usa y fpdf recorta cada una a las runes dibujadas.
package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"devspectrum/internal/domain"
	"devspectrum/internal/fonts"
	"devspectrum/internal/layout"
)

// Metadata completa el diccionario de información del documento.
type Metadata struct {
	Title     string
	Author    string
	Subject   string
	Keywords  []string
	CreatedAt time.Time
}

type Renderer struct {
	fonts *fonts.Resolver
}

func NewRenderer(resolver *fonts.Resolver) *Renderer {
	return &Renderer{fonts: resolver}
}

// Render dibuja cada fragmento en su posición. Las coordenadas son puntos desde
// la esquina superior izquierda, igual que en fpdf.
func (r *Renderer) Render(doc *layout.Document, meta Metadata) ([]byte, error) {
	if doc == nil || len(doc.Pages) == 0 {
		return nil, domain.NewConfigurationError("pdf", "document has no pages", nil)
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: doc.Width, Ht: doc.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(meta.Title, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.SetSubject(meta.Subject, true)
	pdf.SetCreator("devspectrum", true)
	pdf.SetProducer("devspectrum", true)
	if len(meta.Keywords) > 0 {
		pdf.SetKeywords(strings.Join(meta.Keywords, " "), true)
	}
	if !meta.CreatedAt.IsZero() {
		pdf.SetCreationDate(meta.CreatedAt)
	}

	if err := r.registerFaces(pdf, doc.Usage); err != nil {
		return nil, err
	}

	for _, page := range doc.Pages {
		pdf.AddPage()
		for _, block := range page.Blocks {
			pdf.SetTextColor(block.Color.R, block.Color.G, block.Color.B)
			for _, line := range block.Lines {
				for _, frag := range line.Fragments {
					pdf.SetFont(frag.Font, style(frag.Bold), frag.Size)
					pdf.Text(frag.X, line.Baseline, frag.Text)
				}
			}
		}
	}
	if pdf.Err() {
		return nil, fmt.Errorf("draw pdf: %w", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// registerFaces embebe una vez cada cara usada. Una cara sin payload binario no
// se puede embeber y es un error de configuración.
func (r *Renderer) registerFaces(pdf *fpdf.Fpdf, usage *fonts.Usage) error {
	if usage == nil {
		return nil
	}
	for _, key := range usage.Faces() {
		asset, ok := r.fonts.Asset(key.Font)
		if !ok {
			return domain.NewConfigurationError("pdf", "unknown font "+key.Font, nil)
		}
		payload := asset.Regular
		if key.Bold {
			payload = asset.Bold
		}
		if len(payload) == 0 {
			return domain.NewConfigurationError("pdf", fmt.Sprintf("font %s%s has no embeddable payload", key.Font, style(key.Bold)), nil)
		}
		pdf.AddUTF8FontFromBytes(key.Font, style(key.Bold), payload)
	}
	if pdf.Err() {
		return domain.NewConfigurationError("pdf", "embed fonts", pdf.Error())
	}
	return nil
}

func style(bold bool) string {
	if bold {
		return "B"
	}
	return ""
}
