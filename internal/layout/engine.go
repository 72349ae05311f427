package layout

import (
	"fmt"
	"strings"

	"devspectrum/internal/domain"
	"devspectrum/internal/fonts"
)

// Engine maqueta el contenido del reporte en páginas. Es seguro para uso
// concurrente: cada llamada construye su propio Document.
type Engine struct {
	cfg   Config
	fonts *fonts.Resolver
}

func NewEngine(cfg Config, resolver *fonts.Resolver) (*Engine, error) {
	if resolver == nil {
		return nil, domain.NewConfigurationError("layout", "font resolver is required", nil)
	}
	if err := cfg.validate(); err != nil {
		return nil, domain.NewConfigurationError("layout", "invalid layout config", err)
	}
	return &Engine{cfg: cfg, fonts: resolver}, nil
}

// Config devuelve las reglas con las que se construyó el engine.
func (e *Engine) Config() Config {
	return e.cfg
}

type item struct {
	kind BlockKind
	text string
}

var bulletPrefixes = []string{"- ", "• ", "•\u00a0"}

// items aplana el contenido en bloques en su orden fijo.
func items(c Content) []item {
	var out []item
	add := func(kind BlockKind, text string) {
		if text = strings.TrimSpace(text); text != "" {
			out = append(out, item{kind: kind, text: text})
		}
	}

	add(KindTitle, c.Title)
	add(KindSubtitle, c.Subtitle)
	if strings.TrimSpace(c.Tagline) != "" {
		add(KindTagline, strings.TrimSpace(c.TaglineHeading+" "+c.Tagline))
	}
	for _, p := range c.Paragraphs {
		kind := KindParagraph
		for _, prefix := range bulletPrefixes {
			if strings.HasPrefix(p, prefix) {
				p = strings.TrimPrefix(p, prefix)
				kind = KindListItem
				break
			}
		}
		add(kind, p)
	}

	tips := nonBlank(c.Tips)
	if len(tips) > 0 {
		add(KindHeading, c.TipsHeading)
		for _, tip := range tips {
			add(KindListItem, tip)
		}
	}
	for _, section := range c.Sections {
		rows := nonBlank(section.Rows)
		if len(rows) == 0 {
			continue
		}
		add(KindHeading, section.Heading)
		for _, row := range rows {
			add(KindParagraph, row)
		}
	}
	return out
}

func nonBlank(values []string) []string {
	var out []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

type measured struct {
	kind   BlockKind
	style  Style
	lines  []Line
	bullet *Fragment
}

func (m measured) height() float64 {
	h := 0.0
	for _, l := range m.lines {
		h += l.Height
	}
	return h
}

func (e *Engine) measure(it item) (measured, error) {
	style := e.cfg.Styles[it.kind]
	m := measured{kind: it.kind, style: style}

	lines, err := e.wrap(it.text, style, e.cfg.ContentWidth()-style.Indent)
	if err != nil {
		return measured{}, err
	}
	for i := range lines {
		for j := range lines[i].Fragments {
			lines[i].Fragments[j].X += style.Indent
		}
	}
	m.lines = lines

	if it.kind == KindListItem && style.Bullet != "" && len(lines) > 0 {
		bullet, err := e.wrap(style.Bullet, style, style.Indent+e.cfg.ContentWidth())
		if err != nil {
			return measured{}, err
		}
		if len(bullet) > 0 && len(bullet[0].Fragments) > 0 {
			frag := bullet[0].Fragments[0]
			m.bullet = &frag
		}
	}
	return m, nil
}

// Layout mide cada bloque y pagina. Mismo contenido y configuración producen
// siempre las mismas páginas y posiciones.
func (e *Engine) Layout(c Content) (*Document, error) {
	list := items(c)
	blocks := make([]measured, 0, len(list))
	for _, it := range list {
		m, err := e.measure(it)
		if err != nil {
			return nil, err
		}
		if len(m.lines) > 0 {
			blocks = append(blocks, m)
		}
	}

	p := &paginator{cfg: e.cfg, usage: fonts.NewUsage()}
	p.newPage()
	for i, m := range blocks {
		keep := 0.0
		if m.kind == KindHeading && i+1 < len(blocks) {
			next := blocks[i+1]
			keep = next.style.SpaceBefore + next.lines[0].Height
		}
		p.place(m, keep)
	}

	if len(p.pages) > e.cfg.MaxPages {
		return nil, domain.NewConfigurationError("layout",
			fmt.Sprintf("report needs %d pages, limit is %d", len(p.pages), e.cfg.MaxPages), nil)
	}
	return &Document{
		Width:  e.cfg.PageWidth,
		Height: e.cfg.PageHeight,
		Pages:  p.pages,
		Usage:  p.usage,
	}, nil
}

type paginator struct {
	cfg   Config
	pages []Page
	y     float64
	usage *fonts.Usage
}

func (p *paginator) newPage() {
	p.pages = append(p.pages, Page{Number: len(p.pages) + 1})
	p.y = p.cfg.Margins.Top
}

func (p *paginator) atTop() bool {
	return p.y == p.cfg.Margins.Top
}

func (p *paginator) remaining() float64 {
	return p.cfg.PageHeight - p.cfg.Margins.Bottom - p.y
}

// place coloca un bloque en la página actual. Los bloques que no se dividen
// pasan enteros a una página nueva, y un encabezado necesita además lugar para
// la primera línea que lo sigue. Los divisibles continúan en la página
// siguiente en un límite de línea.
func (p *paginator) place(m measured, keep float64) {
	before := m.style.SpaceBefore
	if p.atTop() {
		before = 0
	}

	if !m.kind.splittable() {
		if before+m.height()+keep > p.remaining() && !p.atTop() {
			p.newPage()
			before = 0
		}
		p.y += before
		p.emit(m, m.lines, false)
		p.y += m.style.SpaceAfter
		return
	}

	if before+m.lines[0].Height > p.remaining() && !p.atTop() {
		p.newPage()
		before = 0
	}
	p.y += before

	rest := m.lines
	continued := false
	for len(rest) > 0 {
		n, h := 0, 0.0
		for n < len(rest) && h+rest[n].Height <= p.remaining() {
			h += rest[n].Height
			n++
		}
		if n == 0 {
			if !p.atTop() {
				p.newPage()
				continue
			}
			// a single line taller than the page is placed anyway
			n = 1
		}
		p.emit(m, rest[:n], continued)
		rest = rest[n:]
		if len(rest) > 0 {
			p.newPage()
			continued = true
		}
	}
	p.y += m.style.SpaceAfter
}

func (p *paginator) emit(m measured, lines []Line, continued bool) {
	left := p.cfg.Margins.Left
	block := Block{
		Kind:      m.kind,
		X:         left,
		Y:         p.y,
		Width:     p.cfg.ContentWidth(),
		Color:     m.style.Color,
		Continued: continued,
	}
	for i, rel := range lines {
		line := rel
		line.Top = p.y
		line.Baseline = p.y + rel.Baseline
		line.Fragments = make([]Fragment, 0, len(rel.Fragments)+1)
		if i == 0 && !continued && m.bullet != nil {
			b := *m.bullet
			b.X = left
			line.Fragments = append(line.Fragments, b)
		}
		for _, f := range rel.Fragments {
			f.X += left
			line.Fragments = append(line.Fragments, f)
		}
		for _, f := range line.Fragments {
			p.usage.Add(fonts.FaceKey{Font: f.Font, Bold: f.Bold}, f.Text)
		}
		block.Lines = append(block.Lines, line)
		block.Height += line.Height
		p.y += line.Height
	}
	last := len(p.pages) - 1
	p.pages[last].Blocks = append(p.pages[last].Blocks, block)
}
