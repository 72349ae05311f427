package layout

import (
	"math"
	"unicode"

	"github.com/rivo/uniseg"

	"devspectrum/internal/fonts"
)

// cluster es un clúster de grafemas con la oportunidad de corte que lo sigue.
type cluster struct {
	text  string
	width float64
	run   int
	space bool
	brk   int
}

// clusters mide el texto tramo por tramo. Los límites de tramo coinciden con
// los de clúster porque ambos salen de la misma segmentación.
func clusters(text string, runs []fonts.Run, size float64, bold bool) []cluster {
	var out []cluster
	state := -1
	offset := 0
	run := 0
	rest := text
	for len(rest) > 0 {
		var c string
		var boundaries int
		c, rest, boundaries, state = uniseg.StepString(rest, state)
		for run < len(runs)-1 && offset >= runs[run].End {
			run++
		}
		face := runs[run].Font.Face(bold)
		width := 0.0
		space := true
		for _, r := range c {
			if unicode.IsControl(r) || unicode.Is(unicode.Variation_Selector, r) || unicode.Is(unicode.Join_Control, r) {
				continue
			}
			if !unicode.IsSpace(r) {
				space = false
			}
			width += face.Advance(r) * size
		}
		out = append(out, cluster{
			text:  c,
			width: width,
			run:   run,
			space: space,
			brk:   boundaries & uniseg.MaskLine,
		})
		offset += len(c)
	}
	return out
}

// breakLines llena líneas de forma voraz. Corta en la última oportunidad UAX
// #14 que entra y, si una palabra sola es más ancha que la línea, en un límite
// de clúster. El espacio final cuelga fuera del margen.
func breakLines(cl []cluster, max float64) [][2]int {
	var lines [][2]int
	start := 0
	width := 0.0
	lastBreak := -1
	for i := 0; i < len(cl); i++ {
		c := cl[i]
		if !c.space && i > start && width+c.width > max {
			end := i
			if lastBreak >= start {
				end = lastBreak + 1
			}
			lines = append(lines, [2]int{start, end})
			start = end
			width, lastBreak = 0, -1
			for j := start; j < i; j++ {
				width += cl[j].width
				if cl[j].brk == uniseg.LineCanBreak {
					lastBreak = j
				}
			}
			i--
			continue
		}
		width += c.width
		switch c.brk {
		case uniseg.LineMustBreak:
			lines = append(lines, [2]int{start, i + 1})
			start, width, lastBreak = i+1, 0, -1
		case uniseg.LineCanBreak:
			lastBreak = i
		}
	}
	if start < len(cl) {
		lines = append(lines, [2]int{start, len(cl)})
	}
	return lines
}

// wrap maqueta text en líneas relativas a (0, 0): X del fragmento empieza en 0
// y Line.Baseline es el desplazamiento desde el borde superior de la línea.
func (e *Engine) wrap(text string, style Style, width float64) ([]Line, error) {
	runs, err := e.fonts.Runs(text)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	cl := clusters(text, runs, style.FontSize, style.Bold)

	var lines []Line
	top := 0.0
	for _, span := range breakLines(cl, width) {
		lo, hi := span[0], span[1]
		for hi > lo && cl[hi-1].space {
			hi--
		}
		line := e.buildLine(cl[lo:hi], runs, style)
		line.Top = top
		top += line.Height
		lines = append(lines, line)
	}
	return lines, nil
}

func (e *Engine) buildLine(cl []cluster, runs []fonts.Run, style Style) Line {
	var line Line
	x := 0.0
	for i := 0; i < len(cl); {
		j := i
		frag := Fragment{X: x, Size: style.FontSize}
		run := runs[cl[i].run]
		for j < len(cl) && cl[j].run == cl[i].run {
			frag.Text += cl[j].text
			frag.Width += cl[j].width
			j++
		}
		frag.Font = run.Font.Name
		frag.Script = run.Script
		frag.Bold = style.Bold && run.Font.HasBold()
		x += frag.Width
		line.Fragments = append(line.Fragments, frag)
		i = j
	}
	line.Width = x

	ascent, descent, height := 0.0, 0.0, 0.0
	faces := make([]fonts.Face, 0, len(line.Fragments))
	for _, f := range line.Fragments {
		asset, _ := e.fonts.Asset(f.Font)
		faces = append(faces, asset.Face(f.Bold))
	}
	if len(faces) == 0 {
		// blank line from consecutive newlines
		faces = append(faces, e.fonts.Assets()[0].Face(style.Bold))
	}
	for _, face := range faces {
		m := face.Metrics()
		ascent = math.Max(ascent, m.Ascent*style.FontSize)
		descent = math.Max(descent, m.Descent*style.FontSize)
		height = math.Max(height, m.LineHeight*style.FontSize)
	}
	height = math.Max(height, ascent+descent) * style.LineSpacing
	line.Height = height
	line.Baseline = (height-(ascent+descent))/2 + ascent
	return line
}
