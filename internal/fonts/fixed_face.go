package fonts

// FixedFace es una Face monoespaciada sin fuente binaria, para previsualizar
// maquetación y para tests.
type FixedFace struct {
	// Width es el avance de cada rune; Wide aplica a han, kana y hangul.
	Width   float64
	Wide    float64
	Metric  Metrics
	Covered func(r rune) bool
}

// NewLatinFixedFace cubre runes latinas y neutras.
func NewLatinFixedFace() *FixedFace {
	return &FixedFace{
		Width:  0.5,
		Wide:   1,
		Metric: Metrics{Ascent: 0.8, Descent: 0.2, LineHeight: 1.2},
		Covered: func(r rune) bool {
			s := Classify(r)
			return s == ScriptLatin || s == ScriptNeutral
		},
	}
}

// NewCJKFixedFace cubre runes han, kana, neutras y latinas.
func NewCJKFixedFace() *FixedFace {
	return &FixedFace{
		Width:  0.5,
		Wide:   1,
		Metric: Metrics{Ascent: 0.88, Descent: 0.12, LineHeight: 1.45},
		Covered: func(r rune) bool {
			return Classify(r) != ScriptHangul && Classify(r) != ScriptUnknown
		},
	}
}

func (f *FixedFace) HasGlyph(r rune) bool {
	if f.Covered == nil {
		return true
	}
	return f.Covered(r)
}

func (f *FixedFace) Advance(r rune) float64 {
	switch Classify(r) {
	case ScriptHan, ScriptKana, ScriptHangul:
		return f.Wide
	default:
		return f.Width
	}
}

func (f *FixedFace) Metrics() Metrics {
	return f.Metric
}
