package fonts

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/rivo/uniseg"

	"devspectrum/internal/domain"
)

// Run es el tramo máximo de texto dibujado con una fuente. Start y End son
// offsets en bytes dentro del texto pasado a Resolver.Runs y siempre caen en
// límites de clúster de grafemas.
type Run struct {
	Text   string
	Start  int
	End    int
	Script Script
	Font   *FontAsset
}

// Resolver elige fuentes para un texto. Solo guarda datos de arranque.
type Resolver struct {
	assets []*FontAsset
	byName map[string]*FontAsset
}

// NewResolver respeta el orden recibido: gana el primer asset que cubre el script.
func NewResolver(assets ...*FontAsset) (*Resolver, error) {
	if len(assets) == 0 {
		return nil, domain.NewConfigurationError("fonts", "no font assets loaded", nil)
	}
	byName := make(map[string]*FontAsset, len(assets))
	for _, a := range assets {
		if a == nil {
			continue
		}
		if _, dup := byName[a.Name]; dup {
			return nil, domain.NewConfigurationError("fonts", fmt.Sprintf("duplicate font name %q", a.Name), nil)
		}
		byName[a.Name] = a
	}
	return &Resolver{assets: slices.Clone(assets), byName: byName}, nil
}

// Assets devuelve los assets en orden de resolución.
func (r *Resolver) Assets() []*FontAsset {
	return r.assets
}

// Asset devuelve el asset registrado con name.
func (r *Resolver) Asset(name string) (*FontAsset, bool) {
	a, ok := r.byName[name]
	return a, ok
}

// Resolve devuelve la primera fuente que declara s y puede dibujar text.
func (r *Resolver) Resolve(s Script, text string) (*FontAsset, error) {
	var missing rune
	for _, a := range r.assets {
		if !a.Covers(s) {
			continue
		}
		bad, ok := a.Draws(text)
		if ok {
			return a, nil
		}
		missing = bad
	}
	if missing == 0 {
		missing = firstVisible(text)
	}
	return nil, &domain.UnsupportedScriptError{Rune: missing, Script: s.String(), Text: text}
}

// drawing devuelve la primera fuente, sin importar su cobertura, que dibuja text.
func (r *Resolver) drawing(text string) *FontAsset {
	for _, a := range r.assets {
		if _, ok := a.Draws(text); ok {
			return a
		}
	}
	return nil
}

type classified struct {
	text    string
	start   int
	script  Script
	neutral bool
}

// Runs divide text en tramos por fuente. Concatenar el Text de los tramos
// reproduce text exactamente.
func (r *Resolver) Runs(text string) ([]Run, error) {
	clusters := segment(text)
	if len(clusters) == 0 {
		return nil, nil
	}
	inheritScripts(clusters)

	var runs []Run
	for _, c := range clusters {
		script := c.script
		font, err := r.Resolve(script, c.text)
		if err != nil {
			if !c.neutral {
				var unsupported *domain.UnsupportedScriptError
				if errors.As(err, &unsupported) {
					unsupported.Text = text
				}
				return nil, err
			}
			// Punctuation the inherited font cannot draw gets its own run.
			font = r.drawing(c.text)
			if font == nil {
				return nil, &domain.UnsupportedScriptError{Rune: firstVisible(c.text), Script: ScriptNeutral.String(), Text: text}
			}
			script = ScriptNeutral
		}
		end := c.start + len(c.text)
		if n := len(runs); n > 0 && runs[n-1].Font == font && runs[n-1].Script == script {
			runs[n-1].Text += c.text
			runs[n-1].End = end
			continue
		}
		runs = append(runs, Run{Text: c.text, Start: c.start, End: end, Script: script, Font: font})
	}
	return runs, nil
}

func segment(text string) []classified {
	var clusters []classified
	state := -1
	offset := 0
	rest := text
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		s := classifyCluster(cluster)
		clusters = append(clusters, classified{text: cluster, start: offset, script: s, neutral: s == ScriptNeutral})
		offset += len(cluster)
	}
	return clusters
}

// inheritScripts asigna a los clústeres neutros el script del tramo anterior, o
// del siguiente si van al inicio. Un texto todo neutro se trata como latino.
func inheritScripts(clusters []classified) {
	current := ScriptNeutral
	for i := range clusters {
		if clusters[i].neutral {
			clusters[i].script = current
			continue
		}
		if current == ScriptNeutral {
			for j := 0; j < i; j++ {
				clusters[j].script = clusters[i].script
			}
		}
		current = clusters[i].script
	}
	if current == ScriptNeutral {
		for i := range clusters {
			clusters[i].script = ScriptLatin
		}
	}
}

func firstVisible(text string) rune {
	for _, r := range text {
		if !ignorable(r) {
			return r
		}
	}
	return 0
}

// FaceKey identifica una cara embebida de un asset.
type FaceKey struct {
	Font string
	Bold bool
}

// Usage registra los code points dibujados por cara en un documento.
type Usage struct {
	runes map[FaceKey]map[rune]struct{}
}

func NewUsage() *Usage {
	return &Usage{runes: make(map[FaceKey]map[rune]struct{})}
}

// Add registra cada rune visible de text.
func (u *Usage) Add(key FaceKey, text string) {
	for _, r := range text {
		if ignorable(r) {
			continue
		}
		set, ok := u.runes[key]
		if !ok {
			set = make(map[rune]struct{})
			u.runes[key] = set
		}
		set[r] = struct{}{}
	}
}

// Faces devuelve las caras usadas ordenadas por nombre, regular antes que negrita.
func (u *Usage) Faces() []FaceKey {
	keys := make([]FaceKey, 0, len(u.runes))
	for k := range u.runes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Font != keys[j].Font {
			return keys[i].Font < keys[j].Font
		}
		return !keys[i].Bold && keys[j].Bold
	})
	return keys
}

// Runes devuelve los code points dibujados con key, ordenados.
func (u *Usage) Runes(key FaceKey) []rune {
	set := u.runes[key]
	out := make([]rune, 0, len(set))
	for r := range set {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}
