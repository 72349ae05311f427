package fonts

import (
	"fmt"
	"strings"
	"unicode"
)

// Script es el conjunto cerrado de scripts que una fuente puede declarar.
type Script int

const (
	ScriptNeutral Script = iota
	ScriptLatin
	ScriptHan
	ScriptKana
	ScriptHangul
	ScriptUnknown
)

func (s Script) String() string {
	switch s {
	case ScriptNeutral:
		return "neutral"
	case ScriptLatin:
		return "latin"
	case ScriptHan:
		return "han"
	case ScriptKana:
		return "kana"
	case ScriptHangul:
		return "hangul"
	case ScriptUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("script(%d)", int(s))
	}
}

// ParseScript acepta las etiquetas usadas en la configuración.
func ParseScript(tag string) (Script, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "latin":
		return ScriptLatin, nil
	case "han":
		return ScriptHan, nil
	case "kana":
		return ScriptKana, nil
	case "hangul":
		return ScriptHangul, nil
	case "neutral":
		return ScriptNeutral, nil
	default:
		return ScriptUnknown, fmt.Errorf("unknown script tag %q", tag)
	}
}

// ParseScripts parsea una lista separada por comas como "han,kana".
func ParseScripts(list string) ([]Script, error) {
	var scripts []Script
	for _, tag := range strings.Split(list, ",") {
		if strings.TrimSpace(tag) == "" {
			continue
		}
		s, err := ParseScript(tag)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, s)
	}
	return scripts, nil
}

// scriptTable se recorre de arriba abajo; gana la primera coincidencia.
var scriptTable = []struct {
	script Script
	table  *unicode.RangeTable
}{
	{ScriptHan, unicode.Han},
	{ScriptKana, unicode.Hiragana},
	{ScriptKana, unicode.Katakana},
	{ScriptHangul, unicode.Hangul},
	{ScriptLatin, unicode.Latin},
	{ScriptLatin, unicode.Greek},
	{ScriptLatin, unicode.Cyrillic},
	{ScriptNeutral, unicode.Common},
	{ScriptNeutral, unicode.Inherited},
}

// Classify devuelve el script de una rune.
func Classify(r rune) Script {
	for _, entry := range scriptTable {
		if unicode.Is(entry.table, r) {
			return entry.script
		}
	}
	return ScriptUnknown
}

// classifyCluster usa la primera rune del clúster; las marcas combinantes y
// los joiners que la siguen pertenecen al mismo glifo.
func classifyCluster(cluster string) Script {
	for _, r := range cluster {
		return Classify(r)
	}
	return ScriptNeutral
}

// ignorable: runes sin glifo propio.
func ignorable(r rune) bool {
	return unicode.IsControl(r) ||
		unicode.Is(unicode.Variation_Selector, r) ||
		unicode.Is(unicode.Join_Control, r)
}
