// Package assets embebe las tablas del cuestionario, los textos de perfiles y las fuentes latinas.
package assets

import (
	_ "embed"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	//go:embed data/quiz.yaml
	Quiz []byte

	//go:embed data/personas.yaml
	Personas []byte

	//go:embed data/persona_content.json
	PersonaContent []byte
)

// LatinRegular y LatinBold son las fuentes Go, usadas si no hay ruta de fuente latina.
var (
	LatinRegular = goregular.TTF
	LatinBold    = gobold.TTF
)
