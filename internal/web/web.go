package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templates embed.FS

func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}).ParseFS(templates, "templates/*.html")
}
