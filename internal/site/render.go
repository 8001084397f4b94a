package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	jsoniter "github.com/json-iterator/go"

	"github.com/tomhuettmann/fuel-consumption/internal/format"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/chart.js
var chartScript []byte

const (
	TEMPLATE_INDEX = "index.html"
	TEMPLATE_CAR   = "car.html"
)

// Renderer turns a page payload into text using the named template.
type Renderer interface {
	Render(name string, data any) ([]byte, error)
}

type templateRenderer struct {
	templates *template.Template
}

func NewRenderer(formatter format.Formatter) (Renderer, error) {
	funcs := template.FuncMap{
		"json": func(v any) (string, error) {
			data, err := json.Marshal(v)
			return string(data), err
		},
		"price": formatter.Price,
	}

	templates, err := template.New("site").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &templateRenderer{templates: templates}, nil
}

func (r *templateRenderer) Render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
