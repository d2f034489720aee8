package printing

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/jhoicas/dental-ops-api/internal/application/export"
)

//go:embed templates/table.html
var templatesFS embed.FS

// HTMLRenderer vista imprimible de un listado (el navegador la pasa a papel o PDF).
type HTMLRenderer struct {
	tmpl *template.Template
}

var _ export.Renderer = (*HTMLRenderer)(nil)

// NewHTMLRenderer compila la plantilla embebida.
func NewHTMLRenderer() (*HTMLRenderer, error) {
	tmpl, err := template.New("table.html").Funcs(template.FuncMap{
		"alignClass": alignClass,
		"formatDate": func(t time.Time) string { return t.Format("02/01/2006 15:04") },
	}).ParseFS(templatesFS, "templates/table.html")
	if err != nil {
		return nil, fmt.Errorf("printing: parse plantilla: %w", err)
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

// Format implementa export.Renderer.
func (r *HTMLRenderer) Format() export.Format { return export.FormatHTML }

// Render ejecuta la plantilla sobre la tabla.
func (r *HTMLRenderer) Render(_ context.Context, w io.Writer, t *export.Table) error {
	return r.tmpl.Execute(w, t)
}

func alignClass(a export.Align) string {
	switch a {
	case export.AlignCenter:
		return "c"
	case export.AlignRight:
		return "r"
	default:
		return "l"
	}
}
