package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer executes the embedded landing and not-found templates. Templates
// are parsed once at construction; a parse failure is a packaging bug and
// surfaces at startup, not per request.
type Renderer struct {
	tmpl *template.Template
}

func New() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("render.New: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Landing writes the public landing page for the given display tree.
func (r *Renderer) Landing(w io.Writer, p Page) error {
	if err := r.tmpl.ExecuteTemplate(w, "landing.html", p); err != nil {
		return fmt.Errorf("render.Landing: %w", err)
	}
	return nil
}

// NotFound writes the dedicated 404 view naming the requested slug.
func (r *Renderer) NotFound(w io.Writer, slug string) error {
	if err := r.tmpl.ExecuteTemplate(w, "notfound.html", struct{ Slug string }{Slug: slug}); err != nil {
		return fmt.Errorf("render.NotFound: %w", err)
	}
	return nil
}
