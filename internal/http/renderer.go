package httpx

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

//go:embed templates/*.tmpl templates/public/*.tmpl templates/admin/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// StaticHandler serves the embedded stylesheet and any other static
// assets under /static/.
func StaticHandler() http.Handler {
	return http.StripPrefix("/static/", http.FileServerFS(mustSub(staticFS, "static")))
}

// TemplateRenderer renders HTML templates for UI responses. Templates
// are parsed once at startup from the embedded filesystem.
type TemplateRenderer struct {
	t      *template.Template
	logger *slog.Logger
}

// NewTemplateRenderer parses the embedded templates.
func NewTemplateRenderer(logger *slog.Logger) (*TemplateRenderer, error) {
	funcs := template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("January 2, 2006")
		},
		"formatDateTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006 15:04")
		},
		"lower": strings.ToLower,
	}

	t, err := template.New("root").Funcs(funcs).ParseFS(templateFS,
		"templates/*.tmpl",
		"templates/public/*.tmpl",
		"templates/admin/*.tmpl",
	)
	if err != nil {
		if logger != nil {
			logger.Error("template parsing failed", slog.Any("error", err))
		}
		return nil, err
	}
	return &TemplateRenderer{t: t, logger: logger}, nil
}

// Render executes the named template into a buffer first so a template
// error never produces a half-written response.
func (r *TemplateRenderer) Render(w http.ResponseWriter, name string, data any) error {
	return r.RenderStatus(w, 0, name, data)
}

// RenderStatus is Render with an explicit status code (0 means default).
func (r *TemplateRenderer) RenderStatus(w http.ResponseWriter, status int, name string, data any) error {
	if b, ok := data.(*TemplateDataBuilder); ok {
		data = b.Build()
	}
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, name, data); err != nil {
		if r.logger != nil {
			r.logger.Error("template execution failed",
				slog.String("template", name),
				slog.Any("error", err))
		}
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status > 0 {
		w.WriteHeader(status)
	}
	_, err := buf.WriteTo(w)
	return err
}
