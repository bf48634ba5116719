package httpx

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	corefuncs "github.com/target/storefront-admin/internal/http/templates/core"
)

// templatePatterns are parsed, in order, into one template set.
var templatePatterns = []string{"*.tmpl", "pages/*.tmpl", "partials/*.tmpl"} //nolint:gochecknoglobals // fixed layout

// TemplateRenderer executes the dashboard templates into buffered responses.
type TemplateRenderer struct {
	fsys   fs.FS
	reload bool
	t      *template.Template
	logger *slog.Logger
}

// TemplateRendererConfig configures NewTemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS // required
	// Reload re-parses TemplateFS on every render so edits show up without
	// a restart. Dev mode only.
	Reload bool
	Logger *slog.Logger
}

// NewTemplateRenderer parses the templates once up front so a broken
// template fails startup, even when Reload is set.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}
	t, err := parseTemplates(cfg.TemplateFS)
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Error("template parsing failed", "error", err)
		}
		return nil, err
	}
	return &TemplateRenderer{fsys: cfg.TemplateFS, reload: cfg.Reload, t: t, logger: cfg.Logger}, nil
}

func parseTemplates(fsys fs.FS) (*template.Template, error) {
	var t *template.Template
	funcs := corefuncs.Funcs(corefuncs.Deps{
		Template:           &t,
		ContentTemplateFor: ContentTemplateFor,
	})
	t, err := template.New("root").Funcs(funcs).ParseFS(fsys, templatePatterns...)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

func (r *TemplateRenderer) set() (*template.Template, error) {
	if !r.reload {
		return r.t, nil
	}
	return parseTemplates(r.fsys)
}

// RenderFull renders a dashboard page inside the layout.
func (r *TemplateRenderer) RenderFull(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.render(w, "layout", data)
}

// RenderError renders the standalone error page.
func (r *TemplateRenderer) RenderError(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.render(w, "error-layout", data)
}

// RenderNamed renders any top-level template, such as the login page.
func (r *TemplateRenderer) RenderNamed(w http.ResponseWriter, name string, data any) error {
	return r.render(w, name, data)
}

// executeInto renders into buf so a template error never leaves a
// half-written response.
func (r *TemplateRenderer) executeInto(buf *bytes.Buffer, name string, data any) error {
	t, err := r.set()
	if err == nil {
		err = t.ExecuteTemplate(buf, name, data)
	}
	if err != nil && r.logger != nil {
		r.logger.Error("template execution failed", "template", name, "error", err)
	}
	return err
}

func (r *TemplateRenderer) render(w http.ResponseWriter, name string, data any) error {
	var buf bytes.Buffer
	if err := r.executeInto(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		if r.logger != nil {
			r.logger.Warn("write rendered template", "template", name, "error", err)
		}
		return err
	}
	return nil
}
