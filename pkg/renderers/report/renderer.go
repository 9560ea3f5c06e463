// Package report renders conversion results as a static HTML page. Every
// echoed value is escaped by the template engine; only the configured
// banner is emitted as markup, after sanitising.
package report

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-hlvl/pkg/model"
	"github.com/goliatone/go-hlvl/pkg/render"
	rendertemplate "github.com/goliatone/go-hlvl/pkg/render/template"
	"github.com/goliatone/go-hlvl/pkg/render/template/gotemplate"
)

const templateName = "report"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	title            string
	banner           string
}

// WithTitle overrides the page title and heading.
func WithTitle(title string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(title); trimmed != "" {
			cfg.title = trimmed
		}
	}
}

// WithBanner sets markup shown under the heading. It is sanitised once at
// construction.
func WithBanner(markup string) Option {
	return func(cfg *config) {
		cfg.banner = markup
	}
}

// WithTemplatesFS supplies an alternate template bundle containing report.tpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads report.tpl from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

type Renderer struct {
	templates rendertemplate.TemplateRenderer
	title     string
	banner    string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML report renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := config{title: DefaultTitle}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		if _, err := fs.Stat(cfg.templateFS, templateName+".tpl"); err != nil {
			return nil, fmt.Errorf("report renderer: locate %s.tpl: %w", templateName, err)
		}
		engine, err := gotemplate.New(gotemplate.WithFS(cfg.templateFS))
		if err != nil {
			return nil, fmt.Errorf("report renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates: renderer,
		title:     cfg.title,
		banner:    SanitizeBanner(cfg.banner),
	}, nil
}

func (r *Renderer) Format() model.ResponseFormat {
	return model.ResponseFormatHTML
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, result model.Result) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("report renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := r.templates.RenderTemplate(templateName, map[string]any{
		"title":           r.title,
		"banner":          r.banner,
		"modelType":       string(result.ModelType),
		"resourceType":    string(result.ResourceKind),
		"responseType":    string(result.ResponseFormat),
		"resourceContent": result.ResourceContent,
		"sourceModel":     result.SourceModel,
		"hlvl":            result.HLVL,
	})
	if err != nil {
		return nil, fmt.Errorf("report renderer: render template: %w", err)
	}
	return []byte(out), nil
}
