package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"os"

	"github.com/invoicepress/invoicepress/internal/config"
)

var (
	ErrRenderFailure = errors.New("render_failure")

	// ErrTemplateUnavailable aborts the whole batch before any invoice is
	// processed; partial input is never rendered.
	ErrTemplateUnavailable = errors.New("template_unavailable")
)

type Renderer interface {
	Render(view View) (string, error)
}

type HTMLRenderer struct {
	tpl *template.Template
}

// NewRenderer parses the configured template file, or the built-in invoice
// template when none is configured. The template is parsed exactly once;
// rendering the same view twice yields byte-identical output.
func NewRenderer(cfg config.Config) (*HTMLRenderer, error) {
	source := invoiceHTMLTemplate
	if cfg.Template != "" {
		raw, err := os.ReadFile(cfg.Template)
		if err != nil {
			return nil, fmt.Errorf("read template %s: %v: %w", cfg.Template, err, ErrTemplateUnavailable)
		}
		source = string(raw)
	}

	tpl, err := template.New("invoice").Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse template: %v: %w", err, ErrTemplateUnavailable)
	}
	return &HTMLRenderer{tpl: tpl}, nil
}

func (r *HTMLRenderer) Render(view View) (string, error) {
	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("invoice %s: %v: %w", view.Number, err, ErrRenderFailure)
	}
	return buf.String(), nil
}
