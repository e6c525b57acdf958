package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
)

// ErrRender tags any failure inside the renderer, parse or execute.
var ErrRender = errors.New("render_error")

// Renderer turns stored template content and a flat key/value projection
// of an invoice into the final document. Template content is authored per
// customer and is opaque to the rest of the service.
type Renderer interface {
	Render(content string, data map[string]string) (string, error)
}

type htmlRenderer struct{}

func NewRenderer() Renderer {
	return &htmlRenderer{}
}

func (r *htmlRenderer) Render(content string, data map[string]string) (string, error) {
	tpl, err := template.New("invoice").Option("missingkey=error").Parse(content)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	return buf.String(), nil
}
