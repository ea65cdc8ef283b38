package renderer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Pages lists the templates that can be rendered. Each one is parsed into
// its own set together with layout.html.
var Pages = []string{
	"signup-form.html",
	"login-form.html",
	"edit-page-form.html",
	"page.html",
	"history.html",
}

// Renderer turns a template name and a set of named values into markup.
type Renderer interface {
	Render(name string, data map[string]any) (string, error)
}

// Templates renders the embedded page templates.
type Templates struct {
	sets map[string]*template.Template
}

// New parses the embedded templates.
func New() (*Templates, error) {
	sets := make(map[string]*template.Template, len(Pages))
	for _, name := range Pages {
		ts, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFiles, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", name, err)
		}
		sets[name] = ts
	}
	return &Templates{sets: sets}, nil
}

// Render executes the layout of the named template set with data.
func (t *Templates) Render(name string, data map[string]any) (string, error) {
	ts, ok := t.sets[name]
	if !ok {
		return "", fmt.Errorf("template %s does not exist", name)
	}

	var buf bytes.Buffer
	if err := ts.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var funcs = template.FuncMap{
	"lines": Lines,
}

// Lines escapes content and turns its line breaks into <br> tags.
func Lines(content string) template.HTML {
	escaped := template.HTMLEscapeString(strings.ReplaceAll(content, "\r\n", "\n"))
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}
