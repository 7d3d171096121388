package notifier

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"streemi/internal/core/domain/notification"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

type Rendered struct {
	Subject string
	Text    string
	HTML    string
}

// Renderer renders the bundled templates. Every template id has a subject,
// a plain text body and an HTML body.
type Renderer struct {
	text *texttemplate.Template
	html *htmltemplate.Template
}

func NewRenderer() *Renderer {
	text := texttemplate.Must(
		texttemplate.New("").Option("missingkey=error").ParseFS(templateFS, "templates/*.subject.tmpl", "templates/*.txt.tmpl"),
	)
	html := htmltemplate.Must(
		htmltemplate.New("").Option("missingkey=error").ParseFS(templateFS, "templates/*.html.tmpl"),
	)
	return &Renderer{text: text, html: html}
}

func (r *Renderer) Render(template notification.TemplateID, context notification.Context) (rendered Rendered, err error) {
	data := map[string]string(context)

	subject, err := r.execText(string(template)+".subject.tmpl", data)
	if err != nil {
		return rendered, err
	}
	text, err := r.execText(string(template)+".txt.tmpl", data)
	if err != nil {
		return rendered, err
	}

	var html bytes.Buffer
	if err := r.html.ExecuteTemplate(&html, string(template)+".html.tmpl", data); err != nil {
		return rendered, fmt.Errorf("could not render %s html: %w", template, err)
	}
	return Rendered{Subject: strings.TrimSpace(subject), Text: text, HTML: html.String()}, nil
}

func (r *Renderer) execText(name string, data map[string]string) (string, error) {
	var buf bytes.Buffer
	if err := r.text.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("could not render %s: %w", name, err)
	}
	return buf.String(), nil
}
