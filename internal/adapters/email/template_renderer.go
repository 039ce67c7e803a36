package email

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"eventhub/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

// mailHelpers are available to every template.
var mailHelpers = map[string]any{
	"datetime": func(t time.Time) string { return t.UTC().Format("Mon, 02 Jan 2006 15:04 MST") },
	"money":    func(v float64) string { return fmt.Sprintf("%.2f", v) },
}

// templateRenderer renders a mail from three embedded files sharing a base
// name: <name>_subject.txt, <name>.html and <name>.txt. The sets are parsed
// once at construction.
type templateRenderer struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

// NewTemplateRenderer parses the embedded templates. It panics if they do not
// parse, which can only happen with a broken build.
func NewTemplateRenderer() domain.EmailTemplateRenderer {
	return &templateRenderer{
		html: htmltemplate.Must(htmltemplate.New("mail").Funcs(mailHelpers).ParseFS(templateFS, "templates/*.html")),
		text: texttemplate.Must(texttemplate.New("mail").Funcs(mailHelpers).ParseFS(templateFS, "templates/*.txt")),
	}
}

// Render executes the named mail (e.g. "welcome") and returns its subject and
// both bodies.
func (r *templateRenderer) Render(templateName string, data any) (subject, htmlBody, textBody string, err error) {
	if r.html.Lookup(templateName+".html") == nil {
		return "", "", "", fmt.Errorf("unknown email template %q", templateName)
	}

	var buf bytes.Buffer
	if err := r.text.ExecuteTemplate(&buf, templateName+"_subject.txt", data); err != nil {
		return "", "", "", fmt.Errorf("render %s subject: %w", templateName, err)
	}
	subject = strings.TrimSpace(buf.String())

	buf.Reset()
	if err := r.html.ExecuteTemplate(&buf, templateName+".html", data); err != nil {
		return "", "", "", fmt.Errorf("render %s html: %w", templateName, err)
	}
	htmlBody = buf.String()

	buf.Reset()
	if err := r.text.ExecuteTemplate(&buf, templateName+".txt", data); err != nil {
		return "", "", "", fmt.Errorf("render %s text: %w", templateName, err)
	}
	return subject, htmlBody, buf.String(), nil
}
