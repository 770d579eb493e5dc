package mailservice

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
)

//go:embed templates/*
var templateFS embed.FS

// welcomeBlocks are the named blocks every welcome template defines.
var welcomeBlocks = []string{"subject", "plainBody", "htmlBody"}

// NewTemplate parses the embedded welcome email once. Rendering never touches the file
// system again.
func NewTemplate() (*Template, error) {
	return parseWelcome(templateFS)
}

func parseWelcome(fsys fs.FS) (*Template, error) {
	t, err := template.ParseFS(fsys, "templates/"+WelcomeTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", WelcomeTemplate, err)
	}

	for _, name := range welcomeBlocks {
		if t.Lookup(name) == nil {
			return nil, fmt.Errorf("parse %s: missing %q block", WelcomeTemplate, name)
		}
	}

	return &Template{welcome: t}, nil
}

// RenderWelcome executes the welcome blocks for data. The subject is trimmed so it can be used
// as a header.
func (tp *Template) RenderWelcome(data WelcomeData) (*Message, error) {
	var msg Message

	parts := map[string]*string{
		"subject":   &msg.Subject,
		"plainBody": &msg.PlainBody,
		"htmlBody":  &msg.HTMLBody,
	}

	var buf bytes.Buffer
	for name, dst := range parts {
		buf.Reset()

		err := tp.welcome.ExecuteTemplate(&buf, name, data)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", name, err)
		}

		*dst = buf.String()
	}

	msg.Subject = strings.TrimSpace(msg.Subject)

	return &msg, nil
}
