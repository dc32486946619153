package dispatch

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed responses.yaml
var responsesYAML []byte

var defaultTemplates = mustParseTemplates(responsesYAML)

// Data is the value reply templates are rendered with.
type Data struct {
	Budget  int
	Message string
}

// Templates maps a reply key to its parsed template.
type Templates map[string]*template.Template

// ParseTemplates reads a YAML document of key: template pairs.
func ParseTemplates(raw []byte) (Templates, error) {
	var texts map[string]string
	if err := yaml.Unmarshal(raw, &texts); err != nil {
		return nil, fmt.Errorf("decode reply templates: %w", err)
	}

	out := make(Templates, len(texts))
	for key, text := range texts {
		tmpl, err := template.New(key).Option("missingkey=zero").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("parse reply template %q: %w", key, err)
		}
		out[key] = tmpl
	}
	return out, nil
}

// DefaultTemplates returns the built-in reply templates.
func DefaultTemplates() Templates {
	return defaultTemplates
}

// Render executes the template for key. Missing templates and execution
// failures render as an empty string.
func (t Templates) Render(key string, d Data) string {
	tmpl, ok := t[key]
	if !ok {
		return ""
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, d); err != nil {
		return ""
	}
	return strings.TrimSpace(b.String())
}

func mustParseTemplates(raw []byte) Templates {
	t, err := ParseTemplates(raw)
	if err != nil {
		panic(err)
	}
	return t
}
