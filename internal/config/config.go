package config

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed prompt.yaml
var defaultPrompt []byte

// Prompt describes the chat-completion request sent for every submission.
type Prompt struct {
	Model        string `yaml:"model"`
	System       string `yaml:"system"`
	UserTemplate string `yaml:"user_template"`

	tpl *template.Template
}

// PromptVars are the values interpolated into the user template.
type PromptVars struct {
	Self      string
	Recipient string
}

// LoadPrompt reads a prompt definition. An empty path selects the embedded default.
func LoadPrompt(path string) (*Prompt, error) {
	data := defaultPrompt
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading prompt file: %w", err)
		}
		data = b
	}
	return ParsePrompt(data)
}

func ParsePrompt(data []byte) (*Prompt, error) {
	var p Prompt
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing prompt: %w", err)
	}
	switch {
	case p.Model == "":
		return nil, fmt.Errorf("prompt: model is required")
	case p.System == "":
		return nil, fmt.Errorf("prompt: system is required")
	case p.UserTemplate == "":
		return nil, fmt.Errorf("prompt: user_template is required")
	}

	tpl, err := template.New("user").Option("missingkey=error").Parse(p.UserTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing user_template: %w", err)
	}
	// fields desconocidos solo fallan al ejecutar
	if err := tpl.Execute(io.Discard, PromptVars{}); err != nil {
		return nil, fmt.Errorf("checking user_template: %w", err)
	}
	p.tpl = tpl
	return &p, nil
}

// RenderUser interpolates self and recipient into the user template.
func (p *Prompt) RenderUser(vars PromptVars) (string, error) {
	var out strings.Builder
	if err := p.tpl.Execute(&out, vars); err != nil {
		return "", fmt.Errorf("rendering user_template: %w", err)
	}
	return out.String(), nil
}
