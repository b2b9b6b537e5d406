package agent

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/tripweaver/tripweaver/pkg/adapter"
)

// base carries what every agent variant shares: the gateway, the persona,
// and the process-wide demo switch. In demo mode no agent may touch the
// gateway; mixed mode is rejected at construction.
type base struct {
	gateway adapter.Gateway
	persona Persona
	demo    bool
}

// Option configures an agent at construction time
type Option func(*base)

// WithPersona overrides the agent's default persona
func WithPersona(p Persona) Option {
	return func(b *base) {
		b.persona = p
	}
}

// InDemoMode makes the agent use its deterministic fallback path instead
// of the gateway
func InDemoMode() Option {
	return func(b *base) {
		b.demo = true
	}
}

func newBase(role Role, gw adapter.Gateway, opts []Option) (base, error) {
	b := base{
		gateway: gw,
		persona: DefaultPersonas()[role],
	}
	for _, opt := range opts {
		opt(&b)
	}

	if !b.demo && b.gateway == nil {
		return base{}, goerr.Wrap(ErrConfiguration, "cannot build agent", goerr.V("role", role))
	}
	return b, nil
}

func (b *base) render(tmpl *template.Template, data map[string]any) (string, error) {
	data["Guidance"] = b.persona.Guidance

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to execute prompt template",
			goerr.V("template", tmpl.Name()))
	}
	return buf.String(), nil
}

// stripFences removes a surrounding markdown code fence if present
// (e.g. ```json ... ```)
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
