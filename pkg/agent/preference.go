package agent

import (
	"context"
	_ "embed"
	"encoding/json"
	"text/template"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/tripweaver/tripweaver/pkg/adapter"
	"github.com/tripweaver/tripweaver/pkg/model"
	"github.com/tripweaver/tripweaver/pkg/utils/logging"
)

//go:embed prompt/preference.md
var preferencePromptRaw string

var preferencePromptTmpl = template.Must(
	template.New("preference").Parse(preferencePromptRaw))

// preferenceSchema binds the extraction call to the Preferences shape. No
// field is required; the model omits what the user did not mention.
var preferenceSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"destination":        {Type: "string", Description: "Desired travel destination"},
		"start_date":         {Type: "string", Description: "Trip start date (YYYY-MM-DD)"},
		"end_date":           {Type: "string", Description: "Trip end date (YYYY-MM-DD)"},
		"duration":           {Type: "integer", Description: "Trip length in days"},
		"budget":             {Type: "number", Description: "Approximate total budget"},
		"interests":          {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
		"travel_style":       {Type: "string", Description: "Preferred travel style"},
		"accommodation_type": {Type: "string", Description: "Preferred accommodation type"},
		"dietary_restrictions": {
			Type: "array", Items: &jsonschema.Schema{Type: "string"},
		},
		"special_requirements": {
			Type: "array", Items: &jsonschema.Schema{Type: "string"},
		},
		"additional_notes": {Type: "string"},
	},
}

// PreferenceAgent extracts structured travel preferences from free text
type PreferenceAgent struct {
	base
}

func NewPreferenceAgent(gw adapter.Gateway, opts ...Option) (*PreferenceAgent, error) {
	b, err := newBase(RolePreference, gw, opts)
	if err != nil {
		return nil, err
	}
	return &PreferenceAgent{base: b}, nil
}

func (a *PreferenceAgent) Role() Role { return RolePreference }

// ProcessTask extracts preferences from task.UserInput. A response that
// cannot be parsed degrades to an empty record with the raw text preserved
// in AdditionalNotes; extraction never hard-fails on parse problems so the
// pipeline can continue.
func (a *PreferenceAgent) ProcessTask(ctx context.Context, task *Task) (*Result, error) {
	if a.demo {
		prefs := fallbackPreferences(task.UserInput)
		return &Result{Preferences: prefs, RawText: task.UserInput}, nil
	}

	prompt, err := a.render(preferencePromptTmpl, map[string]any{
		"UserInput": task.UserInput,
	})
	if err != nil {
		return nil, err
	}

	resp, err := a.gateway.Generate(ctx, &adapter.GenerateRequest{
		Prompt:       prompt,
		Temperature:  0.2,
		OutputSchema: preferenceSchema,
	})
	if err != nil {
		return nil, err
	}

	var prefs model.Preferences
	if err := json.Unmarshal([]byte(stripFences(resp.Text)), &prefs); err != nil {
		logging.From(ctx).Warn("preference extraction degraded",
			"error", err, "raw_len", len(resp.Text))
		return &Result{
			Preferences: &model.Preferences{AdditionalNotes: resp.Text},
			RawText:     resp.Text,
			Degraded:    true,
		}, nil
	}

	return &Result{Preferences: &prefs, RawText: resp.Text}, nil
}
