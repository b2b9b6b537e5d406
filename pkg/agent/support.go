package agent

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/tripweaver/tripweaver/pkg/adapter"
	"github.com/tripweaver/tripweaver/pkg/model"
)

//go:embed prompt/support.md
var supportPromptRaw string

var supportPromptTmpl = template.Must(template.New("support").Parse(supportPromptRaw))

// SupportAgent answers real-time questions about an ongoing trip. It is
// independent of the planning pipeline.
type SupportAgent struct {
	base
}

func NewSupportAgent(gw adapter.Gateway, opts ...Option) (*SupportAgent, error) {
	b, err := newBase(RoleSupport, gw, opts)
	if err != nil {
		return nil, err
	}
	return &SupportAgent{base: b}, nil
}

func (a *SupportAgent) Role() Role { return RoleSupport }

func (a *SupportAgent) ProcessTask(ctx context.Context, task *Task) (*Result, error) {
	var responseText string

	if a.demo {
		responseText = fallbackSupportResponse(task.Message)
	} else {
		contextStr := "No specific trip context provided."
		if task.Context != nil {
			data, err := json.MarshalIndent(task.Context, "", "  ")
			if err == nil {
				contextStr = string(data)
			}
		}

		prompt, err := a.render(supportPromptTmpl, map[string]any{
			"Message": task.Message,
			"Context": contextStr,
			"History": renderHistory(task.History),
		})
		if err != nil {
			return nil, err
		}

		resp, err := a.gateway.Generate(ctx, &adapter.GenerateRequest{
			Prompt:      prompt,
			Temperature: 0.6,
		})
		if err != nil {
			return nil, err
		}
		responseText = resp.Text
	}

	return &Result{
		ResponseText: responseText,
		Action:       deriveAction(task.Message, responseText),
		RawText:      responseText,
	}, nil
}

func renderHistory(turns []model.ChatTurn) string {
	var sb strings.Builder
	for _, t := range turns {
		fmt.Fprintf(&sb, "%s: %s\n", t.Role, t.Text)
	}
	return strings.TrimSpace(sb.String())
}

// deriveAction inspects both the user message and the model response for
// action keywords. Rebooking wins over escalation, escalation over
// cancellation. The tag is advisory only.
func deriveAction(userMessage, response string) Action {
	msg := strings.ToLower(userMessage)
	resp := strings.ToLower(response)

	switch {
	case strings.Contains(resp, "rebooking") || strings.Contains(msg, "change my booking"):
		return ActionSimulatedRebooking
	case strings.Contains(resp, "contact support") || strings.Contains(resp, "escalat") ||
		strings.Contains(msg, "escalate") || strings.Contains(msg, "contact support"):
		return ActionSimulatedEscalation
	case strings.Contains(resp, "cancel") || strings.Contains(msg, "cancel"):
		return ActionSimulatedCancel
	default:
		return ActionInformationProvided
	}
}
