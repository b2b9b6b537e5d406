package agent_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/tripweaver/tripweaver/pkg/agent"
	"github.com/tripweaver/tripweaver/pkg/model"
)

func TestSupportCancellation(t *testing.T) {
	a, err := agent.NewSupportAgent(nil, agent.InDemoMode())
	gt.NoError(t, err)

	result, err := a.ProcessTask(context.Background(), &agent.Task{
		Message: "I need to cancel my trip",
	})
	gt.NoError(t, err)

	gt.Equal(t, result.Action, agent.ActionSimulatedCancel)
	gt.S(t, result.ResponseText).Contains("simulated cancellation")
}

func TestSupportRebooking(t *testing.T) {
	a, err := agent.NewSupportAgent(nil, agent.InDemoMode())
	gt.NoError(t, err)

	result, err := a.ProcessTask(context.Background(), &agent.Task{
		Message: "I want to change my booking to next week",
	})
	gt.NoError(t, err)

	gt.Equal(t, result.Action, agent.ActionSimulatedRebooking)
}

func TestSupportEscalation(t *testing.T) {
	a, err := agent.NewSupportAgent(nil, agent.InDemoMode())
	gt.NoError(t, err)

	result, err := a.ProcessTask(context.Background(), &agent.Task{
		Message: "Please escalate this to a human",
	})
	gt.NoError(t, err)

	gt.Equal(t, result.Action, agent.ActionSimulatedEscalation)
}

func TestSupportRebookingWinsOverCancellation(t *testing.T) {
	a, err := agent.NewSupportAgent(nil, agent.InDemoMode())
	gt.NoError(t, err)

	result, err := a.ProcessTask(context.Background(), &agent.Task{
		Message: "Should I change my booking or cancel it?",
	})
	gt.NoError(t, err)

	gt.Equal(t, result.Action, agent.ActionSimulatedRebooking)
}

func TestSupportInformation(t *testing.T) {
	a, err := agent.NewSupportAgent(nil, agent.InDemoMode())
	gt.NoError(t, err)

	result, err := a.ProcessTask(context.Background(), &agent.Task{
		Message: "What's the weather like there?",
	})
	gt.NoError(t, err)

	gt.Equal(t, result.Action, agent.ActionInformationProvided)
	gt.S(t, result.ResponseText).Contains("weather")
}

func TestSupportLiveUsesContextAndHistory(t *testing.T) {
	gw := &mockGateway{responses: []string{
		"Your hotel is the Le Marais boutique, check-in from 15:00.",
	}}
	a, err := agent.NewSupportAgent(gw)
	gt.NoError(t, err)

	result, err := a.ProcessTask(context.Background(), &agent.Task{
		Message: "Which hotel am I staying at?",
		Context: &agent.TripContext{
			Recommendations: &model.Recommendations{
				Destination:    "Paris",
				Accommodations: []string{"Le Marais boutique hotels ($$$)"},
			},
		},
		History: []model.ChatTurn{
			{Role: model.RoleUser, Text: "hi"},
			{Role: model.RoleModel, Text: "hello, how can I help?"},
		},
	})
	gt.NoError(t, err)

	gt.Equal(t, result.Action, agent.ActionInformationProvided)
	gt.Equal(t, gw.calls(), 1)
	gt.Equal(t, gw.requests[0].Temperature, float32(0.6))

	prompt := gw.requests[0].Prompt
	gt.S(t, prompt).Contains("Which hotel am I staying at?")
	gt.S(t, prompt).Contains("Le Marais boutique hotels")
	gt.S(t, prompt).Contains("user: hi")
}

func TestSupportActionFromModelResponse(t *testing.T) {
	// The model's own wording can trigger the action tag even when the
	// user message does not.
	gw := &mockGateway{responses: []string{
		"I have started a simulated rebooking for your flight.",
	}}
	a, err := agent.NewSupportAgent(gw)
	gt.NoError(t, err)

	result, err := a.ProcessTask(context.Background(), &agent.Task{
		Message: "My flight got moved, help",
	})
	gt.NoError(t, err)

	gt.Equal(t, result.Action, agent.ActionSimulatedRebooking)
}
