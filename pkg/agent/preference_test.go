package agent_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/tripweaver/tripweaver/pkg/agent"
)

func TestPreferenceExtraction(t *testing.T) {
	gw := &mockGateway{responses: []string{
		`{"destination": "Paris", "duration": 5, "interests": ["museums", "food"], "travel_style": "romantic"}`,
	}}
	a, err := agent.NewPreferenceAgent(gw)
	gt.NoError(t, err)

	result, err := a.ProcessTask(context.Background(), &agent.Task{
		UserInput: "5 romantic days in Paris, we love museums and food",
	})
	gt.NoError(t, err)

	gt.False(t, result.Degraded)
	gt.Equal(t, *result.Preferences.Destination, "Paris")
	gt.Equal(t, *result.Preferences.Duration, 5)
	gt.Equal(t, result.Preferences.Interests, []string{"museums", "food"})
	gt.Equal(t, *result.Preferences.TravelStyle, "romantic")

	gt.Equal(t, gw.calls(), 1)
	gt.Equal(t, gw.requests[0].Temperature, float32(0.2))
	gt.True(t, gw.requests[0].OutputSchema != nil)
}

func TestPreferenceExtractionFencedJSON(t *testing.T) {
	gw := &mockGateway{responses: []string{
		"```json\n{\"destination\": \"Oslo\"}\n```",
	}}
	a, err := agent.NewPreferenceAgent(gw)
	gt.NoError(t, err)

	result, err := a.ProcessTask(context.Background(), &agent.Task{UserInput: "Oslo trip"})
	gt.NoError(t, err)
	gt.False(t, result.Degraded)
	gt.Equal(t, *result.Preferences.Destination, "Oslo")
}

func TestPreferenceExtractionDegradesOnBadOutput(t *testing.T) {
	gw := &mockGateway{responses: []string{
		"Sure! The user seems to want a beach holiday.",
	}}
	a, err := agent.NewPreferenceAgent(gw)
	gt.NoError(t, err)

	result, err := a.ProcessTask(context.Background(), &agent.Task{
		UserInput: "beach holiday please",
	})
	gt.NoError(t, err)

	gt.True(t, result.Degraded)
	gt.True(t, result.Preferences != nil)
	gt.S(t, result.Preferences.AdditionalNotes).Contains("beach holiday")
}

func TestPreferenceDemoFallback(t *testing.T) {
	a, err := agent.NewPreferenceAgent(nil, agent.InDemoMode())
	gt.NoError(t, err)

	result, err := a.ProcessTask(context.Background(), &agent.Task{
		UserInput: "I love museums and vegetarian food, on a budget",
	})
	gt.NoError(t, err)

	gt.A(t, result.Preferences.Interests).Has("museums")
	gt.A(t, result.Preferences.Interests).Has("food")
	gt.Equal(t, result.Preferences.DietaryRestrictions, []string{"vegetarian"})
	gt.Equal(t, *result.Preferences.TravelStyle, "budget")
}
