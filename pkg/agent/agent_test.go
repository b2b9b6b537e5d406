package agent_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/tripweaver/tripweaver/pkg/adapter"
	"github.com/tripweaver/tripweaver/pkg/agent"
)

// mockGateway returns queued responses and records every request it saw
type mockGateway struct {
	responses []string
	err       error
	requests  []*adapter.GenerateRequest
}

func (m *mockGateway) Generate(ctx context.Context, req *adapter.GenerateRequest) (*adapter.GenerateResponse, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}

	text := ""
	if len(m.responses) > 0 {
		text = m.responses[0]
		m.responses = m.responses[1:]
	}
	return &adapter.GenerateResponse{Text: text, Attempts: 1}, nil
}

func (m *mockGateway) calls() int { return len(m.requests) }

func TestAgentRequiresGatewayOutsideDemo(t *testing.T) {
	_, err := agent.NewPreferenceAgent(nil)
	gt.True(t, errors.Is(err, agent.ErrConfiguration))

	_, err = agent.NewSearchAgent(nil)
	gt.True(t, errors.Is(err, agent.ErrConfiguration))

	_, err = agent.NewItineraryAgent(nil)
	gt.True(t, errors.Is(err, agent.ErrConfiguration))

	_, err = agent.NewSupportAgent(nil)
	gt.True(t, errors.Is(err, agent.ErrConfiguration))
}

func TestDemoAgentNeedsNoGateway(t *testing.T) {
	a, err := agent.NewSearchAgent(nil, agent.InDemoMode())
	gt.NoError(t, err)

	result, err := a.ProcessTask(context.Background(), &agent.Task{Destination: "Paris"})
	gt.NoError(t, err)
	gt.True(t, result.Recommendations != nil)
}
