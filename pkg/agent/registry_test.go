package agent_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/tripweaver/tripweaver/pkg/adapter"
	"github.com/tripweaver/tripweaver/pkg/agent"
)

type stubAgent struct {
	role   agent.Role
	result *agent.Result
	err    error
	calls  int
}

func (s *stubAgent) Role() agent.Role { return s.role }

func (s *stubAgent) ProcessTask(ctx context.Context, task *agent.Task) (*agent.Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func TestRegistryRegisterDuplicate(t *testing.T) {
	registry := agent.NewRegistry()
	first := &stubAgent{role: agent.RoleSearch}
	second := &stubAgent{role: agent.RoleSupport}

	gt.NoError(t, registry.Register("worker", first))

	err := registry.Register("worker", second)
	gt.True(t, errors.Is(err, agent.ErrDuplicateName))

	// First registration survives
	got, err := registry.Lookup("worker")
	gt.NoError(t, err)
	gt.Equal(t, got.Role(), agent.RoleSearch)
}

func TestRegistryLookupNotFound(t *testing.T) {
	registry := agent.NewRegistry()

	_, err := registry.Lookup("nobody")
	gt.True(t, errors.Is(err, agent.ErrAgentNotFound))
}

func TestRegistryLookupByRoleOrder(t *testing.T) {
	registry := agent.NewRegistry()
	a := &stubAgent{role: agent.RoleSearch}
	b := &stubAgent{role: agent.RoleSupport}
	c := &stubAgent{role: agent.RoleSearch}

	gt.NoError(t, registry.Register("alpha", a))
	gt.NoError(t, registry.Register("beta", b))
	gt.NoError(t, registry.Register("gamma", c))

	found := registry.LookupByRole(agent.RoleSearch)
	gt.Equal(t, len(found), 2)
	gt.Equal(t, found[0], agent.Agent(a))
	gt.Equal(t, found[1], agent.Agent(c))

	gt.Equal(t, len(registry.LookupByRole(agent.RoleItinerary)), 0)
}

func TestRegistryList(t *testing.T) {
	registry := agent.NewRegistry()
	gt.NoError(t, registry.Register("alpha", &stubAgent{role: agent.RoleSearch}))
	gt.NoError(t, registry.Register("beta", &stubAgent{role: agent.RoleSupport}))

	list := registry.List()
	gt.Equal(t, len(list), 2)
	gt.Equal(t, list["alpha"], agent.RoleSearch)
	gt.Equal(t, list["beta"], agent.RoleSupport)
}

func TestRegistryDispatch(t *testing.T) {
	registry := agent.NewRegistry()
	stub := &stubAgent{
		role:   agent.RoleSupport,
		result: &agent.Result{ResponseText: "ok"},
	}
	gt.NoError(t, registry.Register("helper", stub))

	result, err := registry.Dispatch(context.Background(), "helper", &agent.Task{})
	gt.NoError(t, err)
	gt.Equal(t, result.ResponseText, "ok")
	gt.Equal(t, stub.calls, 1)
}

func TestRegistryDispatchWrapsFailure(t *testing.T) {
	registry := agent.NewRegistry()
	stub := &stubAgent{
		role: agent.RoleSearch,
		err:  goerr.New("backend down"),
	}
	gt.NoError(t, registry.Register("broken", stub))

	_, err := registry.Dispatch(context.Background(), "broken", &agent.Task{})
	gt.True(t, errors.Is(err, agent.ErrAgentExecution))
}

func TestRegistryDispatchKeepsCauseChain(t *testing.T) {
	registry := agent.NewRegistry()
	stub := &stubAgent{
		role: agent.RoleSearch,
		err:  goerr.Wrap(adapter.ErrTransientUnavailable, "search backend"),
	}
	gt.NoError(t, registry.Register("flaky", stub))

	_, err := registry.Dispatch(context.Background(), "flaky", &agent.Task{})
	gt.True(t, errors.Is(err, agent.ErrAgentExecution))
	// The gateway failure kind stays reachable through the dispatch wrapper
	gt.True(t, errors.Is(err, adapter.ErrTransientUnavailable))
}

func TestRegistryDispatchUnknownName(t *testing.T) {
	registry := agent.NewRegistry()

	_, err := registry.Dispatch(context.Background(), "ghost", &agent.Task{})
	gt.True(t, errors.Is(err, agent.ErrAgentNotFound))
}
