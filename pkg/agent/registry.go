package agent

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/tripweaver/tripweaver/pkg/utils/logging"
)

var (
	ErrDuplicateName  = goerr.New("agent name already registered")
	ErrAgentNotFound  = goerr.New("agent not found")
	ErrAgentExecution = goerr.New("agent execution failed", goerr.ID("agent_execution"))
)

// Canonical registration names for the built-in agents
const (
	NamePreference = "preference_extractor"
	NameSearch     = "travel_search"
	NameItinerary  = "itinerary_generator"
	NameSupport    = "trip_support"
)

// Registry holds named agent instances and dispatches tasks to them. It is
// a pure dispatch layer: task contents pass through uninterpreted.
type Registry struct {
	agents map[string]Agent
	order  []string
}

// NewRegistry creates an empty agent registry
func NewRegistry() *Registry {
	return &Registry{
		agents: make(map[string]Agent),
	}
}

// Register stores the agent under name. Re-registration of an existing name
// is rejected and the first registration is preserved.
func (r *Registry) Register(name string, a Agent) error {
	if _, ok := r.agents[name]; ok {
		return goerr.Wrap(ErrDuplicateName, "register", goerr.V("name", name))
	}
	r.agents[name] = a
	r.order = append(r.order, name)
	return nil
}

// Lookup resolves an agent by name
func (r *Registry) Lookup(name string) (Agent, error) {
	a, ok := r.agents[name]
	if !ok {
		return nil, goerr.Wrap(ErrAgentNotFound, "lookup", goerr.V("name", name))
	}
	return a, nil
}

// LookupByRole returns all agents with the given role in registration order
func (r *Registry) LookupByRole(role Role) []Agent {
	var out []Agent
	for _, name := range r.order {
		if a := r.agents[name]; a.Role() == role {
			out = append(out, a)
		}
	}
	return out
}

// List returns a name-to-role map of all registered agents
func (r *Registry) List() map[string]Role {
	out := make(map[string]Role, len(r.agents))
	for name, a := range r.agents {
		out[name] = a.Role()
	}
	return out
}

// Dispatch resolves name and invokes the agent's task processing. The
// agent's own failure is wrapped as ErrAgentExecution; results pass through
// unchanged on success.
func (r *Registry) Dispatch(ctx context.Context, name string, task *Task) (*Result, error) {
	a, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}

	logging.From(ctx).Debug("dispatching task", "agent", name, "role", a.Role())

	result, err := a.ProcessTask(ctx, task)
	if err != nil {
		return nil, ErrAgentExecution.Wrap(err,
			goerr.V("name", name), goerr.V("role", a.Role()))
	}
	return result, nil
}
