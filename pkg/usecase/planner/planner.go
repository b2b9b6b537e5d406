package planner

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/tripweaver/tripweaver/pkg/agent"
	"github.com/tripweaver/tripweaver/pkg/model"
	"github.com/tripweaver/tripweaver/pkg/repository"
	"github.com/tripweaver/tripweaver/pkg/utils/logging"
)

var (
	// ErrValidation marks input rejected before any agent runs
	ErrValidation = goerr.New("invalid planning input")

	// ErrPipeline marks an aborted planning run. The wrap message is safe to
	// show to the user; the failing stage travels as a goerr value.
	ErrPipeline = goerr.New("planning pipeline aborted")
)

// Stage names a position in the planning flow, attached to logs and abort
// errors
type Stage string

const (
	StageStart           Stage = "start"
	StagePreferences     Stage = "preferences_extracted"
	StageRecommendations Stage = "recommendations_obtained"
	StageItinerary       Stage = "itinerary_built"
	StageDone            Stage = "done"
)

// PlanInput is the validated entry to a planning run. Destination and
// Duration are mandatory; the rest refine the request.
type PlanInput struct {
	Destination string
	Duration    int
	UserInput   string
	StartDate   string
	Budget      *float64

	// Extra carries caller-supplied preference overrides. They win over
	// anything the extraction stage produces.
	Extra *model.Preferences

	// SessionID, when set, has the completed plan snapshotted into the
	// session store.
	SessionID model.SessionID
}

const (
	minDestinationLen = 2
	maxDestinationLen = 200
	maxDuration       = 365
	maxBudget         = 1e9
)

// Validate checks the input bounds. It runs before any agent is invoked so
// a bad request never consumes model quota.
func (x *PlanInput) Validate() error {
	dest := strings.TrimSpace(x.Destination)
	if dest == "" {
		return goerr.Wrap(ErrValidation, "destination is required")
	}
	if n := utf8.RuneCountInString(dest); n < minDestinationLen || n > maxDestinationLen {
		return goerr.Wrap(ErrValidation, "destination length out of range",
			goerr.V("destination", dest), goerr.V("length", n))
	}
	if x.Duration < 1 || x.Duration > maxDuration {
		return goerr.Wrap(ErrValidation, "duration must be between 1 and 365 days",
			goerr.V("duration", x.Duration))
	}
	if x.Budget != nil && (*x.Budget < 0 || *x.Budget > maxBudget) {
		return goerr.Wrap(ErrValidation, "budget out of range",
			goerr.V("budget", *x.Budget))
	}
	return nil
}

// Planner drives the preference, search, and itinerary agents through the
// registry and assembles the result into a TripPlan
type Planner struct {
	registry *agent.Registry
	store    *repository.Store
}

type Option func(*Planner)

// WithStore enables session snapshotting for inputs that carry a session id
func WithStore(store *repository.Store) Option {
	return func(p *Planner) {
		p.store = store
	}
}

func New(registry *agent.Registry, opts ...Option) *Planner {
	p := &Planner{registry: registry}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan runs the full pipeline. Preference extraction failure downgrades to
// the caller-supplied preferences with a warning; search or itinerary
// failure aborts the run with nothing partial returned.
func (p *Planner) Plan(ctx context.Context, input *PlanInput) (*model.TripPlan, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	logger := logging.From(ctx).With(
		"destination", input.Destination, "duration", input.Duration)
	logger.Info("planning started", "stage", StageStart)

	var warnings []string

	prefs, warn := p.extractPreferences(ctx, input)
	warnings = append(warnings, warn...)
	logger.Debug("stage complete", "stage", StagePreferences)

	recs, warn, err := p.searchRecommendations(ctx, input, prefs)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, warn...)
	logger.Debug("stage complete", "stage", StageRecommendations)

	itinerary, warn, err := p.buildItinerary(ctx, input, prefs, recs)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, warn...)
	logger.Debug("stage complete", "stage", StageItinerary)

	plan := &model.TripPlan{
		Destination:     input.Destination,
		Duration:        input.Duration,
		Preferences:     prefs,
		Recommendations: recs,
		Itinerary:       itinerary,
		Warnings:        warnings,
	}

	if input.SessionID != "" && p.store != nil {
		if err := p.snapshot(ctx, input.SessionID, plan); err != nil {
			logger.Warn("failed to snapshot plan into session",
				"session_id", input.SessionID, "error", err)
			plan.Warnings = append(plan.Warnings,
				"the plan could not be saved to your session")
		}
	}

	logger.Info("planning finished",
		"stage", StageDone, "days", len(itinerary.Days), "warnings", len(plan.Warnings))
	return plan, nil
}

// extractPreferences never aborts the pipeline: a hard extraction failure
// falls back to what the caller supplied explicitly.
func (p *Planner) extractPreferences(ctx context.Context, input *PlanInput) (model.Preferences, []string) {
	var warnings []string

	base := model.Preferences{}
	result, err := p.registry.Dispatch(ctx, agent.NamePreference, &agent.Task{
		UserInput: input.UserInput,
	})
	switch {
	case err != nil:
		logging.From(ctx).Warn("preference extraction failed, continuing without it",
			"error", err)
		warnings = append(warnings,
			"preference extraction failed; planning continued with the details you provided")
	case result.Preferences != nil:
		base = *result.Preferences
		if result.Degraded {
			warnings = append(warnings,
				"preference extraction was only partially understood")
		}
	}

	prefs := base.Merge(input.Extra)

	// Explicit request fields are authoritative over extracted ones.
	prefs.Destination = model.Ptr(input.Destination)
	prefs.Duration = model.Ptr(input.Duration)
	if input.StartDate != "" {
		prefs.StartDate = model.Ptr(input.StartDate)
	}
	if input.Budget != nil {
		prefs.Budget = input.Budget
	}
	return prefs, warnings
}

func (p *Planner) searchRecommendations(ctx context.Context, input *PlanInput, prefs model.Preferences) (*model.Recommendations, []string, error) {
	result, err := p.registry.Dispatch(ctx, agent.NameSearch, &agent.Task{
		Destination: input.Destination,
		Preferences: prefs,
		Duration:    input.Duration,
		Budget:      input.Budget,
	})
	if err != nil {
		return nil, nil, goerr.Wrap(ErrPipeline,
			fmt.Sprintf("could not obtain recommendations for %s", input.Destination),
			goerr.V("stage", StageRecommendations), goerr.V("cause", err))
	}
	if result.Recommendations == nil {
		return nil, nil, goerr.Wrap(ErrPipeline,
			fmt.Sprintf("could not obtain recommendations for %s", input.Destination),
			goerr.V("stage", StageRecommendations))
	}

	var warnings []string
	if result.Degraded {
		warnings = append(warnings,
			"recommendations could not be fully structured; showing raw suggestions")
	}
	return result.Recommendations, warnings, nil
}

func (p *Planner) buildItinerary(ctx context.Context, input *PlanInput, prefs model.Preferences, recs *model.Recommendations) (*model.Itinerary, []string, error) {
	result, err := p.registry.Dispatch(ctx, agent.NameItinerary, &agent.Task{
		Destination:     input.Destination,
		Preferences:     prefs,
		Duration:        input.Duration,
		StartDate:       input.StartDate,
		Recommendations: recs,
	})
	if err != nil {
		return nil, nil, goerr.Wrap(ErrPipeline,
			"could not build the itinerary",
			goerr.V("stage", StageItinerary), goerr.V("cause", err))
	}
	if result.Itinerary == nil {
		return nil, nil, goerr.Wrap(ErrPipeline,
			"could not build the itinerary", goerr.V("stage", StageItinerary))
	}

	var warnings []string
	if result.Degraded {
		warnings = append(warnings,
			"the itinerary could not be fully structured; day entries may be sparse")
	}
	return result.Itinerary, warnings, nil
}

func (p *Planner) snapshot(ctx context.Context, id model.SessionID, plan *model.TripPlan) error {
	prefs := plan.Preferences
	if err := p.store.Update(ctx, id, repository.FieldPreferences, &prefs); err != nil {
		return err
	}
	if err := p.store.Update(ctx, id, repository.FieldRecommendations, plan.Recommendations); err != nil {
		return err
	}
	return p.store.Update(ctx, id, repository.FieldItinerary, plan.Itinerary)
}
