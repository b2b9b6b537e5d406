package agent

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/tripweaver/tripweaver/pkg/model"
)

// ErrConfiguration marks a wiring mistake: an agent was built without model
// access while demo mode is off. Surfaced before any task is processed.
var ErrConfiguration = goerr.New("no model access and demo mode not enabled")

// Role identifies an agent's position in the planning flow. The set is
// closed: dispatch is a polymorphic call over these four variants.
type Role string

const (
	RolePreference Role = "preference"
	RoleSearch     Role = "search"
	RoleItinerary  Role = "itinerary"
	RoleSupport    Role = "support"
)

// Action is the advisory tag derived by the support agent. No real booking
// or escalation system is invoked; the tag only lets the UI branch its
// presentation.
type Action string

const (
	ActionInformationProvided Action = "information_provided"
	ActionSimulatedRebooking  Action = "simulated_rebooking"
	ActionSimulatedEscalation Action = "simulated_escalation"
	ActionSimulatedCancel     Action = "simulated_cancellation"
)

// TripContext is the trip state handed to the support agent for one call
type TripContext struct {
	Preferences     *model.Preferences     `json:"preferences,omitempty"`
	Recommendations *model.Recommendations `json:"recommendations,omitempty"`
	Itinerary       *model.Itinerary       `json:"itinerary,omitempty"`
}

// Task is the dispatch envelope. Each agent reads the fields its role
// needs and ignores the rest; the registry never interprets the contents.
type Task struct {
	// Preference extraction
	UserInput string
	Extra     *model.Preferences

	// Search and itinerary
	Destination     string
	Preferences     model.Preferences
	Duration        int
	StartDate       string
	Budget          *float64
	Recommendations *model.Recommendations

	// Support
	Message string
	Context *TripContext
	History []model.ChatTurn
}

// Result is the union of agent outputs. RawText always retains the
// unparsed model response for audit.
type Result struct {
	Preferences     *model.Preferences
	Recommendations *model.Recommendations
	Itinerary       *model.Itinerary
	ResponseText    string
	Action          Action
	RawText         string

	// Degraded marks a parse degradation: the transport call succeeded but
	// the response could not be fully structured. Never an error.
	Degraded bool
}

// Agent is the task-processor contract every variant implements
type Agent interface {
	Role() Role
	ProcessTask(ctx context.Context, task *Task) (*Result, error)
}
