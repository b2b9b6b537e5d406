package model

// TripPlan is the combined result of a completed planning pipeline
type TripPlan struct {
	Destination     string           `json:"destination"`
	Duration        int              `json:"duration"`
	Preferences     Preferences      `json:"preferences"`
	Recommendations *Recommendations `json:"recommendations"`
	Itinerary       *Itinerary       `json:"itinerary"`

	// Warnings carries parse-degradation annotations. The plan is still a
	// success; the UI may decide to show raw text instead of structured
	// fields.
	Warnings []string `json:"warnings,omitempty"`
}
