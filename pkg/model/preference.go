package model

import (
	"fmt"
	"sort"
	"strings"
)

// Preferences holds extracted travel preferences. Scalar fields use
// pointers and set fields use nil slices so that "never asked" stays
// distinguishable from "asked, none apply".
type Preferences struct {
	Destination         *string  `json:"destination,omitempty"`
	StartDate           *string  `json:"start_date,omitempty"`
	EndDate             *string  `json:"end_date,omitempty"`
	Duration            *int     `json:"duration,omitempty"`
	Budget              *float64 `json:"budget,omitempty"`
	Interests           []string `json:"interests,omitempty"`
	TravelStyle         *string  `json:"travel_style,omitempty"`
	AccommodationType   *string  `json:"accommodation_type,omitempty"`
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
	SpecialRequirements []string `json:"special_requirements,omitempty"`
	AdditionalNotes     string   `json:"additional_notes,omitempty"`
}

// Merge overlays override onto p and returns the result. Fields set in
// override always win; unset override fields keep p's value. Merging the
// same override twice yields the same result as merging once.
func (p Preferences) Merge(override *Preferences) Preferences {
	if override == nil {
		return p
	}

	out := p
	if override.Destination != nil {
		out.Destination = override.Destination
	}
	if override.StartDate != nil {
		out.StartDate = override.StartDate
	}
	if override.EndDate != nil {
		out.EndDate = override.EndDate
	}
	if override.Duration != nil {
		out.Duration = override.Duration
	}
	if override.Budget != nil {
		out.Budget = override.Budget
	}
	if override.Interests != nil {
		out.Interests = override.Interests
	}
	if override.TravelStyle != nil {
		out.TravelStyle = override.TravelStyle
	}
	if override.AccommodationType != nil {
		out.AccommodationType = override.AccommodationType
	}
	if override.DietaryRestrictions != nil {
		out.DietaryRestrictions = override.DietaryRestrictions
	}
	if override.SpecialRequirements != nil {
		out.SpecialRequirements = override.SpecialRequirements
	}
	if override.AdditionalNotes != "" {
		out.AdditionalNotes = override.AdditionalNotes
	}
	return out
}

// IsEmpty reports whether no preference field has been set
func (p Preferences) IsEmpty() bool {
	return p.Destination == nil && p.StartDate == nil && p.EndDate == nil &&
		p.Duration == nil && p.Budget == nil && p.Interests == nil &&
		p.TravelStyle == nil && p.AccommodationType == nil &&
		p.DietaryRestrictions == nil && p.SpecialRequirements == nil &&
		p.AdditionalNotes == ""
}

// Describe renders the set fields as "key: value" lines for prompt
// construction. Unset fields are omitted entirely.
func (p Preferences) Describe() string {
	fields := map[string]string{}
	if p.Destination != nil {
		fields["destination"] = *p.Destination
	}
	if p.StartDate != nil {
		fields["start_date"] = *p.StartDate
	}
	if p.EndDate != nil {
		fields["end_date"] = *p.EndDate
	}
	if p.Duration != nil {
		fields["duration"] = fmt.Sprintf("%d days", *p.Duration)
	}
	if p.Budget != nil {
		fields["budget"] = fmt.Sprintf("$%.2f", *p.Budget)
	}
	if p.Interests != nil {
		fields["interests"] = strings.Join(p.Interests, ", ")
	}
	if p.TravelStyle != nil {
		fields["travel_style"] = *p.TravelStyle
	}
	if p.AccommodationType != nil {
		fields["accommodation_type"] = *p.AccommodationType
	}
	if p.DietaryRestrictions != nil {
		fields["dietary_restrictions"] = strings.Join(p.DietaryRestrictions, ", ")
	}
	if p.SpecialRequirements != nil {
		fields["special_requirements"] = strings.Join(p.SpecialRequirements, ", ")
	}
	if p.AdditionalNotes != "" {
		fields["additional_notes"] = p.AdditionalNotes
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "- %s: %s\n", k, fields[k])
	}
	return sb.String()
}

func Ptr[T any](v T) *T {
	return &v
}
