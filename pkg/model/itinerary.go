package model

// DayPeriod is a time-of-day bucket within an itinerary day
type DayPeriod string

const (
	PeriodMorning   DayPeriod = "morning"
	PeriodAfternoon DayPeriod = "afternoon"
	PeriodEvening   DayPeriod = "evening"
)

// ItineraryDay is one day of a trip. Number reflects whatever day marker
// was parsed from the source text and is not renumbered to match position.
type ItineraryDay struct {
	Number    int      `json:"day" firestore:"day"`
	Date      string   `json:"date,omitempty" firestore:"date"`
	Morning   []string `json:"morning,omitempty" firestore:"morning"`
	Afternoon []string `json:"afternoon,omitempty" firestore:"afternoon"`
	Evening   []string `json:"evening,omitempty" firestore:"evening"`
	Notes     []string `json:"notes,omitempty" firestore:"notes"`
}

// AddActivity appends an activity description to the given bucket
func (d *ItineraryDay) AddActivity(p DayPeriod, activity string) {
	switch p {
	case PeriodMorning:
		d.Morning = append(d.Morning, activity)
	case PeriodAfternoon:
		d.Afternoon = append(d.Afternoon, activity)
	case PeriodEvening:
		d.Evening = append(d.Evening, activity)
	}
}

// IsEmpty reports whether the day has no activities and no notes
func (d *ItineraryDay) IsEmpty() bool {
	return len(d.Morning) == 0 && len(d.Afternoon) == 0 &&
		len(d.Evening) == 0 && len(d.Notes) == 0
}

// Itinerary is the ordered day-by-day plan plus the raw model text it was
// parsed from
type Itinerary struct {
	Days    []*ItineraryDay `json:"days" firestore:"days"`
	RawText string          `json:"raw_text" firestore:"raw_text"`
}

// Normalize forces the day count to exactly duration: short itineraries are
// padded with empty days, long ones truncated.
func (it *Itinerary) Normalize(duration int) {
	if duration < 0 {
		duration = 0
	}
	for len(it.Days) < duration {
		it.Days = append(it.Days, &ItineraryDay{Number: len(it.Days) + 1})
	}
	if len(it.Days) > duration {
		it.Days = it.Days[:duration]
	}
}
