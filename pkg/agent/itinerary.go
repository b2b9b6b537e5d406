package agent

import (
	"context"
	_ "embed"
	"regexp"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/tripweaver/tripweaver/pkg/adapter"
	"github.com/tripweaver/tripweaver/pkg/model"
)

//go:embed prompt/itinerary.md
var itineraryPromptRaw string

var itineraryPromptTmpl = template.Must(template.New("itinerary").Parse(itineraryPromptRaw))

var (
	dayMarkerRe = regexp.MustCompile(`(?i)\bday\s*(\d+)`)
	isoDateRe   = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	usDateRe    = regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{4})\b`)
	longDateRe  = regexp.MustCompile(`(?i)\b(\d{1,2} (?:january|february|march|april|may|june|july|august|september|october|november|december) \d{4})\b`)
)

// ItineraryAgent turns preferences and recommendations into a day-by-day
// plan. Generation runs at a higher temperature than extraction to favor
// variety in sequencing.
type ItineraryAgent struct {
	base
}

func NewItineraryAgent(gw adapter.Gateway, opts ...Option) (*ItineraryAgent, error) {
	b, err := newBase(RoleItinerary, gw, opts)
	if err != nil {
		return nil, err
	}
	return &ItineraryAgent{base: b}, nil
}

func (a *ItineraryAgent) Role() Role { return RoleItinerary }

func (a *ItineraryAgent) ProcessTask(ctx context.Context, task *Task) (*Result, error) {
	if a.demo {
		it := fallbackItinerary(task.Destination, task.Recommendations, task.Duration, task.StartDate)
		return &Result{Itinerary: it, RawText: it.RawText}, nil
	}

	narrative := ""
	if task.Recommendations != nil {
		narrative = task.Recommendations.FullText
	}
	if narrative == "" {
		narrative = "No specific recommendations available; use well-known highlights of the destination."
	}

	prompt, err := a.render(itineraryPromptTmpl, map[string]any{
		"Destination":     task.Destination,
		"Duration":        task.Duration,
		"StartDate":       task.StartDate,
		"PreferenceLines": task.Preferences.Describe(),
		"Recommendations": narrative,
	})
	if err != nil {
		return nil, err
	}

	resp, err := a.gateway.Generate(ctx, &adapter.GenerateRequest{
		Prompt:      prompt,
		Temperature: 0.8,
	})
	if err != nil {
		return nil, err
	}

	it := parseItinerary(resp.Text, task.Duration)
	return &Result{Itinerary: it, RawText: resp.Text}, nil
}

// parseItinerary runs a line-oriented state machine over the model text:
// "Day N" markers open day records, time-period keywords select the
// current bucket, bullets append to it (morning by default), and note/tip
// lines collect into the day's notes. The final day count is forced to
// exactly duration by padding or truncation; parsed day numbers are kept
// as-is and not renumbered.
func parseItinerary(text string, duration int) *model.Itinerary {
	it := &model.Itinerary{RawText: text}

	var day *model.ItineraryDay
	var bucket model.DayPeriod

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if m := dayMarkerRe.FindStringSubmatch(trimmed); m != nil {
			if day != nil {
				it.Days = append(it.Days, day)
			}
			n, _ := strconv.Atoi(m[1])
			day = &model.ItineraryDay{
				Number: n,
				Date:   extractDate(trimmed),
			}
			bucket = ""
			continue
		}

		if day == nil {
			continue
		}

		lower := strings.ToLower(trimmed)
		if strings.Contains(lower, "note") || strings.Contains(lower, "tip") {
			day.Notes = append(day.Notes, trimmed)
			continue
		}

		if p, ok := matchPeriod(lower); ok {
			bucket = p
			continue
		}

		if item, ok := bulletItem(trimmed); ok && item != "" {
			b := bucket
			if b == "" {
				b = model.PeriodMorning
			}
			day.AddActivity(b, item)
		}
	}

	if day != nil {
		it.Days = append(it.Days, day)
	}

	it.Normalize(duration)
	return it
}

// matchPeriod recognizes time-period header lines; "night" maps to the
// evening bucket
func matchPeriod(lower string) (model.DayPeriod, bool) {
	switch {
	case strings.Contains(lower, "morning"):
		return model.PeriodMorning, true
	case strings.Contains(lower, "afternoon"):
		return model.PeriodAfternoon, true
	case strings.Contains(lower, "evening"), strings.Contains(lower, "night"):
		return model.PeriodEvening, true
	}
	return "", false
}

// extractDate pulls an optional date token out of a day-marker line and
// normalizes it to YYYY-MM-DD. Unrecognized dates are left unset.
func extractDate(line string) string {
	if m := isoDateRe.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	if m := usDateRe.FindStringSubmatch(line); m != nil {
		if t, err := time.Parse("1/2/2006", m[1]); err == nil {
			return t.Format("2006-01-02")
		}
	}
	if m := longDateRe.FindStringSubmatch(line); m != nil {
		if t, err := time.Parse("2 January 2006", titleMonth(m[1])); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// titleMonth capitalizes the month word so "15 march 2026" parses
func titleMonth(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 3 {
		month := strings.ToLower(fields[1])
		fields[1] = strings.ToUpper(month[:1]) + month[1:]
	}
	return strings.Join(fields, " ")
}
