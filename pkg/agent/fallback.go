package agent

import (
	"fmt"
	"strings"
	"time"

	"github.com/tripweaver/tripweaver/pkg/model"
)

// Deterministic substitutes used in demo mode. Derived from keyword
// matching so that the same input always yields the same output.

var interestKeywords = []struct {
	keyword  string
	interest string
}{
	{"museum", "museums"},
	{"history", "history"},
	{"art", "art"},
	{"beach", "beach"},
	{"adventure", "adventure"},
	{"hik", "hiking"},
	{"nature", "nature"},
	{"dining", "fine dining"},
	{"food", "food"},
	{"restaurant", "food"},
	{"culinary", "food"},
	{"shopping", "shopping"},
	{"nightlife", "nightlife"},
	{"culture", "culture"},
	{"relax", "relaxation"},
}

var dietaryKeywords = []string{
	"vegetarian", "vegan", "gluten-free", "halal", "kosher",
}

var styleKeywords = []struct {
	keyword string
	style   string
}{
	{"luxury", "luxury"},
	{"budget", "budget"},
	{"cheap", "budget"},
	{"family", "family-friendly"},
	{"romantic", "romantic"},
	{"solo", "solo"},
	{"backpack", "backpacking"},
}

func fallbackPreferences(userInput string) *model.Preferences {
	text := strings.ToLower(userInput)
	prefs := &model.Preferences{}

	seen := map[string]bool{}
	for _, kw := range interestKeywords {
		if strings.Contains(text, kw.keyword) && !seen[kw.interest] {
			prefs.Interests = append(prefs.Interests, kw.interest)
			seen[kw.interest] = true
		}
	}

	for _, kw := range dietaryKeywords {
		if strings.Contains(text, kw) {
			prefs.DietaryRestrictions = append(prefs.DietaryRestrictions, kw)
		}
	}

	for _, kw := range styleKeywords {
		if strings.Contains(text, kw.keyword) {
			prefs.TravelStyle = model.Ptr(kw.style)
			break
		}
	}

	return prefs
}

// mockDestinations carries canned recommendation items for a few showcase
// destinations; anything else falls back to the generic set.
var mockDestinations = map[string]*model.Recommendations{
	"paris": {
		Attractions: []string{
			"Eiffel Tower summit at sunset",
			"Louvre Museum (book a timed entry)",
			"Musée d'Orsay impressionist collection",
			"Seine river cruise",
			"Montmartre and Sacré-Cœur walk",
		},
		Accommodations: []string{
			"Le Marais boutique hotels ($$$)",
			"Latin Quarter guesthouses ($$)",
			"Bastille budget hotels ($)",
		},
		Dining: []string{
			"Classic bistro dinner in Saint-Germain",
			"Fresh market picnic from Marché Bastille",
			"Vegetarian tasting menu near Canal Saint-Martin",
		},
		Transportation: []string{
			"Métro day passes cover nearly everything",
			"Vélib' bike share for riverside rides",
		},
		Tips: []string{
			"Greet shopkeepers with 'bonjour' before asking anything",
			"Most museums are closed Monday or Tuesday; check ahead",
		},
	},
	"tokyo": {
		Attractions: []string{
			"Senso-ji temple early morning",
			"Shibuya crossing and Harajuku backstreets",
			"teamLab digital art museum",
			"Day trip to Kamakura's Great Buddha",
		},
		Accommodations: []string{
			"Shinjuku business hotels ($$)",
			"Asakusa ryokan with onsen ($$$)",
			"Capsule hotels near major stations ($)",
		},
		Dining: []string{
			"Tsukiji outer market breakfast sushi",
			"Ramen alley in Shinjuku",
			"Shojin ryori (Buddhist vegetarian) in Asakusa",
		},
		Transportation: []string{
			"Get a Suica card on arrival",
			"JR Yamanote line loops all main districts",
		},
		Tips: []string{
			"Carry cash; small places often take no cards",
			"Stand left on Tokyo escalators",
		},
	},
}

func fallbackRecommendations(destination string, prefs model.Preferences) *model.Recommendations {
	var recs model.Recommendations
	if canned, ok := mockDestinations[strings.ToLower(strings.TrimSpace(destination))]; ok {
		recs = *canned
	} else {
		recs = model.Recommendations{
			Attractions: []string{
				"Historic old town walking tour",
				"Main museum and gallery district",
				"Panoramic viewpoint at golden hour",
			},
			Accommodations: []string{
				"Central mid-range hotels ($$)",
				"Guesthouses near the old town ($)",
			},
			Dining: []string{
				"Local specialties at the central market",
				"Well-reviewed neighborhood restaurants",
			},
			Transportation: []string{
				"Public transit day passes",
				"Walking for the compact center",
			},
			Tips: []string{
				"Learn a few greeting phrases in the local language",
				"Carry small change for markets",
			},
		}
	}

	recs.Destination = destination
	for _, d := range prefs.DietaryRestrictions {
		recs.Dining = append(recs.Dining,
			fmt.Sprintf("Ask for %s options; most listed places can accommodate", d))
	}
	recs.FullText = renderRecommendationText(&recs)
	return &recs
}

// renderRecommendationText produces narrative text in the same sectioned
// format a live model would return, so downstream parsing behaves
// identically in both modes.
func renderRecommendationText(r *model.Recommendations) string {
	var sb strings.Builder
	section := func(header string, items []string) {
		if len(items) == 0 {
			return
		}
		sb.WriteString(header + "\n")
		for _, item := range items {
			sb.WriteString("- " + item + "\n")
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "Travel recommendations for %s\n\n", r.Destination)
	section("Attractions and Activities", r.Attractions)
	section("Accommodations", r.Accommodations)
	section("Dining", r.Dining)
	section("Transportation", r.Transportation)
	section("Tips and Local Customs", r.Tips)
	return strings.TrimSpace(sb.String())
}

func fallbackItinerary(destination string, recs *model.Recommendations, duration int, startDate string) *model.Itinerary {
	if recs == nil {
		recs = &model.Recommendations{}
	}

	var start time.Time
	var hasStart bool
	if startDate != "" {
		if t, err := time.Parse("2006-01-02", startDate); err == nil {
			start = t
			hasStart = true
		}
	}

	pool := func(items []string, generic string) []string {
		if len(items) > 0 {
			return items
		}
		return []string{generic}
	}
	attractions := pool(recs.Attractions, "Explore "+destination)
	dining := pool(recs.Dining, "Dinner at a local restaurant")

	it := &model.Itinerary{}
	for i := 0; i < duration; i++ {
		day := &model.ItineraryDay{Number: i + 1}
		if hasStart {
			day.Date = start.AddDate(0, 0, i).Format("2006-01-02")
		}
		day.Morning = append(day.Morning, attractions[i%len(attractions)])
		day.Afternoon = append(day.Afternoon, attractions[(i+1)%len(attractions)])
		day.Evening = append(day.Evening, dining[i%len(dining)])
		if len(recs.Tips) > 0 {
			day.Notes = append(day.Notes, recs.Tips[i%len(recs.Tips)])
		}
		it.Days = append(it.Days, day)
	}
	it.RawText = fmt.Sprintf("Generated %d-day sample itinerary for %s", duration, destination)
	return it
}

var supportResponses = []struct {
	keyword  string
	response string
}{
	{"flight", "Your flight details are in the trip context above. Arrive at the airport at least two hours before departure."},
	{"hotel", "Your accommodation details are listed in your trip context. Check-in is typically from 15:00."},
	{"weather", "I don't have live weather data, but shoulder-season conditions at your destination are usually mild. Pack a light layer."},
	{"rebook", "I can help with that. This is a simulated rebooking process: please confirm which booking you'd like to change and your preferred new date."},
	{"change my booking", "I can help with that. This is a simulated rebooking process: please confirm which booking you'd like to change and your preferred new date."},
	{"cancel", "I understand you wish to cancel. This is a simulated cancellation; note that cancellation policies may apply. Are you sure you want to proceed?"},
	{"escalate", "I'm escalating this to human support. This is a simulated escalation; in a live system an agent would contact you shortly."},
	{"contact support", "I'm escalating this to human support. This is a simulated escalation; in a live system an agent would contact you shortly."},
}

func fallbackSupportResponse(message string) string {
	text := strings.ToLower(message)
	for _, r := range supportResponses {
		if strings.Contains(text, r.keyword) {
			return r.response
		}
	}
	return "I'm sorry, I couldn't find specific information for that. Could you rephrase your question?"
}
