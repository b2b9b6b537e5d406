package model

// RecommendationCategory identifies one section of a recommendation set
type RecommendationCategory string

const (
	CategoryFlights        RecommendationCategory = "flights"
	CategoryAccommodations RecommendationCategory = "accommodations"
	CategoryAttractions    RecommendationCategory = "attractions"
	CategoryDining         RecommendationCategory = "dining"
	CategoryTransportation RecommendationCategory = "transportation"
	CategoryTips           RecommendationCategory = "tips"
)

// Recommendations groups candidate items per category. Category lists may
// legitimately be empty; FullText retains the narrative the items were
// derived from and is the fallback source of truth when the heuristic
// section parse recognized nothing.
type Recommendations struct {
	Destination    string   `json:"destination" firestore:"destination"`
	Flights        []string `json:"flights,omitempty" firestore:"flights"`
	Accommodations []string `json:"accommodations,omitempty" firestore:"accommodations"`
	Attractions    []string `json:"attractions,omitempty" firestore:"attractions"`
	Dining         []string `json:"dining,omitempty" firestore:"dining"`
	Transportation []string `json:"transportation,omitempty" firestore:"transportation"`
	Tips           []string `json:"tips,omitempty" firestore:"tips"`
	FullText       string   `json:"full_text" firestore:"full_text"`
}

// Items returns the list for the given category
func (r *Recommendations) Items(c RecommendationCategory) []string {
	switch c {
	case CategoryFlights:
		return r.Flights
	case CategoryAccommodations:
		return r.Accommodations
	case CategoryAttractions:
		return r.Attractions
	case CategoryDining:
		return r.Dining
	case CategoryTransportation:
		return r.Transportation
	case CategoryTips:
		return r.Tips
	}
	return nil
}

// Append adds an item to the given category's list
func (r *Recommendations) Append(c RecommendationCategory, item string) {
	switch c {
	case CategoryFlights:
		r.Flights = append(r.Flights, item)
	case CategoryAccommodations:
		r.Accommodations = append(r.Accommodations, item)
	case CategoryAttractions:
		r.Attractions = append(r.Attractions, item)
	case CategoryDining:
		r.Dining = append(r.Dining, item)
	case CategoryTransportation:
		r.Transportation = append(r.Transportation, item)
	case CategoryTips:
		r.Tips = append(r.Tips, item)
	}
}
