package cli

import (
	"testing"

	"github.com/m-mizutani/gt"
)

func TestParsePrefs(t *testing.T) {
	prefs, err := parsePrefs([]string{
		"travel_style=luxury",
		"interests=museums, food ,history",
		"dietary_restrictions=vegan",
		"additional_notes=window seats please",
	})
	gt.NoError(t, err)

	gt.Equal(t, *prefs.TravelStyle, "luxury")
	gt.Equal(t, prefs.Interests, []string{"museums", "food", "history"})
	gt.Equal(t, prefs.DietaryRestrictions, []string{"vegan"})
	gt.Equal(t, prefs.AdditionalNotes, "window seats please")
}

func TestParsePrefsEmpty(t *testing.T) {
	prefs, err := parsePrefs(nil)
	gt.NoError(t, err)
	gt.True(t, prefs == nil)
}

func TestParsePrefsRejectsMalformed(t *testing.T) {
	_, err := parsePrefs([]string{"travel_style"})
	gt.Error(t, err)

	_, err = parsePrefs([]string{"travel_style="})
	gt.Error(t, err)

	_, err = parsePrefs([]string{"favorite_color=blue"})
	gt.Error(t, err)
}
