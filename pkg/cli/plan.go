package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/m-mizutani/goerr/v2"
	"github.com/tripweaver/tripweaver/pkg/model"
	"github.com/tripweaver/tripweaver/pkg/usecase/planner"
	"github.com/urfave/cli/v3"
)

func planCommand() *cli.Command {
	var (
		cfg         config
		destination string
		duration    int64
		startDate   string
		budget      float64
		sessionID   string
		prefPairs   []string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "destination",
			Aliases:     []string{"d"},
			Usage:       "Where to travel",
			Required:    true,
			Destination: &destination,
		},
		&cli.IntFlag{
			Name:        "duration",
			Aliases:     []string{"n"},
			Usage:       "Trip length in days",
			Required:    true,
			Destination: &duration,
		},
		&cli.StringFlag{
			Name:        "start-date",
			Usage:       "Trip start date (YYYY-MM-DD)",
			Destination: &startDate,
		},
		&cli.FloatFlag{
			Name:        "budget",
			Usage:       "Approximate total budget in USD",
			Destination: &budget,
		},
		&cli.StringFlag{
			Name:        "session",
			Aliases:     []string{"s"},
			Usage:       "Session ID to save the plan into",
			Sources:     cli.EnvVars("TRIPWEAVER_SESSION_ID"),
			Destination: &sessionID,
		},
		&cli.StringSliceFlag{
			Name:        "pref",
			Usage:       "Preference override as key=value (repeatable)",
			Destination: &prefPairs,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)
	flags = append(flags, sessionFlags(&cfg)...)

	return &cli.Command{
		Name:      "plan",
		Usage:     "Generate a complete trip plan",
		ArgsUsage: "[free-text travel wishes]",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogging(ctx)

			registry, err := cfg.newRegistry(ctx)
			if err != nil {
				return err
			}

			extra, err := parsePrefs(prefPairs)
			if err != nil {
				return err
			}

			input := &planner.PlanInput{
				Destination: destination,
				Duration:    int(duration),
				UserInput:   strings.Join(c.Args().Slice(), " "),
				StartDate:   startDate,
				Extra:       extra,
				SessionID:   model.SessionID(sessionID),
			}
			if c.IsSet("budget") {
				input.Budget = model.Ptr(budget)
			}

			var opts []planner.Option
			if sessionID != "" {
				store, repo, err := cfg.newStore(ctx)
				if err != nil {
					return err
				}
				defer repo.Close()
				opts = append(opts, planner.WithStore(store))
			}

			sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond,
				spinner.WithWriter(c.Root().ErrWriter))
			sp.Suffix = " weaving your trip plan..."
			sp.Start()

			plan, err := planner.New(registry, opts...).Plan(ctx, input)
			sp.Stop()
			if err != nil {
				return err
			}

			printPlan(c, plan)
			return nil
		},
	}
}

// parsePrefs turns repeated key=value flags into a preference override.
// List-valued keys take comma-separated values.
func parsePrefs(pairs []string) (*model.Preferences, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	prefs := &model.Preferences{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || value == "" {
			return nil, goerr.New("preference must be key=value", goerr.V("got", pair))
		}

		switch key {
		case "travel_style":
			prefs.TravelStyle = model.Ptr(value)
		case "accommodation_type":
			prefs.AccommodationType = model.Ptr(value)
		case "end_date":
			prefs.EndDate = model.Ptr(value)
		case "interests":
			prefs.Interests = splitList(value)
		case "dietary_restrictions":
			prefs.DietaryRestrictions = splitList(value)
		case "special_requirements":
			prefs.SpecialRequirements = splitList(value)
		case "additional_notes":
			prefs.AdditionalNotes = value
		default:
			return nil, goerr.New("unknown preference key", goerr.V("key", key))
		}
	}
	return prefs, nil
}

func splitList(value string) []string {
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func printPlan(c *cli.Command, plan *model.TripPlan) {
	w := c.Root().Writer

	fmt.Fprintf(w, "Trip plan: %s, %d days\n\n", plan.Destination, plan.Duration)

	if desc := plan.Preferences.Describe(); desc != "" {
		fmt.Fprintf(w, "Preferences:\n%s\n", desc)
	}

	if plan.Recommendations != nil {
		printRecommendations(w, plan.Recommendations)
	}

	if plan.Itinerary != nil {
		printItinerary(w, plan.Itinerary)
	}

	for _, warn := range plan.Warnings {
		fmt.Fprintf(w, "note: %s\n", warn)
	}
}

var categoryTitles = []struct {
	category model.RecommendationCategory
	title    string
}{
	{model.CategoryFlights, "Flights"},
	{model.CategoryAccommodations, "Accommodations"},
	{model.CategoryAttractions, "Attractions"},
	{model.CategoryDining, "Dining"},
	{model.CategoryTransportation, "Getting around"},
	{model.CategoryTips, "Tips"},
}

func printRecommendations(w io.Writer, recs *model.Recommendations) {
	for _, ct := range categoryTitles {
		items := recs.Items(ct.category)
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s:\n", ct.title)
		for _, item := range items {
			fmt.Fprintf(w, "  - %s\n", item)
		}
		fmt.Fprintln(w)
	}
}

func printItinerary(w io.Writer, it *model.Itinerary) {
	for _, day := range it.Days {
		if day.Date != "" {
			fmt.Fprintf(w, "Day %d (%s)\n", day.Number, day.Date)
		} else {
			fmt.Fprintf(w, "Day %d\n", day.Number)
		}

		printPeriod(w, "Morning", day.Morning)
		printPeriod(w, "Afternoon", day.Afternoon)
		printPeriod(w, "Evening", day.Evening)

		for _, note := range day.Notes {
			fmt.Fprintf(w, "  note: %s\n", note)
		}
		fmt.Fprintln(w)
	}
}

func printPeriod(w io.Writer, label string, activities []string) {
	if len(activities) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s:\n", label)
	for _, act := range activities {
		fmt.Fprintf(w, "    - %s\n", act)
	}
}
