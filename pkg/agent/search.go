package agent

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/tripweaver/tripweaver/pkg/adapter"
	"github.com/tripweaver/tripweaver/pkg/model"
)

//go:embed prompt/search.md
var searchPromptRaw string

var searchPromptTmpl = template.Must(template.New("search").Parse(searchPromptRaw))

// sectionKeywords maps header substrings to recommendation categories.
// Matching is case-insensitive and order matters: the first hit wins.
var sectionKeywords = []struct {
	keyword  string
	category model.RecommendationCategory
}{
	{"attraction", model.CategoryAttractions},
	{"activity", model.CategoryAttractions},
	{"accommodation", model.CategoryAccommodations},
	{"hotel", model.CategoryAccommodations},
	{"stay", model.CategoryAccommodations},
	{"dining", model.CategoryDining},
	{"restaurant", model.CategoryDining},
	{"food", model.CategoryDining},
	{"transport", model.CategoryTransportation},
	{"getting around", model.CategoryTransportation},
	{"tip", model.CategoryTips},
	{"custom", model.CategoryTips},
	{"flight", model.CategoryFlights},
}

// SearchAgent produces a recommendation set for a destination
type SearchAgent struct {
	base
}

func NewSearchAgent(gw adapter.Gateway, opts ...Option) (*SearchAgent, error) {
	b, err := newBase(RoleSearch, gw, opts)
	if err != nil {
		return nil, err
	}
	return &SearchAgent{base: b}, nil
}

func (a *SearchAgent) Role() Role { return RoleSearch }

func (a *SearchAgent) ProcessTask(ctx context.Context, task *Task) (*Result, error) {
	if a.demo {
		recs := fallbackRecommendations(task.Destination, task.Preferences)
		return &Result{Recommendations: recs, RawText: recs.FullText}, nil
	}

	data := map[string]any{
		"Destination":     task.Destination,
		"Duration":        task.Duration,
		"PreferenceLines": task.Preferences.Describe(),
	}
	if task.Budget != nil {
		data["Budget"] = fmt.Sprintf("%.2f", *task.Budget)
	}

	prompt, err := a.render(searchPromptTmpl, data)
	if err != nil {
		return nil, err
	}

	resp, err := a.gateway.Generate(ctx, &adapter.GenerateRequest{
		Prompt:      prompt,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, err
	}

	recs := parseRecommendations(resp.Text, task.Destination)
	return &Result{Recommendations: recs, RawText: resp.Text}, nil
}

// parseRecommendations segments the narrative into category lists by
// recognizing header keywords and collecting bullet lines underneath.
// This is a best-effort heuristic: lines before the first recognized
// header are skipped, and the full original text is always retained as the
// fallback source of truth.
func parseRecommendations(text, destination string) *model.Recommendations {
	recs := &model.Recommendations{
		Destination: destination,
		FullText:    text,
	}

	var current model.RecommendationCategory
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if cat, ok := matchSection(trimmed); ok {
			current = cat
			continue
		}

		if current == "" {
			continue
		}
		if item, ok := bulletItem(trimmed); ok {
			recs.Append(current, item)
		}
	}

	return recs
}

func matchSection(line string) (model.RecommendationCategory, bool) {
	// Bullet lines are items, never headers, even when they contain a
	// category keyword ("- restaurant X").
	if _, isBullet := bulletItem(line); isBullet {
		return "", false
	}
	lower := strings.ToLower(line)
	for _, sk := range sectionKeywords {
		if strings.Contains(lower, sk.keyword) {
			return sk.category, true
		}
	}
	return "", false
}

// bulletItem recognizes "- item" and "* item" lines. A bare "**bold**"
// header is not a bullet: the marker must be followed by whitespace.
func bulletItem(line string) (string, bool) {
	if len(line) >= 2 && (line[0] == '-' || line[0] == '*') &&
		(line[1] == ' ' || line[1] == '\t') {
		return strings.TrimSpace(line[2:]), true
	}
	return "", false
}
