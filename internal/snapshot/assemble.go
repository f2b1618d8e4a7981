package snapshot

import (
	"strings"
	"time"

	"mise/internal/recipe"
	"mise/internal/sanitize"
	"mise/internal/timeline"
)

// Warning is a timeline warning raised while extracting one member recipe.
type Warning struct {
	Slug string `json:"slug"`
	timeline.Warning
}

// Assemble builds a meal snapshot from already-resolved recipes, in course
// order. It performs no I/O.
func Assemble(recipes []*recipe.Recipe, at time.Time) (*MealSnapshot, []Warning) {
	snap := &MealSnapshot{
		Recipes:               make([]RecipeSnapshot, 0, len(recipes)),
		AggregatedIngredients: []AggregatedIngredient{},
		TimelineMarkers:       []string{},
		LastSnapshotAt:        at.UTC().Truncate(time.Second),
	}

	var warnings []Warning
	agg := newAggregator()
	seenMarkers := map[string]bool{}
	var markers []string

	for i, rec := range recipes {
		body := rec.Body
		if body == "" {
			body = recipe.Body(rec.Markdown)
		}

		ingredients := recipe.ExtractIngredients(body)
		report := timeline.Inspect(body)
		for _, w := range report.Warnings {
			warnings = append(warnings, Warning{Slug: rec.Slug, Warning: w})
		}

		title := sanitize.EscapeHTML(rec.Title)
		var subtitle *string
		if rec.Subtitle != "" {
			s := sanitize.EscapeHTML(rec.Subtitle)
			subtitle = &s
		}

		snap.Recipes = append(snap.Recipes, RecipeSnapshot{
			Slug:        rec.Slug,
			CourseOrder: i + 1,
			Title:       title,
			Subtitle:    subtitle,
			Metadata: Metadata{
				Serves:     rec.Serves,
				ActiveTime: rec.ActiveTime,
				TotalTime:  rec.TotalTime,
				Category:   rec.Category,
				Difficulty: rec.Difficulty,
			},
			Components:  nonNil(ingredients.Names()),
			Ingredients: ingredients,
			Timeline:    report.Timeline,
		})

		ingredients.Each(func(component string, items []string) {
			for _, item := range items {
				agg.add(item, Breakdown{Component: component, Recipe: title, Qty: item})
			}
		})
		for _, m := range report.Timeline.Markers() {
			if !seenMarkers[m] {
				seenMarkers[m] = true
				markers = append(markers, m)
			}
		}
	}

	snap.AggregatedIngredients = agg.result()
	snap.TimelineMarkers = nonNil(timeline.Sort(markers))
	return snap, warnings
}

type aggregator struct {
	index map[string]int
	items []AggregatedIngredient
}

func newAggregator() *aggregator {
	return &aggregator{index: map[string]int{}}
}

func (a *aggregator) add(display string, b Breakdown) {
	key := strings.ToLower(display)
	i, ok := a.index[key]
	if !ok {
		i = len(a.items)
		a.index[key] = i
		a.items = append(a.items, AggregatedIngredient{Display: display})
	}
	a.items[i].Breakdown = append(a.items[i].Breakdown, b)
}

func (a *aggregator) result() []AggregatedIngredient {
	return nonNil(a.items)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
