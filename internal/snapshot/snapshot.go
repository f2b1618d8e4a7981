// Package snapshot assembles meal snapshots: denormalized, point-in-time
// copies of several recipes' extracted ingredients and timelines.
package snapshot

import (
	"errors"
	"time"

	"mise/internal/recipe"
	"mise/internal/timeline"
)

// ErrRecipeNotFound matches every RecipeNotFoundError.
var ErrRecipeNotFound = errors.New("recipe not found")

// RecipeNotFoundError names a recipe identifier that did not resolve to a
// live recipe during assembly.
type RecipeNotFoundError struct {
	Slug string
}

func (e *RecipeNotFoundError) Error() string {
	return "recipe not found: " + e.Slug
}

func (e *RecipeNotFoundError) Is(target error) bool {
	return target == ErrRecipeNotFound
}

// Metadata is the display metadata copied from a recipe.
type Metadata struct {
	Serves     int               `json:"serves"`
	ActiveTime string            `json:"active_time"`
	TotalTime  string            `json:"total_time"`
	Category   recipe.Category   `json:"category"`
	Difficulty recipe.Difficulty `json:"difficulty"`
}

// RecipeSnapshot is one recipe's extracted structure inside a meal.
type RecipeSnapshot struct {
	Slug        string              `json:"slug"`
	CourseOrder int                 `json:"course_order"`
	Title       string              `json:"title"`
	Subtitle    *string             `json:"subtitle"`
	Metadata    Metadata            `json:"metadata"`
	Components  []string            `json:"components"`
	Ingredients recipe.ComponentMap `json:"ingredients"`
	Timeline    timeline.Map        `json:"timeline"`
	IsDeleted   bool                `json:"is_deleted"`
}

// Breakdown is one occurrence of an aggregated ingredient.
type Breakdown struct {
	Component string `json:"component"`
	Recipe    string `json:"recipe"`
	Qty       string `json:"qty"`
}

// AggregatedIngredient groups ingredient lines that are equal ignoring case.
// Display keeps the first-seen spelling.
type AggregatedIngredient struct {
	Display   string      `json:"display"`
	Breakdown []Breakdown `json:"breakdown"`
}

// MealSnapshot is the read-optimized document stored with a meal.
type MealSnapshot struct {
	Recipes               []RecipeSnapshot       `json:"recipes"`
	AggregatedIngredients []AggregatedIngredient `json:"aggregated_ingredients"`
	TimelineMarkers       []string               `json:"timeline_markers"`
	LastSnapshotAt        time.Time              `json:"last_snapshot_at"`
}

// Slugs returns the recipe identifiers of the snapshot in course order.
func (s *MealSnapshot) Slugs() []string {
	slugs := make([]string, 0, len(s.Recipes))
	for _, r := range s.Recipes {
		slugs = append(slugs, r.Slug)
	}
	return slugs
}

// TimelineSpan summarizes when cooking starts: the earliest marker, or a
// same-day label when the meal has no timeline.
func (s *MealSnapshot) TimelineSpan() string {
	return TimelineSpan(s.TimelineMarkers)
}

// TimelineSpan is MealSnapshot.TimelineSpan over a marker list.
func TimelineSpan(markers []string) string {
	if len(markers) == 0 {
		return "Same-day meal"
	}
	return "Starts " + markers[0]
}
