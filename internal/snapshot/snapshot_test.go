package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"mise/internal/recipe"
)

type fakeSource struct {
	mu      sync.Mutex
	recipes map[string]*recipe.Recipe
	calls   []string
	err     error
}

func (f *fakeSource) GetBySlug(_ context.Context, slug string) (*recipe.Recipe, error) {
	f.mu.Lock()
	f.calls = append(f.calls, slug)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	rec, ok := f.recipes[slug]
	if !ok {
		return nil, recipe.ErrNotFound
	}
	return rec, nil
}

func newRecipe(slug, title, body string) *recipe.Recipe {
	return &recipe.Recipe{
		Slug: slug,
		Document: recipe.Document{
			Metadata: recipe.Metadata{
				Title:      title,
				Category:   recipe.CategoryMain,
				Difficulty: recipe.DifficultyEasy,
				Serves:     2,
				ActiveTime: "20 min",
				TotalTime:  "1 hr",
			},
			Body: body,
		},
	}
}

const toastBody = `## Ingredients
- Bread
- Butter

## Method

### T-30m
1. Soften the butter.

### Day of
1. Toast the bread.
`

const soupBody = `## Ingredients
- butter
- Leeks

## Method

### T-2h
1. Sweat the leeks.

### Day of
1. Blend.

### Plating
1. Ladle into bowls.
`

func testGenerator() *Generator {
	g := NewGenerator(zap.NewNop())
	g.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 500, time.UTC) }
	return g
}

func TestGenerate(t *testing.T) {
	src := &fakeSource{recipes: map[string]*recipe.Recipe{
		"toast": newRecipe("toast", "Toast & Jam", toastBody),
		"soup":  newRecipe("soup", "Leek Soup", soupBody),
	}}

	res, err := testGenerator().Generate(context.Background(), src, []string{"toast", "soup"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	snap := res.Snapshot

	t.Run("course order", func(t *testing.T) {
		if len(snap.Recipes) != 2 {
			t.Fatalf("Expected 2 recipes, got %d", len(snap.Recipes))
		}
		for i, want := range []string{"toast", "soup"} {
			if snap.Recipes[i].Slug != want {
				t.Errorf("Expected recipe %d to be %s, got %s", i, want, snap.Recipes[i].Slug)
			}
			if snap.Recipes[i].CourseOrder != i+1 {
				t.Errorf("Expected course_order %d, got %d", i+1, snap.Recipes[i].CourseOrder)
			}
		}
	})

	t.Run("title escaped", func(t *testing.T) {
		if snap.Recipes[0].Title != "Toast &amp; Jam" {
			t.Errorf("Expected escaped title, got %q", snap.Recipes[0].Title)
		}
		if snap.Recipes[0].Subtitle != nil {
			t.Errorf("Expected nil subtitle, got %q", *snap.Recipes[0].Subtitle)
		}
	})

	t.Run("aggregation ignores case", func(t *testing.T) {
		var butter *AggregatedIngredient
		for i := range snap.AggregatedIngredients {
			if strings.EqualFold(snap.AggregatedIngredients[i].Display, "butter") {
				if butter != nil {
					t.Fatal("Expected butter to be aggregated once")
				}
				butter = &snap.AggregatedIngredients[i]
			}
		}
		if butter == nil {
			t.Fatal("Expected butter in aggregated ingredients")
		}
		if butter.Display != "Butter" {
			t.Errorf("Expected first-seen display Butter, got %s", butter.Display)
		}
		if len(butter.Breakdown) != 2 {
			t.Fatalf("Expected 2 breakdown entries, got %d", len(butter.Breakdown))
		}
		want := Breakdown{Component: "Main", Recipe: "Leek Soup", Qty: "butter"}
		if butter.Breakdown[1] != want {
			t.Errorf("Expected %+v, got %+v", want, butter.Breakdown[1])
		}
		if len(snap.AggregatedIngredients) != 3 {
			t.Errorf("Expected 3 aggregated ingredients, got %d", len(snap.AggregatedIngredients))
		}
	})

	t.Run("markers sorted", func(t *testing.T) {
		want := []string{"T-2h", "T-30m", "Day-of", "Service"}
		if !reflect.DeepEqual(snap.TimelineMarkers, want) {
			t.Errorf("Expected %v, got %v", want, snap.TimelineMarkers)
		}
	})

	t.Run("timestamp", func(t *testing.T) {
		if snap.LastSnapshotAt.Nanosecond() != 0 {
			t.Errorf("Expected whole-second timestamp, got %v", snap.LastSnapshotAt)
		}
	})
}

func TestGenerateMissingRecipe(t *testing.T) {
	src := &fakeSource{recipes: map[string]*recipe.Recipe{
		"a": newRecipe("a", "A", toastBody),
		"c": newRecipe("c", "C", soupBody),
	}}

	res, err := testGenerator().Generate(context.Background(), src, []string{"a", "b", "c"})
	if res != nil {
		t.Error("Expected no snapshot when a recipe is missing")
	}
	if !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("Expected ErrRecipeNotFound, got %v", err)
	}
	var nf *RecipeNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Expected *RecipeNotFoundError, got %T", err)
	}
	if nf.Slug != "b" {
		t.Errorf("Expected missing slug b, got %s", nf.Slug)
	}
}

// slowMissingSource reports every slug missing; "slow" answers late and
// honours cancellation of its context.
type slowMissingSource struct{}

func (slowMissingSource) GetBySlug(ctx context.Context, slug string) (*recipe.Recipe, error) {
	if slug == "slow" {
		time.Sleep(50 * time.Millisecond)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return nil, recipe.ErrNotFound
}

func TestGenerateMissingRecipeCourseOrder(t *testing.T) {
	_, err := testGenerator().Generate(context.Background(), slowMissingSource{}, []string{"slow", "fast"})

	var nf *RecipeNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Expected *RecipeNotFoundError, got %v", err)
	}
	if nf.Slug != "slow" {
		t.Errorf("Expected first missing slug slow, got %s", nf.Slug)
	}
}

func TestGenerateSourceError(t *testing.T) {
	boom := fmt.Errorf("disk on fire")
	src := &fakeSource{err: boom}

	_, err := testGenerator().Generate(context.Background(), src, []string{"a"})
	if !errors.Is(err, boom) {
		t.Errorf("Expected wrapped source error, got %v", err)
	}
	if errors.Is(err, ErrRecipeNotFound) {
		t.Error("Expected source error not to be reported as not found")
	}
}

func TestAssembleWarnings(t *testing.T) {
	rec := newRecipe("odd", "Odd", "### Method (whenever)\n1. Stir.\n")
	snap, warnings := Assemble([]*recipe.Recipe{rec}, time.Now())

	if len(warnings) != 1 {
		t.Fatalf("Expected 1 warning, got %d", len(warnings))
	}
	if warnings[0].Slug != "odd" || warnings[0].Heading != "whenever" {
		t.Errorf("Unexpected warning %+v", warnings[0])
	}
	if !reflect.DeepEqual(snap.TimelineMarkers, []string{"Service"}) {
		t.Errorf("Expected [Service], got %v", snap.TimelineMarkers)
	}
}

func TestAssembleEmpty(t *testing.T) {
	snap, _ := Assemble(nil, time.Now())
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for _, path := range []string{"recipes", "aggregated_ingredients", "timeline_markers"} {
		if !gjson.GetBytes(data, path).IsArray() {
			t.Errorf("Expected %s to encode as an array, got %s", path, gjson.GetBytes(data, path).Raw)
		}
	}
}

func TestSnapshotJSON(t *testing.T) {
	rec := newRecipe("toast", "Toast", toastBody)
	rec.Subtitle = "with <butter>"
	snap, _ := Assemble([]*recipe.Recipe{rec}, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	checks := map[string]string{
		"recipes.0.subtitle":              "with &lt;butter&gt;",
		"recipes.0.metadata.category":     "main",
		"recipes.0.metadata.total_time":   "1 hr",
		"recipes.0.components.0":          "Main",
		"recipes.0.ingredients.Main.1":    "Butter",
		"recipes.0.timeline.T-30m.Main.0": "Soften the butter.",
		"last_snapshot_at":                "2026-03-01T12:00:00Z",
	}
	for path, want := range checks {
		if got := gjson.GetBytes(data, path).String(); got != want {
			t.Errorf("Expected %s = %q, got %q", path, want, got)
		}
	}
	if gjson.GetBytes(data, "recipes.0.is_deleted").Bool() {
		t.Error("Expected is_deleted false")
	}

	var decoded MealSnapshot
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got := decoded.Recipes[0].Timeline.Markers(); !reflect.DeepEqual(got, []string{"T-30m", "Day-of"}) {
		t.Errorf("Expected markers to keep order, got %v", got)
	}
	if !decoded.LastSnapshotAt.Equal(snap.LastSnapshotAt) {
		t.Errorf("Expected %v, got %v", snap.LastSnapshotAt, decoded.LastSnapshotAt)
	}
}

func TestTimelineSpan(t *testing.T) {
	tests := map[string]struct {
		markers []string
		want    string
	}{
		"empty":   {nil, "Same-day meal"},
		"day of":  {[]string{"Day-of", "Service"}, "Starts Day-of"},
		"service": {[]string{"Service"}, "Starts Service"},
		"advance": {[]string{"T-24h", "Service"}, "Starts T-24h"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := TimelineSpan(tt.markers); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
