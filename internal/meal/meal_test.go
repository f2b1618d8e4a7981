package meal

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func TestInputValidate(t *testing.T) {
	tests := []struct {
		name      string
		input     Input
		wantField string
	}{
		{"valid", Input{Title: "Sunday Lunch", Recipes: []string{"user-toast", "miso-cod"}}, ""},
		{"missing title", Input{Recipes: []string{"a"}}, "title"},
		{"long title", Input{Title: strings.Repeat("x", 201), Recipes: []string{"a"}}, "title"},
		{"long description", Input{Title: "t", Description: strings.Repeat("x", 1001), Recipes: []string{"a"}}, "description"},
		{"no recipes", Input{Title: "t"}, "recipes"},
		{"too many recipes", Input{Title: "t", Recipes: []string{"a", "b", "c", "d"}}, "recipes"},
		{"bad slug", Input{Title: "t", Recipes: []string{"Bad Slug"}}, "recipes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate(3)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}

			var errs validation.Errors
			if !errors.As(err, &errs) {
				t.Fatalf("Expected validation.Errors, got %v", err)
			}
			if _, ok := errs[tt.wantField]; !ok {
				t.Errorf("Expected error for field %s, got %v", tt.wantField, errs)
			}
		})
	}
}

func TestInputValidateMessages(t *testing.T) {
	err := Input{Title: "t", Recipes: make([]string, 21)}.Validate(DefaultMaxRecipes)
	var errs validation.Errors
	if !errors.As(err, &errs) {
		t.Fatalf("Expected validation.Errors, got %v", err)
	}
	if got := errs["recipes"].Error(); got != "Maximum 20 recipes per meal" {
		t.Errorf("Expected max recipes message, got %q", got)
	}
}

func TestPatchValidate(t *testing.T) {
	empty := ""
	long := strings.Repeat("x", 201)

	tests := []struct {
		name      string
		patch     Patch
		wantField string
	}{
		{"nothing set", Patch{}, ""},
		{"clear description", Patch{Description: &empty}, ""},
		{"empty title", Patch{Title: &empty}, "title"},
		{"long title", Patch{Title: &long}, "title"},
		{"empty recipe list", Patch{Recipes: []string{}}, "recipes"},
		{"bad slug", Patch{Recipes: []string{"ok", "NOT_OK"}}, "recipes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Validate(DefaultMaxRecipes)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			var errs validation.Errors
			if !errors.As(err, &errs) {
				t.Fatalf("Expected validation.Errors, got %v", err)
			}
			if _, ok := errs[tt.wantField]; !ok {
				t.Errorf("Expected error for field %s, got %v", tt.wantField, errs)
			}
		})
	}
}

func TestPatchApply(t *testing.T) {
	base := Input{Title: "Old", Description: "desc", Recipes: []string{"a"}}
	title := "New"

	got := Patch{Title: &title}.Apply(base)
	if got.Title != "New" || got.Description != "desc" || len(got.Recipes) != 1 {
		t.Errorf("Unexpected patch result %+v", got)
	}

	empty := ""
	got = Patch{Description: &empty, Recipes: []string{"b", "c"}}.Apply(base)
	if got.Title != "Old" || got.Description != "" || len(got.Recipes) != 2 {
		t.Errorf("Unexpected patch result %+v", got)
	}
}

func TestGenerateSlug(t *testing.T) {
	pattern := regexp.MustCompile(`^user-sunday-lunch-[bcdfghjkmnpqrstvwxyz23456789]{6}$`)
	for range 20 {
		if slug := GenerateSlug("Sunday Lunch!"); !pattern.MatchString(slug) {
			t.Fatalf("Unexpected slug %s", slug)
		}
	}
}

func TestUniqueSlug(t *testing.T) {
	t.Run("first free", func(t *testing.T) {
		calls := 0
		slug, err := UniqueSlug("Dinner", func(string) (bool, error) {
			calls++
			return calls < 3, nil
		})
		if err != nil {
			t.Fatalf("UniqueSlug failed: %v", err)
		}
		if calls != 3 {
			t.Errorf("Expected 3 lookups, got %d", calls)
		}
		if !strings.HasPrefix(slug, "user-dinner-") {
			t.Errorf("Unexpected slug %s", slug)
		}
	})

	t.Run("fallback", func(t *testing.T) {
		slug, err := UniqueSlug("Dinner", func(string) (bool, error) { return true, nil })
		if err != nil {
			t.Fatalf("UniqueSlug failed: %v", err)
		}
		if !regexp.MustCompile(`^user-dinner-[0-9a-f]{6}$`).MatchString(slug) {
			t.Errorf("Unexpected fallback slug %s", slug)
		}
	})

	t.Run("lookup error", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := UniqueSlug("Dinner", func(string) (bool, error) { return false, boom })
		if !errors.Is(err, boom) {
			t.Errorf("Expected lookup error, got %v", err)
		}
	})
}
