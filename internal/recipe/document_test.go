package recipe

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const validDocument = `---
title: "  Kombu-Cured Cod  "
subtitle: With brown butter dashi
category: main
difficulty: advanced
serves: 4
active_time: 1h 30m
total_time: 26h
tags: [fish, " japanese "]
---

# Kombu-Cured Cod

## Ingredients
- 200g butter
`

func TestParseDocument(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		doc, err := ParseDocument(validDocument)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		want := Metadata{
			Title:      "Kombu-Cured Cod",
			Subtitle:   "With brown butter dashi",
			Category:   CategoryMain,
			Difficulty: DifficultyAdvanced,
			Serves:     4,
			ActiveTime: "1h 30m",
			TotalTime:  "26h",
			Tags:       []string{"fish", "japanese"},
		}
		if !reflect.DeepEqual(doc.Metadata, want) {
			t.Errorf("Expected metadata %+v, got %+v", want, doc.Metadata)
		}
		if !strings.HasPrefix(doc.Body, "# Kombu-Cured Cod") {
			t.Errorf("Expected body to start with the heading, got %q", doc.Body)
		}
		if doc.Markdown != validDocument {
			t.Error("Expected the raw markdown to be kept")
		}
	})

	t.Run("MissingFrontMatter", func(t *testing.T) {
		_, err := ParseDocument("# No frontmatter here")
		if !errors.Is(err, ErrMissingFrontMatter) {
			t.Fatalf("Expected ErrMissingFrontMatter, got %v", err)
		}
	})

	t.Run("FieldErrors", func(t *testing.T) {
		doc := "---\ntitle: \"\"\ncategory: brunch\ndifficulty: easy\nserves: 0\nactive_time: 10m\ntags: []\nsubtitle: 3\n---\nbody"
		_, err := ParseDocument(doc)

		var verrs validation.Errors
		if !errors.As(err, &verrs) {
			t.Fatalf("Expected validation.Errors, got %T: %v", err, err)
		}
		for _, field := range []string{"title", "category", "serves", "total_time", "tags", "subtitle"} {
			if _, ok := verrs[field]; !ok {
				t.Errorf("Expected an error for %s, got %v", field, verrs)
			}
		}
		for _, field := range []string{"difficulty", "active_time"} {
			if _, ok := verrs[field]; ok {
				t.Errorf("Did not expect an error for %s", field)
			}
		}
		if got := verrs["category"].Error(); got != "Category must be one of: main, starter, dessert, side, drink, sauce" {
			t.Errorf("unexpected category message %q", got)
		}
	})

	t.Run("BlankTag", func(t *testing.T) {
		doc := strings.Replace(validDocument, `tags: [fish, " japanese "]`, `tags: [fish, "  "]`, 1)
		_, err := ParseDocument(doc)
		var verrs validation.Errors
		if !errors.As(err, &verrs) {
			t.Fatalf("Expected validation.Errors, got %v", err)
		}
		if got := verrs["tags"].Error(); got != "Tags must be an array of non-empty strings" {
			t.Errorf("unexpected tags message %q", got)
		}
	})
}

func TestBody(t *testing.T) {
	if got := Body(validDocument); !strings.HasPrefix(got, "# Kombu-Cured Cod") {
		t.Errorf("Expected body without frontmatter, got %q", got)
	}
	if got := Body("## Ingredients\n- a"); got != "## Ingredients\n- a" {
		t.Errorf("Expected input back when there is no frontmatter, got %q", got)
	}
}

func TestGenerateSlug(t *testing.T) {
	tests := map[string]string{
		"Kombu-Cured Cod":       "user-kombu-cured-cod",
		"Crème Brûlée":          "user-creme-brulee",
		"  Miso & Honey Glaze ": "user-miso-honey-glaze",
		"!!!":                   "user-recipe",
	}
	for title, want := range tests {
		if got := GenerateSlug(title); got != want {
			t.Errorf("GenerateSlug(%q) = %q, want %q", title, got, want)
		}
	}
}

func TestUniqueSlug(t *testing.T) {
	taken := map[string]bool{"user-cod": true, "user-cod-1": true}
	got, err := UniqueSlug("user-cod", func(s string) (bool, error) { return taken[s], nil })
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got != "user-cod-2" {
		t.Errorf("Expected user-cod-2, got %s", got)
	}

	boom := errors.New("db down")
	if _, err := UniqueSlug("x", func(string) (bool, error) { return false, boom }); !errors.Is(err, boom) {
		t.Errorf("Expected wrapped error, got %v", err)
	}
}
